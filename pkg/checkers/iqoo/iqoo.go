package iqoo

import (
	"log"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"stock-hunter/pkg/models"
)

const (
	Source = models.StoreIqoo

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// buySelectors are tried in priority order; the first element found on the
// page is treated as the primary purchase action.
var buySelectors = []string{
	".buy-now-btn",
	"#buyNow",
	".product-buy .btn-buy",
}

// negativePhrases anywhere in the page body override an enabled buy button.
var negativePhrases = []string{
	"out of stock",
	"sold out",
	"notify me",
	"currently unavailable",
}

type Checker struct {
	Collector *colly.Collector
	Timeout   time.Duration
}

func New() *Checker {
	c := colly.NewCollector(
		colly.AllowedDomains("www.iqoo.com", "127.0.0.1"), // localhost for testing
		colly.UserAgent(userAgent),
	)
	return &Checker{Collector: c, Timeout: 20 * time.Second}
}

func (c *Checker) NeedsPincode() bool { return false }

// Check scrapes the product page. This is a heuristic: an enabled buy
// action with no negative phrase on the page counts as in stock.
func (c *Checker) Check(product models.Product, _ string) (*models.Result, error) {
	var (
		title         string
		price         string
		buyFound      bool
		buyDisabled   bool
		negativeFound string
	)

	// Clone per check: callbacks must not accumulate across products.
	collector := c.Collector.Clone()
	collector.SetRequestTimeout(c.Timeout)

	collector.OnHTML("h1", func(e *colly.HTMLElement) {
		if title == "" {
			title = strings.TrimSpace(e.Text)
		}
	})

	collector.OnHTML(".price, .product-price", func(e *colly.HTMLElement) {
		if price == "" {
			price = strings.TrimSpace(e.Text)
		}
	})

	for _, sel := range buySelectors {
		collector.OnHTML(sel, func(e *colly.HTMLElement) {
			if buyFound {
				return
			}
			buyFound = true
			_, hasDisabledAttr := e.DOM.Attr("disabled")
			if hasDisabledAttr || strings.Contains(e.Attr("class"), "disabled") {
				buyDisabled = true
			}
		})
	}

	collector.OnHTML("body", func(e *colly.HTMLElement) {
		pageText := strings.ToLower(e.Text)
		for _, phrase := range negativePhrases {
			if strings.Contains(pageText, phrase) {
				negativeFound = phrase
				return
			}
		}
	})

	log.Printf("[iQOO] Navigating to %s", product.URL)
	if err := collector.Visit(product.URL); err != nil {
		return nil, err
	}

	if negativeFound != "" {
		log.Printf("[iQOO] %s: page says %q", product.Name, negativeFound)
		return nil, models.ErrOutOfStock
	}
	if !buyFound || buyDisabled {
		return nil, models.ErrOutOfStock
	}

	if title == "" {
		title = product.Name
	}

	return &models.Result{
		Store: Source,
		Title: title,
		Link:  product.Link(),
		Price: price,
	}, nil
}
