package amazon

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stock-hunter/pkg/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// buySelectors are tried in order; the first match is treated as the
// page's primary action element.
var buySelectors = []string{
	"#add-to-cart-button",
	"#buy-now-button",
	"input[name='submit.add-to-cart']",
}

var negativePhrases = []string{
	"currently unavailable",
	"out of stock",
	"sold out",
	"notify me",
}

// checkPage classifies availability from the public product page. Used
// when no PAAPI credentials are configured; heuristic, false results are
// accepted.
func (c *Checker) checkPage(product models.Product) (*models.Result, error) {
	if product.URL == "" {
		return nil, fmt.Errorf("amazon: product has no URL to scrape")
	}

	req, err := http.NewRequest(http.MethodGet, product.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("amazon: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-IN,en;q=0.9")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amazon: fetch page: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amazon: page returned status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("amazon: parse page: %w", err)
	}

	pageText := strings.ToLower(doc.Text())
	for _, phrase := range negativePhrases {
		if strings.Contains(pageText, phrase) {
			return nil, fmt.Errorf("amazon: page says %q: %w", phrase, models.ErrOutOfStock)
		}
	}

	var action *goquery.Selection
	for _, sel := range buySelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			action = s
			break
		}
	}
	if action == nil {
		return nil, fmt.Errorf("amazon: no buy action on page: %w", models.ErrOutOfStock)
	}
	if _, disabled := action.Attr("disabled"); disabled {
		return nil, fmt.Errorf("amazon: buy action disabled: %w", models.ErrOutOfStock)
	}

	title := strings.TrimSpace(doc.Find("#productTitle").First().Text())
	if title == "" {
		title = product.Name
	}
	price := strings.TrimSpace(doc.Find(".a-price .a-offscreen").First().Text())

	return &models.Result{
		Store: Source,
		Title: title,
		Link:  product.Link(),
		Price: price,
	}, nil
}
