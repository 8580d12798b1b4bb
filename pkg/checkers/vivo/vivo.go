// Package vivo checks availability on vivo's India storefront. The page is
// rendered client-side, so the classification runs inside a headless
// browser instead of over raw HTML.
package vivo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"stock-hunter/pkg/models"
)

const (
	Source = models.StoreVivo

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// buyButtonJS resolves the primary purchase action in priority order and
// reports whether it exists and whether it is disabled.
const buyButtonJS = `
	(function() {
		const selectors = [".buy-btn", ".btn-buy-now", ".product-buy__btn", "#buyNow"];
		for (const sel of selectors) {
			const el = document.querySelector(sel);
			if (el) {
				const disabled = el.disabled === true ||
					el.classList.contains("disabled") ||
					el.getAttribute("aria-disabled") === "true";
				return { found: true, disabled: disabled };
			}
		}
		return { found: false, disabled: false };
	})()
`

var negativePhrases = []string{
	"out of stock",
	"sold out",
	"notify me",
	"currently unavailable",
}

type Checker struct {
	Timeout time.Duration
}

func New() *Checker {
	return &Checker{Timeout: 25 * time.Second}
}

func (c *Checker) NeedsPincode() bool { return false }

type buyButton struct {
	Found    bool `json:"found"`
	Disabled bool `json:"disabled"`
}

func (c *Checker) Check(product models.Product, _ string) (*models.Result, error) {
	if product.URL == "" {
		return nil, fmt.Errorf("vivo: product has no URL to scrape")
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	checkCtx, cancelCheck := context.WithTimeout(ctx, c.Timeout)
	defer cancelCheck()

	var (
		title    string
		price    string
		pageText string
		button   buyButton
	)

	log.Printf("[Vivo] Navigating to %s", product.URL)

	err := chromedp.Run(checkCtx,
		chromedp.Navigate(product.URL),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.Evaluate(`document.querySelector("h1")?.innerText || ""`, &title),
		chromedp.Evaluate(`document.querySelector(".price, .product-price")?.innerText || ""`, &price),
		chromedp.Evaluate(`document.body.innerText`, &pageText),
		chromedp.Evaluate(buyButtonJS, &button),
	)
	if err != nil {
		return nil, fmt.Errorf("vivo: chromedp run: %w", err)
	}

	lower := strings.ToLower(pageText)
	for _, phrase := range negativePhrases {
		if strings.Contains(lower, phrase) {
			log.Printf("[Vivo] %s: page says %q", product.Name, phrase)
			return nil, models.ErrOutOfStock
		}
	}
	if !button.Found || button.Disabled {
		return nil, models.ErrOutOfStock
	}

	title = strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	if title == "" {
		title = product.Name
	}

	return &models.Result{
		Store: Source,
		Title: title,
		Link:  product.Link(),
		Price: strings.TrimSpace(price),
	}, nil
}
