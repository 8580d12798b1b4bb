package unicorn

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-hunter/pkg/models"
)

// Unicorn's storefront runs on Shopify, so availability comes from the
// public product JSON endpoint rather than a bespoke inventory API.
const (
	Source  = models.StoreUnicorn
	BaseURL = "https://www.unicornstore.in/products/"
)

type Checker struct {
	BaseURL string
	Client  *http.Client
}

func New() *Checker {
	return &Checker{
		BaseURL: BaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Checker) NeedsPincode() bool { return false }

type shopifyProduct struct {
	Title    string `json:"title"`
	Price    int    `json:"price"` // paise
	Variants []struct {
		ID                int64 `json:"id"`
		Available         bool  `json:"available"`
		InventoryQuantity int   `json:"inventory_quantity"`
	} `json:"variants"`
}

// Check fetches {handle}.js for the product, where ProductID is the
// Shopify handle. Available iff any variant reports stock on hand.
func (c *Checker) Check(product models.Product, _ string) (*models.Result, error) {
	if product.ProductID == "" {
		return nil, fmt.Errorf("unicorn: %w", models.ErrMissingProductID)
	}

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+product.ProductID+".js", nil)
	if err != nil {
		return nil, fmt.Errorf("unicorn: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unicorn: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unicorn: unexpected status %d", res.StatusCode)
	}

	var data shopifyProduct
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("unicorn: decode response: %w", err)
	}

	inStock := false
	for _, v := range data.Variants {
		if v.InventoryQuantity > 0 {
			inStock = true
			break
		}
	}
	if !inStock {
		return nil, models.ErrOutOfStock
	}

	title := data.Title
	if title == "" {
		title = product.Name
	}

	return &models.Result{
		Store: Source,
		Title: title,
		Link:  product.Link(),
		Price: fmt.Sprintf("₹%.2f", float64(data.Price)/100),
	}, nil
}
