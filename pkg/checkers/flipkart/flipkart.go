package flipkart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-hunter/pkg/models"
)

const (
	Source  = models.StoreFlipkart
	BaseURL = "https://www.flipkart.com/api/6/product/serviceability"
)

type Checker struct {
	BaseURL string
	Client  *http.Client
}

func New() *Checker {
	return &Checker{
		BaseURL: BaseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Checker) NeedsPincode() bool { return true }

type serviceabilityResponse struct {
	Response struct {
		Listings map[string]struct {
			Serviceable bool   `json:"serviceable"`
			Available   bool   `json:"available"`
			Price       string `json:"formattedPrice"`
		} `json:"listings"`
	} `json:"RESPONSE"`
}

// Check asks the serviceability API whether the listing can be bought and
// delivered to the pincode. Both flags have to be true: a listing can be
// live but not serviceable for remote pincodes.
func (c *Checker) Check(product models.Product, pincode string) (*models.Result, error) {
	if product.ProductID == "" {
		return nil, fmt.Errorf("flipkart: %w", models.ErrMissingProductID)
	}

	body, err := json.Marshal(map[string]any{
		"pincode":    pincode,
		"listingIds": []string{product.ProductID},
	})
	if err != nil {
		return nil, fmt.Errorf("flipkart: marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("flipkart: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-Agent", "Mozilla/5.0 FKUA/website/42/website/Desktop")
	req.Header.Set("Origin", "https://www.flipkart.com")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flipkart: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("flipkart: unexpected status %d", res.StatusCode)
	}

	var data serviceabilityResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("flipkart: decode response: %w", err)
	}

	listing, ok := data.Response.Listings[product.ProductID]
	if !ok {
		return nil, fmt.Errorf("flipkart: listing %s missing from response", product.ProductID)
	}
	if !listing.Serviceable || !listing.Available {
		return nil, models.ErrOutOfStock
	}

	return &models.Result{
		Store:   Source,
		Title:   product.Name,
		Link:    product.Link(),
		Price:   listing.Price,
		Pincode: pincode,
	}, nil
}
