package reliancedigital

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"stock-hunter/pkg/models"
)

const (
	Source  = models.StoreRelianceDigital
	BaseURL = "https://www.reliancedigital.in/rildigitalws/v2/rrldigital/cms/serviceability"
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
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Data struct {
		ExactQty int    `json:"exactQty"`
		Mrp      string `json:"formattedMrp"`
	} `json:"data"`
}

// Check queries the article serviceability endpoint. An OUT_OF_STOCK error
// code or a zero deliverable quantity both count as unavailable; any other
// error code is a failed check, not a negative.
func (c *Checker) Check(product models.Product, pincode string) (*models.Result, error) {
	if product.ProductID == "" {
		return nil, fmt.Errorf("reliance_digital: %w", models.ErrMissingProductID)
	}

	query := url.Values{}
	query.Set("articleId", product.ProductID)
	query.Set("pincode", pincode)

	req, err := http.NewRequest(http.MethodGet, c.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("reliance_digital: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Origin", "https://www.reliancedigital.in")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reliance_digital: request: %w", err)
	}
	defer res.Body.Close()

	var data serviceabilityResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("reliance_digital: decode response: %w", err)
	}

	for _, apiErr := range data.Errors {
		if apiErr.Code == "OUT_OF_STOCK" {
			return nil, models.ErrOutOfStock
		}
		return nil, fmt.Errorf("reliance_digital: upstream error %s: %s", apiErr.Code, apiErr.Message)
	}

	if data.Data.ExactQty <= 0 {
		return nil, models.ErrOutOfStock
	}

	return &models.Result{
		Store:   Source,
		Title:   product.Name,
		Link:    product.Link(),
		Price:   data.Data.Mrp,
		Pincode: pincode,
	}, nil
}
