package croma

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"stock-hunter/pkg/models"
)

const (
	Source  = models.StoreCroma
	BaseURL = "https://api.croma.com/inventory/oms/v2/tms/details-pwa/"

	// Public key the croma.com PWA ships with; the OMS endpoint rejects
	// requests without it.
	subscriptionKey = "1131858141634e2abe2efb2b3a2a2a5d"
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

func (c *Checker) NeedsPincode() bool { return true }

// promiseResponse mirrors only the part of the OMS reply we classify on:
// a non-empty suggested promise line means the item can be delivered to
// the pincode.
type promiseResponse struct {
	Promise struct {
		SuggestedOption struct {
			Option struct {
				PromiseLines json.RawMessage `json:"promiseLines"`
			} `json:"option"`
		} `json:"suggestedOption"`
	} `json:"promise"`
}

func (c *Checker) Check(product models.Product, pincode string) (*models.Result, error) {
	if product.ProductID == "" {
		return nil, fmt.Errorf("croma: %w", models.ErrMissingProductID)
	}

	payload := map[string]any{
		"promise": map[string]any{
			"allocationRuleID":       "SYSTEM",
			"checkInventory":         "Y",
			"organizationCode":       "CROMA",
			"sourcingClassification": "EC",
			"promiseLines": map[string]any{
				"promiseLine": []map[string]any{{
					"fulfillmentType": "HDEL",
					"itemID":          product.ProductID,
					"lineId":          "1",
					"requiredQty":     "1",
					"shipToAddress":   map[string]string{"zipCode": pincode},
					"extn":            map[string]string{"widerStoreFlag": "N"},
				}},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("croma: marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("croma: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("oms-apim-subscription-key", subscriptionKey)
	req.Header.Set("Origin", "https://www.croma.com")
	req.Header.Set("Referer", "https://www.croma.com/")

	res, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("croma: request: %w", err)
	}
	defer res.Body.Close()

	var promise promiseResponse
	if err := json.NewDecoder(res.Body).Decode(&promise); err != nil {
		return nil, fmt.Errorf("croma: decode response: %w", err)
	}

	lines := promise.Promise.SuggestedOption.Option.PromiseLines
	if len(lines) == 0 || string(lines) == "null" || string(lines) == "{}" || string(lines) == "[]" {
		return nil, models.ErrOutOfStock
	}

	return &models.Result{
		Store:   Source,
		Title:   product.Name,
		Link:    product.Link(),
		Pincode: pincode,
	}, nil
}
