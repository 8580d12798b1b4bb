// Package amazon checks availability through the Product Advertising API
// when credentials are configured, falling back to a product-page scrape
// when they are not. PAAPI throttles aggressively on free tiers, so a
// throttled reply is reported as a skip rather than a miss.
package amazon

import (
	"net/http"
	"time"

	"stock-hunter/pkg/models"
)

const (
	Source = models.StoreAmazon

	Endpoint    = "https://webservices.amazon.in/paapi5/getitems"
	Region      = "eu-west-1"
	Service     = "ProductAdvertisingAPI"
	Marketplace = "www.amazon.in"
)

type Checker struct {
	AccessKeyID     string
	SecretAccessKey string
	PartnerTag      string

	// Endpoint is the PAAPI URL; overridable for tests.
	Endpoint string
	Client   *http.Client

	Now func() time.Time
}

func New(accessKeyID, secretAccessKey, partnerTag string) *Checker {
	return &Checker{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
		PartnerTag:      partnerTag,
		Endpoint:        Endpoint,
		Client:          &http.Client{Timeout: 10 * time.Second},
		Now:             time.Now,
	}
}

func (c *Checker) NeedsPincode() bool { return false }

func (c *Checker) Check(product models.Product, _ string) (*models.Result, error) {
	if c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return c.checkPage(product)
	}
	return c.checkAPI(product)
}
