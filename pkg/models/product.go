package models

// Product is one tracked catalog row. It is loaded once per run and never
// mutated by the checkers.
type Product struct {
	Name          string    `json:"name"`
	URL           string    `json:"url"`
	ProductID     string    `json:"product_id"`
	StoreType     StoreType `json:"store_type"`
	AffiliateLink string    `json:"affiliate_link,omitempty"`
}

// Link returns the affiliate link when one is configured, otherwise the
// canonical product URL.
func (p Product) Link() string {
	if p.AffiliateLink != "" {
		return p.AffiliateLink
	}
	return p.URL
}
