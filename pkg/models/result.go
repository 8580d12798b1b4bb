package models

import (
	"fmt"
	"strings"
)

// Result is the positive arm of a stock check. A nil *Result means
// unavailable (or indeterminate); a non-nil Result always carries at least
// a title and a link.
type Result struct {
	Store   StoreType `json:"store"`
	Title   string    `json:"title"`
	Link    string    `json:"link"`
	Price   string    `json:"price,omitempty"`
	Offers  string    `json:"offers,omitempty"`
	Pincode string    `json:"pincode,omitempty"`
}

// Message renders the Telegram Markdown block for one in-stock hit.
func (r *Result) Message() string {
	var b strings.Builder

	if r.Pincode != "" {
		fmt.Fprintf(&b, "✅ *In Stock at %s (%s)*\n", r.Store.Label(), r.Pincode)
	} else {
		fmt.Fprintf(&b, "✅ *In Stock at %s*\n", r.Store.Label())
	}
	fmt.Fprintf(&b, "[%s](%s)", r.Title, r.Link)

	if r.Price != "" {
		fmt.Fprintf(&b, "\n💰 %s", r.Price)
	}
	if r.Offers != "" {
		fmt.Fprintf(&b, "\n📦 %s", r.Offers)
	}

	return b.String()
}
