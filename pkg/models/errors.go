package models

import "errors"

var (
	// ErrOutOfStock marks a definitive negative from the upstream store.
	ErrOutOfStock = errors.New("product out of stock")

	// ErrThrottled marks an upstream rate-limit response. The runner skips
	// the product instead of counting it as checked.
	ErrThrottled = errors.New("upstream throttled the request")

	// ErrUnsupportedStore is returned for store type tags outside the
	// known set.
	ErrUnsupportedStore = errors.New("store not supported")

	// ErrMissingProductID is returned by API-based checkers when the
	// catalog row lacks the upstream item id they need.
	ErrMissingProductID = errors.New("product has no store item id")
)
