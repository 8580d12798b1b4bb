package models

import "fmt"

// StoreType identifies the retailer a product is tracked on. The set is
// closed: the runner dispatches by looking the type up in its checker
// registry, so adding a store means adding a constant here and a registry
// entry there.
type StoreType string

const (
	StoreCroma           StoreType = "croma"
	StoreFlipkart        StoreType = "flipkart"
	StoreAmazon          StoreType = "amazon"
	StoreVivo            StoreType = "vivo"
	StoreIqoo            StoreType = "iqoo"
	StoreUnicorn         StoreType = "unicorn"
	StoreRelianceDigital StoreType = "reliance_digital"
)

// AllStores lists every known store type in the fixed order used for
// summary rendering.
var AllStores = []StoreType{
	StoreCroma,
	StoreFlipkart,
	StoreAmazon,
	StoreVivo,
	StoreIqoo,
	StoreUnicorn,
	StoreRelianceDigital,
}

func ParseStoreType(s string) (StoreType, error) {
	st := StoreType(s)
	for _, known := range AllStores {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedStore, s)
}

func (s StoreType) String() string {
	return string(s)
}

// Label is the human-readable store name used in Telegram messages.
func (s StoreType) Label() string {
	switch s {
	case StoreCroma:
		return "Croma"
	case StoreFlipkart:
		return "Flipkart"
	case StoreAmazon:
		return "Amazon"
	case StoreVivo:
		return "Vivo"
	case StoreIqoo:
		return "iQOO"
	case StoreUnicorn:
		return "Unicorn"
	case StoreRelianceDigital:
		return "Reliance Digital"
	default:
		return string(s)
	}
}
