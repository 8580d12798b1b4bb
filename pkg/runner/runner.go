// Package runner drives one full check pass over the catalog: dispatch by
// store type, per-pincode serviceability loops, and summary accounting.
package runner

import (
	"errors"
	"log"
	"time"

	"stock-hunter/pkg/logger"
	"stock-hunter/pkg/models"
)

// Checker is the per-store adapter contract. A nil result with a nil error
// never happens: unavailable is always reported through an error so the
// reason lands in the logs.
type Checker interface {
	Check(product models.Product, pincode string) (*models.Result, error)
	NeedsPincode() bool
}

// Registry maps each store type to its checker. Dispatch is a table
// lookup; adding a retailer means one entry here.
type Registry map[models.StoreType]Checker

type Runner struct {
	Registry Registry

	// Pincodes are tried in order for pincode-sensitive stores. With
	// CheckAllPincodes false the loop stops at the first hit; either way a
	// product counts as at most one hit.
	Pincodes         []string
	CheckAllPincodes bool

	Now func() time.Time
}

func New(registry Registry, pincodes []string, checkAll bool) *Runner {
	return &Runner{
		Registry:         registry,
		Pincodes:         pincodes,
		CheckAllPincodes: checkAll,
		Now:              time.Now,
	}
}

// Run checks every product sequentially and returns the positive results
// in catalog order plus the run summary. Checker failures are downgraded
// to misses; nothing a checker does can abort the run.
func (r *Runner) Run(products []models.Product) ([]*models.Result, *models.RunSummary) {
	start := r.Now()
	summary := models.NewRunSummary(start)

	var hits []*models.Result

	for _, product := range products {
		checker, ok := r.Registry[product.StoreType]
		if !ok {
			log.Printf("[runner] Skipping %s: unknown store type %q", product.Name, product.StoreType)
			continue
		}

		result, skipped := r.checkProduct(checker, product)
		if skipped {
			continue
		}

		summary.Record(product.StoreType, result != nil)
		if result != nil {
			hits = append(hits, result)
		}
	}

	logger.Flush()
	summary.Duration = r.Now().Sub(start)

	return hits, summary
}

// checkProduct runs one product through its checker, looping pincodes for
// serviceability-based stores. skipped is true for throttled responses,
// which are excluded from the counters entirely.
func (r *Runner) checkProduct(checker Checker, product models.Product) (result *models.Result, skipped bool) {
	pincodes := []string{""}
	if checker.NeedsPincode() {
		pincodes = r.Pincodes
	}

	for _, pincode := range pincodes {
		res, err := checker.Check(product, pincode)
		if err != nil {
			if errors.Is(err, models.ErrThrottled) {
				log.Printf("[runner] %s throttled for %s, skipping", product.StoreType, product.Name)
				return nil, true
			}
			if errors.Is(err, models.ErrOutOfStock) {
				logger.Dedup("[runner] %s: %s not in stock", product.StoreType, product.Name)
			} else {
				log.Printf("[runner] %s check failed for %s: %v", product.StoreType, product.Name, err)
			}
			continue
		}

		if result == nil {
			result = res
		}
		if !r.CheckAllPincodes {
			break
		}
	}

	return result, false
}
