package models

import (
	"fmt"
	"strings"
	"time"
)

// StoreCount tracks how many products were checked and how many of those
// were in stock for a single store.
type StoreCount struct {
	Checked int `json:"checked"`
	InStock int `json:"in_stock"`
}

// RunSummary is the derived outcome of one full check run. It is built for
// message formatting only and never persisted.
type RunSummary struct {
	Stores       map[StoreType]StoreCount `json:"stores"`
	TotalInStock int                      `json:"total_in_stock"`
	Duration     time.Duration            `json:"duration"`
	StartedAt    time.Time                `json:"started_at"`
}

func NewRunSummary(startedAt time.Time) *RunSummary {
	return &RunSummary{
		Stores:    make(map[StoreType]StoreCount),
		StartedAt: startedAt,
	}
}

func (s *RunSummary) Record(store StoreType, inStock bool) {
	c := s.Stores[store]
	c.Checked++
	if inStock {
		c.InStock++
		s.TotalInStock++
	}
	s.Stores[store] = c
}

// String renders the summary deterministically: stores appear in the fixed
// AllStores order, and stores with no checked products are omitted.
func (s *RunSummary) String() string {
	var b strings.Builder

	b.WriteString("📊 *Stock Check Summary*\n")
	for _, store := range AllStores {
		c, ok := s.Stores[store]
		if !ok || c.Checked == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %d/%d in stock\n", store.Label(), c.InStock, c.Checked)
	}
	fmt.Fprintf(&b, "Total in stock: %d\n", s.TotalInStock)
	fmt.Fprintf(&b, "Duration: %.1fs\n", s.Duration.Seconds())
	fmt.Fprintf(&b, "Checked at: %s", s.StartedAt.UTC().Format("2006-01-02 15:04:05 MST"))

	return b.String()
}
