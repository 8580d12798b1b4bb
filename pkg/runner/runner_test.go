package runner

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"stock-hunter/pkg/models"
)

// stubChecker scripts one response per pincode (or a single response for
// stores that ignore pincodes) and records the calls it receives.
type stubChecker struct {
	needsPincode bool
	results      map[string]*models.Result
	errs         map[string]error
	calls        []string
}

func (s *stubChecker) NeedsPincode() bool { return s.needsPincode }

func (s *stubChecker) Check(p models.Product, pincode string) (*models.Result, error) {
	s.calls = append(s.calls, pincode)
	if err, ok := s.errs[pincode]; ok {
		return nil, err
	}
	if res, ok := s.results[pincode]; ok {
		return res, nil
	}
	return nil, models.ErrOutOfStock
}

func hit(store models.StoreType, title string) *models.Result {
	return &models.Result{Store: store, Title: title, Link: "https://example.com/p"}
}

func product(name string, store models.StoreType) models.Product {
	return models.Product{Name: name, URL: "https://example.com/p", ProductID: "1", StoreType: store}
}

func TestRun_CountsHitsAndMisses(t *testing.T) {
	registry := Registry{
		models.StoreAmazon: &stubChecker{results: map[string]*models.Result{"": hit(models.StoreAmazon, "A")}},
		models.StoreIqoo:   &stubChecker{errs: map[string]error{"": models.ErrOutOfStock}},
	}
	r := New(registry, nil, false)

	hits, summary := r.Run([]models.Product{
		product("a1", models.StoreAmazon),
		product("a2", models.StoreAmazon),
		product("i1", models.StoreIqoo),
	})

	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if c := summary.Stores[models.StoreAmazon]; c.Checked != 2 || c.InStock != 2 {
		t.Errorf("amazon counters wrong: %+v", c)
	}
	if c := summary.Stores[models.StoreIqoo]; c.Checked != 1 || c.InStock != 0 {
		t.Errorf("iqoo counters wrong: %+v", c)
	}
	if summary.TotalInStock != len(hits) {
		t.Errorf("total %d != hit count %d", summary.TotalInStock, len(hits))
	}
}

func TestRun_UnknownStoreSkippedEntirely(t *testing.T) {
	r := New(Registry{}, nil, false)

	hits, summary := r.Run([]models.Product{
		{Name: "x", StoreType: models.StoreType("bigbasket")},
	})

	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if len(summary.Stores) != 0 {
		t.Errorf("unknown store leaked into counters: %+v", summary.Stores)
	}
}

func TestRun_CheckerFailureIsAMiss(t *testing.T) {
	registry := Registry{
		models.StoreCroma: &stubChecker{
			needsPincode: true,
			errs:         map[string]error{"132001": fmt.Errorf("Get: context deadline exceeded")},
		},
	}
	r := New(registry, []string{"132001"}, false)

	hits, summary := r.Run([]models.Product{product("c1", models.StoreCroma)})

	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if c := summary.Stores[models.StoreCroma]; c.Checked != 1 || c.InStock != 0 {
		t.Errorf("croma counters wrong: %+v", c)
	}
}

func TestRun_ThrottledExcludedFromCounters(t *testing.T) {
	registry := Registry{
		models.StoreAmazon: &stubChecker{errs: map[string]error{"": models.ErrThrottled}},
	}
	r := New(registry, nil, false)

	hits, summary := r.Run([]models.Product{product("a1", models.StoreAmazon)})

	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
	if _, ok := summary.Stores[models.StoreAmazon]; ok {
		t.Errorf("throttled product must not be counted: %+v", summary.Stores)
	}
}

func TestRun_PincodeShortCircuit(t *testing.T) {
	stub := &stubChecker{
		needsPincode: true,
		results:      map[string]*models.Result{"110001": hit(models.StoreCroma, "C")},
		errs:         map[string]error{"132001": models.ErrOutOfStock},
	}
	r := New(Registry{models.StoreCroma: stub}, []string{"132001", "110001", "560001"}, false)

	hits, _ := r.Run([]models.Product{product("c1", models.StoreCroma)})

	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if len(stub.calls) != 2 {
		t.Errorf("expected short-circuit after the second pincode, got calls %v", stub.calls)
	}
}

func TestRun_CheckAllPincodesCountsOnce(t *testing.T) {
	stub := &stubChecker{
		needsPincode: true,
		results: map[string]*models.Result{
			"132001": hit(models.StoreCroma, "first"),
			"110001": hit(models.StoreCroma, "second"),
		},
	}
	r := New(Registry{models.StoreCroma: stub}, []string{"132001", "110001"}, true)

	hits, summary := r.Run([]models.Product{product("c1", models.StoreCroma)})

	if len(stub.calls) != 2 {
		t.Errorf("expected both pincodes checked, got calls %v", stub.calls)
	}
	// Two serviceable pincodes still mean one in-stock product.
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Title != "first" {
		t.Errorf("expected the first pincode's result, got %q", hits[0].Title)
	}
	if c := summary.Stores[models.StoreCroma]; c.Checked != 1 || c.InStock != 1 {
		t.Errorf("croma counters wrong: %+v", c)
	}
}

func TestRun_EndToEndTwoOfThree(t *testing.T) {
	registry := Registry{
		models.StoreCroma: &stubChecker{
			needsPincode: true,
			results:      map[string]*models.Result{"132001": hit(models.StoreCroma, "C")},
		},
		models.StoreAmazon: &stubChecker{results: map[string]*models.Result{"": hit(models.StoreAmazon, "A")}},
		models.StoreIqoo:   &stubChecker{errs: map[string]error{"": fmt.Errorf("timeout")}},
	}
	r := New(registry, []string{"132001"}, false)

	hits, summary := r.Run([]models.Product{
		product("c1", models.StoreCroma),
		product("a1", models.StoreAmazon),
		product("i1", models.StoreIqoo),
	})

	if len(hits) != 2 {
		t.Fatalf("expected 2 positive messages, got %d", len(hits))
	}
	if summary.TotalInStock != 2 {
		t.Errorf("expected total 2, got %d", summary.TotalInStock)
	}
	text := summary.String()
	for _, want := range []string{"Croma: 1/1 in stock", "Amazon: 1/1 in stock", "iQOO: 0/1 in stock", "Total in stock: 2"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
}

// Two runs against identical upstream behavior must render byte-identical
// summaries apart from timestamp and duration.
func TestRun_SummaryIdempotent(t *testing.T) {
	registry := Registry{
		models.StoreAmazon: &stubChecker{results: map[string]*models.Result{"": hit(models.StoreAmazon, "A")}},
		models.StoreCroma: &stubChecker{
			needsPincode: true,
			errs:         map[string]error{"132001": models.ErrOutOfStock},
		},
	}
	products := []models.Product{
		product("c1", models.StoreCroma),
		product("a1", models.StoreAmazon),
	}

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	run := func() string {
		r := New(registry, []string{"132001"}, false)
		r.Now = func() time.Time { return fixed }
		_, summary := r.Run(products)
		return summary.String()
	}

	first, second := run(), run()
	if first != second {
		t.Errorf("summaries differ:\n%s\n---\n%s", first, second)
	}
}

func TestRun_ErrorNeverEscapesChecker(t *testing.T) {
	registry := Registry{
		models.StoreAmazon: &stubChecker{errs: map[string]error{"": errors.New("connection reset")}},
	}
	r := New(registry, nil, false)

	defer func() {
		if recovered := recover(); recovered != nil {
			t.Fatalf("run panicked: %v", recovered)
		}
	}()

	hits, summary := r.Run([]models.Product{product("a1", models.StoreAmazon)})
	if len(hits) != 0 || summary.TotalInStock != 0 {
		t.Errorf("failed check leaked a positive result")
	}
}
