package amazon

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-hunter/pkg/models"
)

func testChecker(endpoint string) *Checker {
	c := New("AKIDEXAMPLE", "secret", "tag-21")
	c.Endpoint = endpoint + "/paapi5/getitems"
	c.Now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func testProduct() models.Product {
	return models.Product{
		Name:      "Pixel 9",
		URL:       "https://www.amazon.in/dp/B0TEST",
		ProductID: "B0TEST",
		StoreType: models.StoreAmazon,
	}
}

func TestCheckAPI_InStock(t *testing.T) {
	var gotAuth, gotDate, gotTarget string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotDate = r.Header.Get("X-Amz-Date")
		gotTarget = r.Header.Get("X-Amz-Target")
		fmt.Fprint(w, `{"ItemsResult":{"Items":[{
			"ItemInfo":{"Title":{"DisplayValue":"Google Pixel 9 (Obsidian)"}},
			"Offers":{"Listings":[{
				"Price":{"DisplayAmount":"₹74,999.00"},
				"Availability":{"Message":"In stock"}
			}]}
		}]}}`)
	}))
	defer ts.Close()

	result, err := testChecker(ts.URL).Check(testProduct(), "")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	if result.Title != "Google Pixel 9 (Obsidian)" {
		t.Errorf("unexpected title %q", result.Title)
	}
	if result.Price != "₹74,999.00" {
		t.Errorf("unexpected price %q", result.Price)
	}
	if result.Offers != "In stock" {
		t.Errorf("unexpected offers %q", result.Offers)
	}

	if gotDate != "20250601T120000Z" {
		t.Errorf("unexpected X-Amz-Date %q", gotDate)
	}
	if gotTarget != amzTarget {
		t.Errorf("unexpected X-Amz-Target %q", gotTarget)
	}
	wantScope := "Credential=AKIDEXAMPLE/20250601/eu-west-1/ProductAdvertisingAPI/aws4_request"
	if !strings.Contains(gotAuth, wantScope) {
		t.Errorf("Authorization %q missing scope %q", gotAuth, wantScope)
	}
	if !strings.Contains(gotAuth, "SignedHeaders=content-encoding;host;x-amz-date;x-amz-target") {
		t.Errorf("Authorization %q missing signed headers", gotAuth)
	}
}

func TestCheckAPI_NoItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Errors":[{"Code":"ItemNotAccessible","Message":"not accessible"}]}`)
	}))
	defer ts.Close()

	result, err := testChecker(ts.URL).Check(testProduct(), "")
	if result != nil {
		t.Errorf("expected nil result, got %+v", result)
	}
	if !errors.Is(err, models.ErrOutOfStock) {
		t.Errorf("expected ErrOutOfStock, got %v", err)
	}
}

func TestCheckAPI_Throttled(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http 429", http.StatusTooManyRequests, `{}`},
		{"error code", http.StatusOK, `{"Errors":[{"Code":"TooManyRequests","Message":"slow down"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			result, err := testChecker(ts.URL).Check(testProduct(), "")
			if result != nil {
				t.Errorf("expected nil result, got %+v", result)
			}
			if !errors.Is(err, models.ErrThrottled) {
				t.Errorf("expected ErrThrottled, got %v", err)
			}
		})
	}
}

func TestSignatureKey_Deterministic(t *testing.T) {
	a := signatureKey("secret", "20250601", Region, Service)
	b := signatureKey("secret", "20250601", Region, Service)
	if !bytes.Equal(a, b) {
		t.Error("same inputs must derive the same key")
	}

	c := signatureKey("secret", "20250602", Region, Service)
	if bytes.Equal(a, c) {
		t.Error("different dates must derive different keys")
	}
}

func TestBuildAuthorization_Shape(t *testing.T) {
	auth := buildAuthorization(signingInput{
		Method:      http.MethodPost,
		Host:        "webservices.amazon.in",
		Path:        "/paapi5/getitems",
		Payload:     []byte(`{"ItemIds":["B0TEST"]}`),
		AmzDate:     "20250601T120000Z",
		DateStamp:   "20250601",
		Region:      Region,
		Service:     Service,
		AccessKeyID: "AKIDEXAMPLE",
		SecretKey:   "secret",
	})

	if !strings.HasPrefix(auth, "AWS4-HMAC-SHA256 ") {
		t.Errorf("unexpected algorithm prefix: %q", auth)
	}

	parts := strings.Split(auth, "Signature=")
	if len(parts) != 2 {
		t.Fatalf("missing signature: %q", auth)
	}
	if len(parts[1]) != 64 {
		t.Errorf("signature should be 64 hex chars, got %d", len(parts[1]))
	}
}
