package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/payment-plans/internal/cache"
	"github.com/iwvelando/payment-plans/internal/config"
	"github.com/iwvelando/payment-plans/internal/quote"
	"github.com/iwvelando/payment-plans/pkg/constants"
	"github.com/iwvelando/payment-plans/pkg/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	return NewHandler(zap.NewNop(), Options{
		MaxBodySize: constants.DefaultMaxBodySizeBytes,
		Cache:       cache.NewMemoryCache(),
		CacheTTL:    time.Minute,
		Branding:    quote.DefaultBranding(),
		Version:     "test-version",
		Now:         func() time.Time { return time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC) },
	})
}

func do(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodePlans(t *testing.T, rr *httptest.ResponseRecorder) plansResponse {
	t.Helper()
	var resp plansResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHandlePlansPost(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "String price", body: `{"price": "1,000,000"}`},
		{name: "Numeric price", body: `{"price": 1000000}`},
		{name: "Price inside unit", body: `{"unit": {"price": "EGP 1,000,000", "unitType": "Typical", "rooms": "2 Bedrooms"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, handler, http.MethodPost, "/api/plans", tt.body)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			resp := decodePlans(t, rr)
			if len(resp.Plans) != 6 {
				t.Fatalf("expected 6 plans, got %d", len(resp.Plans))
			}
			cash := testutil.FindPlan(resp.Plans, "plan-6")
			if cash == nil || cash.NetPrice != 700000 {
				t.Fatalf("unexpected cash plan %+v", cash)
			}
			if resp.Duration == "" {
				t.Fatal("expected duration in response")
			}

			groups := resp.Grouped["plan-3"]
			if len(groups) != 33 {
				t.Fatalf("expected 33 grouped steps for plan-3, got %d", len(groups))
			}
			var month12 bool
			for _, g := range groups {
				if g.Timing == 12 {
					month12 = true
					if g.Name() != "Annual Payment 1 + Quarterly Installment 4" {
						t.Errorf("unexpected month 12 group %q", g.Name())
					}
				}
			}
			if !month12 {
				t.Errorf("missing month 12 group")
			}
		})
	}
}

func TestHandlePlansGetAndCache(t *testing.T) {
	handler := newTestHandler(t)

	first := decodePlans(t, do(t, handler, http.MethodGet, "/api/plans?price=2,000,000", ""))
	if first.Cached {
		t.Fatal("first request should not be served from cache")
	}
	second := decodePlans(t, do(t, handler, http.MethodGet, "/api/plans?price=2000000", ""))
	if !second.Cached {
		t.Fatal("second request for the same price should be cached")
	}

	plan4 := testutil.FindPlan(second.Plans, "plan-4")
	if plan4 == nil || len(plan4.PhasedInstallments) != 2 {
		t.Fatalf("expected phased plan-4 from cache, got %+v", plan4)
	}
	if testutil.SumAmounts(plan4.Schedule) != 2000000 {
		t.Errorf("cached plan-4 total = %d", testutil.SumAmounts(plan4.Schedule))
	}
}

func TestPlanCacheStaysBounded(t *testing.T) {
	planCache := cache.NewMemoryCacheWithLimit(100)
	handler := NewHandler(zap.NewNop(), Options{
		Cache:    planCache,
		CacheTTL: time.Nanosecond,
	})

	for price := 1000000; price < 1000300; price++ {
		rr := do(t, handler, http.MethodGet, "/api/plans?price="+strconv.Itoa(price), "")
		if rr.Code != http.StatusOK {
			t.Fatalf("price %d: expected status 200, got %d", price, rr.Code)
		}
	}
	if n := planCache.Len(); n > 100 {
		t.Errorf("cache holds %d entries after 300 distinct prices, expected at most 100", n)
	}
}

func TestHandlePlansNotReady(t *testing.T) {
	handler := newTestHandler(t)

	for _, target := range []string{"/api/plans", "/api/plans?price=0"} {
		rr := do(t, handler, http.MethodGet, target, "")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, rr.Code)
		}
		resp := decodePlans(t, rr)
		if resp.Plans == nil || len(resp.Plans) != 0 {
			t.Errorf("%s: expected an empty plan list, got %v", target, resp.Plans)
		}
		if len(resp.Warnings) == 0 {
			t.Errorf("%s: expected an unpriced warning", target)
		}
	}
}

func TestHandlePlansErrors(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{name: "Bad price", method: http.MethodPost, body: `{"price": "12abc"}`, status: http.StatusBadRequest},
		{name: "Fractional price", method: http.MethodPost, body: `{"price": 1000.5}`, status: http.StatusBadRequest},
		{name: "Negative price", method: http.MethodPost, body: `{"price": "-5"}`, status: http.StatusBadRequest},
		{name: "Malformed JSON", method: http.MethodPost, body: `{"price":`, status: http.StatusBadRequest},
		{name: "Wrong price type", method: http.MethodPost, body: `{"price": true}`, status: http.StatusBadRequest},
		{name: "Method not allowed", method: http.MethodDelete, status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, handler, tt.method, "/api/plans", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	handler := NewHandler(zap.NewNop(), Options{MaxBodySize: 16})

	rr := do(t, handler, http.MethodPost, "/api/plans", `{"price": "1,000,000", "unit": {"building": "A1"}}`)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rr.Code)
	}
}

func TestHandleQuote(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"unit": {"price": "1,000,000", "unitType": "Ground + Garden", "rooms": "3 Bedrooms", "bua": 145},
		"selected": ["plan-2", "plan-6"], "contractDate": "2026-01-31"}`
	rr := do(t, handler, http.MethodPost, "/api/quote", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "PLDG_Quote_1000000.pdf") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !bytes.HasPrefix(rr.Body.Bytes(), []byte("%PDF-")) {
		t.Errorf("response is not a PDF")
	}
}

func TestHandleQuoteErrors(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{name: "Unpriced unit", method: http.MethodPost, body: `{"unit": {"unitType": "Typical"}}`, status: http.StatusUnprocessableEntity},
		{name: "Unknown plan", method: http.MethodPost, body: `{"price": 1000000, "selected": ["plan-9"]}`, status: http.StatusBadRequest},
		{name: "Bad contract date", method: http.MethodPost, body: `{"price": 1000000, "contractDate": "31/01/2026"}`, status: http.StatusBadRequest},
		{name: "Bad price", method: http.MethodPost, body: `{"price": "abc"}`, status: http.StatusBadRequest},
		{name: "Method not allowed", method: http.MethodGet, status: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, handler, tt.method, "/api/quote", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestHandleUnitExport(t *testing.T) {
	handler := newTestHandler(t)

	body := `{"unit": {"price": "1,250,000", "unitType": "Typical", "rooms": "2 Bedrooms", "building": "B7"},
		"selected": ["plan-3"], "contractDate": "2026-03-01"}`
	rr := do(t, handler, http.MethodPost, "/api/unit/export", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["filename"] != constants.DefaultConfigFile {
		t.Errorf("unexpected filename %q", resp["filename"])
	}

	conf, err := config.LoadConfigurationFromReader(strings.NewReader(resp["configYaml"]))
	if err != nil {
		t.Fatalf("exported YAML does not load: %v\n%s", err, resp["configYaml"])
	}
	price, err := conf.Price()
	if err != nil || price != 1250000 {
		t.Errorf("exported price = %d, %v", price, err)
	}
	if conf.Unit.Building != "B7" || conf.ContractDate != "2026-03-01" {
		t.Errorf("exported unit lost fields: %+v", conf)
	}
	if len(conf.Selection) != 1 || conf.Selection[0] != "plan-3" {
		t.Errorf("exported selection = %v", conf.Selection)
	}
	if strings.Contains(resp["configYaml"], "logging") {
		t.Errorf("exported YAML should omit empty sections:\n%s", resp["configYaml"])
	}
}

func TestHandleVersion(t *testing.T) {
	rr := do(t, newTestHandler(t), http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["version"] != "test-version" {
		t.Fatalf("unexpected version %q", resp["version"])
	}

	defaulted := do(t, NewHandler(nil, Options{}), http.MethodGet, "/api/version", "")
	if !strings.Contains(defaulted.Body.String(), `"dev"`) {
		t.Fatalf("expected dev version, got %s", defaulted.Body.String())
	}
}

func TestHealthAndStatic(t *testing.T) {
	handler := newTestHandler(t)

	health := do(t, handler, http.MethodGet, "/healthz", "")
	if health.Code != http.StatusOK || !strings.Contains(health.Body.String(), "ok") {
		t.Fatalf("unexpected health response %d %s", health.Code, health.Body.String())
	}

	index := do(t, handler, http.MethodGet, "/", "")
	if index.Code != http.StatusOK || !strings.Contains(index.Body.String(), "<html") {
		t.Fatalf("expected embedded UI, got %d", index.Code)
	}
}

func TestRequestID(t *testing.T) {
	handler := newTestHandler(t)

	rr := do(t, handler, http.MethodGet, "/healthz", "")
	if rr.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected a generated request ID")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	echoed := httptest.NewRecorder()
	handler.ServeHTTP(echoed, req)
	if got := echoed.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller request ID to be kept, got %q", got)
	}
}
