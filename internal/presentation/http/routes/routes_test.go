package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/config"
	"github.com/sangkips/stayledger-api/internal/presentation/http/handler"
	"github.com/sangkips/stayledger-api/internal/presentation/http/middleware"
	"github.com/sangkips/stayledger-api/pkg/invoicepdf"
	"github.com/sangkips/stayledger-api/pkg/utils"
)

const testSecret = "testsecret"

// buildTestRouter wires handlers over services without repositories; every
// request below is answered before a repository would be touched.
func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	reservations := service.NewReservationService(nil, nil, nil, nil)
	invoices := service.NewInvoiceService(nil, nil, nil, invoicepdf.Party{}, nil)
	hosts := service.NewHostService(nil, nil, nil)

	h := &Handlers{
		Host:        handler.NewHostHandler(hosts),
		Property:    handler.NewPropertyHandler(service.NewPropertyService(nil, nil, nil, nil)),
		Client:      handler.NewClientHandler(service.NewClientService(nil, nil, nil)),
		Pincode:     handler.NewPincodeHandler(service.NewPincodeService(nil, nil)),
		Reservation: handler.NewReservationHandler(reservations),
		Invoice:     handler.NewInvoiceHandler(invoices),
	}
	cfg := &config.Config{
		App:       config.AppConfig{Name: "stayledger-api"},
		RateLimit: config.RateLimitConfig{Requests: 100, Duration: 60},
	}
	return Setup(h, &Deps{JWTManager: utils.NewJWTManager(testSecret, time.Hour), Cfg: cfg})
}

func signTestToken(t *testing.T, permissions ...string) string {
	t.Helper()
	token, err := utils.NewJWTManager(testSecret, time.Hour).GenerateAccessToken(uuid.New(), "desk@example.com", permissions)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func serve(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	_ = json.Unmarshal(resp.Body.Bytes(), &env)
	return resp, env
}

func TestHealthAndMetrics(t *testing.T) {
	router := buildTestRouter()

	resp, _ := serve(t, router, http.MethodGet, "/health", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}
	var health struct {
		Status      string `json:"status"`
		RateLimiter struct {
			ActiveUsers int     `json:"active_users"`
			BurstSize   int     `json:"burst_size"`
			PerSecond   float64 `json:"rate_per_second"`
		} `json:"rate_limiter"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.RateLimiter.BurstSize != 100 {
		t.Errorf("health = %+v", health)
	}
	resp, _ = serve(t, router, http.MethodGet, "/metrics", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("metrics = %d", resp.Code)
	}
}

func TestReservationRoutesRBAC(t *testing.T) {
	router := buildTestRouter()
	quote := map[string]interface{}{
		"stay": map[string]string{"check_in_date": "2026-01-10", "check_out_date": "2026-01-13"},
	}

	resp, _ := serve(t, router, http.MethodPost, "/api/v1/reservations/quote", "", quote)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	resp, _ = serve(t, router, http.MethodPost, "/api/v1/reservations/quote", signTestToken(t, middleware.PermissionInvoices), quote)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without manage-reservations, got %d", resp.Code)
	}

	resp, _ = serve(t, router, http.MethodPost, "/api/v1/reservations/quote", signTestToken(t, "*"), quote)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with wildcard permission, got %d", resp.Code)
	}
}

func TestQuoteRoute(t *testing.T) {
	router := buildTestRouter()
	token := signTestToken(t, middleware.PermissionReservations)

	resp, env := serve(t, router, http.MethodPost, "/api/v1/reservations/quote", token, map[string]interface{}{
		"stay":    map[string]string{"check_in_date": "2026-01-10", "check_out_date": "2026-01-13"},
		"company": map[string]interface{}{"base_rate": "1,000", "tax_percent": 12},
		"host":    map[string]interface{}{"tax_percent": 5},
	})
	if resp.Code != http.StatusOK || !env.Success {
		t.Fatalf("quote = %d %s", resp.Code, resp.Body.String())
	}

	var quote struct {
		ChargeableDays *int `json:"chargeable_days"`
		Company        struct {
			TaxAmount   *float64 `json:"tax_amount"`
			TotalTariff *float64 `json:"total_tariff"`
		} `json:"company"`
		Host struct {
			TotalTariff *float64 `json:"total_tariff"`
		} `json:"host"`
	}
	if err := json.Unmarshal(env.Data, &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.ChargeableDays == nil || *quote.ChargeableDays != 3 {
		t.Errorf("chargeable_days = %v", quote.ChargeableDays)
	}
	if quote.Company.TotalTariff == nil || *quote.Company.TotalTariff != 1120 {
		t.Errorf("company total_tariff = %v", quote.Company.TotalTariff)
	}
	if quote.Host.TotalTariff != nil {
		t.Errorf("host total_tariff should be null without a base rate")
	}
}

func TestAvailabilityRouteValidatesLocally(t *testing.T) {
	router := buildTestRouter()
	token := signTestToken(t, middleware.PermissionReservations)

	resp, env := serve(t, router, http.MethodPost, "/api/v1/reservations/availability", token, map[string]interface{}{
		"check_in_date":  "2026-01-13",
		"check_out_date": "2026-01-10",
		"room_types":     []string{" "},
	})
	if resp.Code != http.StatusUnprocessableEntity || env.Success {
		t.Fatalf("availability = %d %s", resp.Code, resp.Body.String())
	}

	var errs []struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(env.Errors, &errs); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"property_id", "check_out_date", "room_types"} {
		if !fields[f] {
			t.Errorf("missing error for %s in %s", f, env.Errors)
		}
	}
}

func TestInvoiceTotalsRoute(t *testing.T) {
	router := buildTestRouter()
	token := signTestToken(t, middleware.PermissionInvoices)

	resp, env := serve(t, router, http.MethodPost, "/api/v1/invoices/totals", token, map[string]interface{}{
		"display_taxes": "IGST",
		"items": []map[string]interface{}{
			{"description": "Room", "tariff": "₹2,000", "tax": 240, "total": "2240"},
			{"description": "Laundry", "tariff": 500, "tax": "abc", "total": 500},
		},
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("totals = %d %s", resp.Code, resp.Body.String())
	}
	var totals map[string]string
	if err := json.Unmarshal(env.Data, &totals); err != nil {
		t.Fatalf("decode totals: %v", err)
	}
	want := map[string]string{
		"total_without_gst": "2500.00",
		"sgst":              "0.00",
		"cgst":              "0.00",
		"igst":              "240.00",
		"total_with_gst":    "2740.00",
	}
	for k, v := range want {
		if totals[k] != v {
			t.Errorf("%s = %q, want %q", k, totals[k], v)
		}
	}

	resp, _ = serve(t, router, http.MethodPost, "/api/v1/invoices/totals", token, map[string]interface{}{
		"display_taxes": "VAT",
	})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown mode = %d, want 422", resp.Code)
	}
}

func TestBlankSearchReturnsEmptyList(t *testing.T) {
	router := buildTestRouter()
	token := signTestToken(t)

	for _, path := range []string{"/api/v1/hosts/search?q=", "/api/v1/pincodes/search?q=%20"} {
		resp, env := serve(t, router, http.MethodGet, path, token, nil)
		if resp.Code != http.StatusOK || string(env.Data) != "[]" {
			t.Errorf("%s = %d data %s", path, resp.Code, env.Data)
		}
	}
}
