package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"flash/internal/payments"
	"flash/internal/ratelimiter"

	"go.uber.org/zap"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	router := payments.NewRouter(zap.NewNop().Sugar(),
		payments.NewAirtelZambiaProvider(),
	)

	return &application{
		config: config{
			env: "test",
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "secret"},
			},
			rateLimiter: ratelimiter.Config{Enabled: false},
		},
		router:      router,
		logger:      zap.NewNop().Sugar(),
		rateLimiter: ratelimiter.NewFixedWindowLimiter(100, time.Minute),
	}
}

func postJSON(t *testing.T, mux http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestSendPaymentHandlerAccepted(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	rr := postJSON(t, mux, "/v1/payments/send", map[string]any{
		"sender":      "+260971234567",
		"recipient":   "+260771234567",
		"amount":      "45.00",
		"external_id": "order-9",
	})

	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data payments.PaymentResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ProviderUsed != "airtel-zambia" {
		t.Fatalf("unexpected provider_used %q", envelope.Data.ProviderUsed)
	}
}

func TestSendPaymentHandlerUnroutableSender(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	rr := postJSON(t, mux, "/v1/payments/send", map[string]any{
		"sender":    "+260991234567",
		"recipient": "+260771234567",
		"amount":    "45.00",
	})

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "airtel-zambia") {
		t.Fatalf("routing failure should name providers: %s", rr.Body.String())
	}
}

func TestSendPaymentHandlerRejectsBadPayload(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing sender", map[string]any{"recipient": "+260771234567", "amount": "5"}},
		{"malformed phone", map[string]any{"sender": "097123", "recipient": "+260771234567", "amount": "5"}},
		{"non-numeric amount", map[string]any{"sender": "+260971234567", "recipient": "+260771234567", "amount": "lots"}},
		{"negative amount", map[string]any{"sender": "+260971234567", "recipient": "+260771234567", "amount": "-5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := postJSON(t, mux, "/v1/payments/send", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestPaymentStatusHandlerRequiresParams(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/status?external_id=txn-1", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPaymentStatusHandlerReturnsStatus(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/status?external_id=txn-1&phone=%2B260971234567", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data payments.PaymentStatusResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Status != payments.StatusSuccess {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestListProvidersHandler(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/providers", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var envelope struct {
		Data []payments.ProviderInfo `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Name != "airtel-zambia" {
		t.Fatalf("unexpected providers %+v", envelope.Data)
	}
}

func TestProviderBalanceHandlerUnknownProvider(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/providers/mtn-ghana/balance", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestValidatePhoneHandlerUnroutableIsStillOK(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	rr := postJSON(t, mux, "/v1/payments/validate-phone", map[string]any{
		"phone_number": "+260991234567",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var envelope struct {
		Data payments.ValidationResult `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Valid || envelope.Data.Reason == "" {
		t.Fatalf("unexpected validation result %+v", envelope.Data)
	}
}

func TestHealthRequiresBasicAuth(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.SetBasicAuth("ops", "secret")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d", rr.Code)
	}
}
