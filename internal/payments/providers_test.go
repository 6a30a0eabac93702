package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func zambiaRouter() *Router {
	return NewRouter(nil,
		NewMTNZambiaProvider(nil, nil),
		NewAirtelZambiaProvider(),
	)
}

func TestZambiaRoutingScenario(t *testing.T) {
	rt := zambiaRouter()

	tests := []struct {
		msisdn string
		want   string // provider name, "" for unroutable
	}{
		{"+260961234567", "mtn-zambia"},
		{"+260761234567", "mtn-zambia"},
		{"+260971234567", "airtel-zambia"},
		{"+260771234567", "airtel-zambia"},
		{"+260571234567", "airtel-zambia"},
		{"+260991234567", ""},
		{"+260", ""},          // too short to carry a network code
		{"+26097", ""},        // still below the minimum inspectable length
		{"260971234567", ""},  // missing international prefix
		{"+254971234567", ""}, // wrong country
	}

	for _, tc := range tests {
		got := rt.SelectProvider(tc.msisdn)
		switch {
		case tc.want == "" && got != nil:
			t.Errorf("%s: expected no provider, got %s", tc.msisdn, got.Info().Name)
		case tc.want != "" && got == nil:
			t.Errorf("%s: expected %s, got none", tc.msisdn, tc.want)
		case tc.want != "" && got.Info().Name != tc.want:
			t.Errorf("%s: expected %s, got %s", tc.msisdn, tc.want, got.Info().Name)
		}
	}
}

func TestUnroutableSenderErrorNamesBothRails(t *testing.T) {
	rt := zambiaRouter()

	req := NewPaymentRequest("+260991234567", "+260971234567", decimal.NewFromInt(20), "", "", "txn-x")
	_, err := rt.SendPayment(context.Background(), req)
	if err == nil {
		t.Fatal("expected routing failure")
	}
	for _, name := range []string{"mtn-zambia", "airtel-zambia"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not name %s", err.Error(), name)
		}
	}
}

func TestMTNValidatePhoneNumber(t *testing.T) {
	p := NewMTNZambiaProvider(nil, nil)

	tests := []struct {
		msisdn string
		want   bool
	}{
		{"+260961234567", true},
		{"+260761234567", true},
		{"+260971234567", false}, // airtel's code
		{"+26096123456", false},  // 12 chars
		{"+2609612345678", false},
		{"0961234567", false},
	}
	for _, tc := range tests {
		if got := p.ValidatePhoneNumber(tc.msisdn); got != tc.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", tc.msisdn, got, tc.want)
		}
	}
}

func TestAirtelValidatePhoneNumber(t *testing.T) {
	p := NewAirtelZambiaProvider()

	tests := []struct {
		msisdn string
		want   bool
	}{
		{"+260971234567", true},
		{"+260771234567", true},
		{"+260571234567", true},
		{"+260961234567", false},
		{"+26097123456", false},
	}
	for _, tc := range tests {
		if got := p.ValidatePhoneNumber(tc.msisdn); got != tc.want {
			t.Errorf("ValidatePhoneNumber(%q) = %v, want %v", tc.msisdn, got, tc.want)
		}
	}
}

func TestAirtelMockResultsAreDeterministic(t *testing.T) {
	p := NewAirtelZambiaProvider()
	ctx := context.Background()
	req := NewPaymentRequest("+260971234567", "+260771234567", decimal.NewFromInt(5), "", "", "txn-7")

	first, err := p.InitPayment(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := p.InitPayment(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("placeholder rail not deterministic: %+v vs %+v", first, second)
	}
	if first.ExternalID != "airtel-mock-txn-7" {
		t.Fatalf("unexpected external id %q", first.ExternalID)
	}
	if !strings.Contains(first.Message, "mock") {
		t.Fatalf("placeholder result must label itself as mock: %q", first.Message)
	}
}

func TestAirtelRejectsForeignSender(t *testing.T) {
	p := NewAirtelZambiaProvider()
	req := NewPaymentRequest("+260961234567", "+260771234567", decimal.NewFromInt(5), "", "", "txn-8")

	_, err := p.InitPayment(context.Background(), req)
	pe, ok := AsProviderError(err)
	if !ok {
		t.Fatalf("expected *ProviderError, got %T", err)
	}
	if !strings.Contains(pe.Message, "+260961234567") {
		t.Fatalf("error should name the sender: %q", pe.Message)
	}
}

func TestAirtelStatusAndBalanceMocks(t *testing.T) {
	p := NewAirtelZambiaProvider()
	ctx := context.Background()

	status, err := p.GetPaymentStatus(ctx, "txn-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != StatusSuccess || status.ProviderTxnID != "airtel-txn-txn-9" {
		t.Fatalf("unexpected mock status: %+v", status)
	}

	balance, err := p.GetBalance(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance.Note == "" {
		t.Fatal("mock balance must label itself")
	}
	if balance.Currency != "ZMW" {
		t.Fatalf("unexpected currency %q", balance.Currency)
	}
}
