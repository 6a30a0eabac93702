package payments

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// AirtelZambiaProvider covers Airtel Money numbers in Zambia (+260
// with network codes 97, 77 and 57). The live Airtel Money API is not
// integrated yet; every operation returns a deterministic, clearly
// labeled mock result so the registry stays a uniform, always-callable
// set while the integration lands.
//
// TODO: swap the mock bodies for the Airtel Money API client once
// merchant credentials are issued.
type AirtelZambiaProvider struct{}

func NewAirtelZambiaProvider() *AirtelZambiaProvider {
	return &AirtelZambiaProvider{}
}

func (p *AirtelZambiaProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:     "airtel-zambia",
		Country:  "ZM",
		Currency: "ZMW",
	}
}

// Supports claims +260 numbers whose two-digit network code is 97, 77
// or 57.
func (p *AirtelZambiaProvider) Supports(msisdn string) bool {
	if !strings.HasPrefix(msisdn, "+260") {
		return false
	}
	if len(msisdn) < 8 {
		return false
	}
	switch msisdn[4:6] {
	case "97", "77", "57":
		return true
	}
	return false
}

// ValidatePhoneNumber requires the full 13-character E.164 form,
// e.g. +260971234567.
func (p *AirtelZambiaProvider) ValidatePhoneNumber(msisdn string) bool {
	return strings.HasPrefix(msisdn, "+260") &&
		len(msisdn) == 13 &&
		p.Supports(msisdn)
}

func (p *AirtelZambiaProvider) InitPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if !p.Supports(req.Sender) {
		return PaymentResult{}, NewProviderError(p.Info().Name, "does not support sender: %s", req.Sender)
	}

	return PaymentResult{
		ExternalID: "airtel-mock-" + req.ExternalID,
		Provider:   p.Info().Name,
		Message:    "Airtel Money payment request initiated (mock implementation)",
	}, nil
}

func (p *AirtelZambiaProvider) GetPaymentStatus(ctx context.Context, externalID string) (PaymentStatusResponse, error) {
	return PaymentStatusResponse{
		ExternalID:    externalID,
		ProviderTxnID: "airtel-txn-" + externalID,
		Status:        StatusSuccess,
		RawResponse: map[string]any{
			"status":  StatusSuccess,
			"message": "Mock Airtel transaction",
		},
	}, nil
}

func (p *AirtelZambiaProvider) GetBalance(ctx context.Context) (BalanceInfo, error) {
	return BalanceInfo{
		Balance:  decimal.NewFromInt(1000),
		Currency: p.Info().Currency,
		Provider: p.Info().Name,
		Note:     "Mock balance - Airtel API integration pending",
	}, nil
}

func (p *AirtelZambiaProvider) SendMoney(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if !p.Supports(req.Recipient) {
		return PaymentResult{}, NewUnsupportedRecipientError(p.Info().Name, req.Recipient)
	}

	return PaymentResult{
		ExternalID: "airtel-disbursement-" + req.ExternalID,
		Provider:   p.Info().Name,
		Message:    "Airtel Money disbursement initiated (mock implementation)",
	}, nil
}
