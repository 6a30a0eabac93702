package payments

import (
	"context"
	"errors"
	"strings"

	"flash/internal/mtnmomo"
)

// mtnStatusMap translates the MTN MoMo status vocabulary onto the
// unified statuses. Anything not listed maps to FAILED (fail-closed);
// an unknown external status must never pass as PENDING or SUCCESS.
var mtnStatusMap = map[string]string{
	"PENDING":    StatusPending,
	"SUCCESSFUL": StatusSuccess,
	"FAILED":     StatusFailed,
	"TIMEOUT":    StatusExpired,
}

// MTNZambiaProvider processes MTN MoMo transactions in Zambia through
// the Collections (request-to-pay) and Disbursement (transfer) APIs.
// It owns the +260 numbers with network codes 96 and 76.
type MTNZambiaProvider struct {
	collections  *mtnmomo.CollectionsClient
	disbursement *mtnmomo.DisbursementClient
}

// NewMTNZambiaProvider wires the provider to its MoMo clients.
func NewMTNZambiaProvider(collections *mtnmomo.CollectionsClient, disbursement *mtnmomo.DisbursementClient) *MTNZambiaProvider {
	return &MTNZambiaProvider{
		collections:  collections,
		disbursement: disbursement,
	}
}

func (p *MTNZambiaProvider) Info() ProviderInfo {
	return ProviderInfo{
		Name:     "mtn-zambia",
		Country:  "ZM",
		Currency: "ZMW",
	}
}

// Supports claims +260 numbers whose two-digit network code is 96 or
// 76. Numbers too short to carry a network code are rejected.
func (p *MTNZambiaProvider) Supports(msisdn string) bool {
	if !strings.HasPrefix(msisdn, "+260") {
		return false
	}
	if len(msisdn) < 8 {
		return false
	}
	prefix := msisdn[4:6]
	return prefix == "96" || prefix == "76"
}

// ValidatePhoneNumber requires the full 13-character E.164 form,
// e.g. +260961234567.
func (p *MTNZambiaProvider) ValidatePhoneNumber(msisdn string) bool {
	return strings.HasPrefix(msisdn, "+260") &&
		len(msisdn) == 13 &&
		p.Supports(msisdn)
}

// mapError converts MoMo client failures into the provider error
// taxonomy. Transport and token failures are connection-class; every
// other API complaint is a generic provider failure.
func (p *MTNZambiaProvider) mapError(op string, err error) *ProviderError {
	var me *mtnmomo.Error
	if errors.As(err, &me) {
		if me.Transport() || me.Op == "token" {
			return NewConnectionError(p.Info().Name, err)
		}
		return NewProviderError(p.Info().Name, "MTN API error during %s: %v", op, err)
	}
	return NewProviderError(p.Info().Name, "unexpected error during %s: %v", op, err)
}

// InitPayment creates a request-to-pay that the sender approves in
// their MoMo app or USSD menu.
func (p *MTNZambiaProvider) InitPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if !p.Supports(req.Sender) {
		return PaymentResult{}, NewProviderError(p.Info().Name, "does not support sender: %s", req.Sender)
	}

	note := req.Note
	if note == "" {
		note = "Flash payment"
	}

	referenceID, err := p.collections.RequestToPay(ctx, mtnmomo.CollectionRequest{
		Amount:           req.Amount,
		Currency:         req.Currency,
		ExternalID:       req.ExternalID,
		PayerPartyIDType: mtnmomo.PartyIDMSISDN,
		PayerPartyID:     req.Sender,
		PayerMessage:     note,
		PayeeNote:        "Incoming transfer via Flash",
	})
	if err != nil {
		return PaymentResult{}, p.mapError("payment initiation", err)
	}

	return PaymentResult{
		ExternalID: referenceID,
		Provider:   p.Info().Name,
		Message:    "Payment request sent to MTN MoMo. User will receive USSD prompt to approve.",
	}, nil
}

// GetPaymentStatus checks a request-to-pay. Provider-side failures
// degrade to a FAILED response here rather than surfacing an error;
// status checks are total from the caller's perspective.
func (p *MTNZambiaProvider) GetPaymentStatus(ctx context.Context, externalID string) (PaymentStatusResponse, error) {
	status, err := p.collections.PaymentStatus(ctx, externalID)
	if err != nil {
		return PaymentStatusResponse{
			ExternalID:    externalID,
			Status:        StatusFailed,
			FailureReason: "MTN API error: " + err.Error(),
		}, nil
	}

	unified, ok := mtnStatusMap[status.Status]
	if !ok {
		unified = StatusFailed
	}

	resp := PaymentStatusResponse{
		ExternalID:    externalID,
		ProviderTxnID: status.FinancialTransactionID,
		Status:        unified,
		RawResponse:   status.Raw,
	}
	if unified == StatusFailed {
		resp.FailureReason = status.Reason
		if resp.FailureReason == "" {
			resp.FailureReason = "MTN reported status " + status.Status
		}
	}
	return resp, nil
}

// GetBalance reads the disbursement account balance.
func (p *MTNZambiaProvider) GetBalance(ctx context.Context) (BalanceInfo, error) {
	balance, err := p.disbursement.AccountBalance(ctx)
	if err != nil {
		return BalanceInfo{}, p.mapError("balance check", err)
	}
	return BalanceInfo{
		Balance:  balance.AvailableBalance,
		Currency: balance.Currency,
		Provider: p.Info().Name,
	}, nil
}

// SendMoney pushes funds out to an MTN recipient via the Disbursement
// API, the outbound mirror of InitPayment.
func (p *MTNZambiaProvider) SendMoney(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	if !p.Supports(req.Recipient) {
		return PaymentResult{}, NewUnsupportedRecipientError(p.Info().Name, req.Recipient)
	}

	note := req.Note
	if note == "" {
		note = "Flash transfer"
	}

	referenceID, err := p.disbursement.Transfer(ctx, mtnmomo.DisbursementRequest{
		Amount:           req.Amount,
		Currency:         req.Currency,
		ExternalID:       req.ExternalID,
		PayeePartyIDType: mtnmomo.PartyIDMSISDN,
		PayeePartyID:     req.Recipient,
		PayerMessage:     note,
		PayeeNote:        "Money from Flash",
	})
	if err != nil {
		return PaymentResult{}, p.mapError("disbursement", err)
	}

	return PaymentResult{
		ExternalID: referenceID,
		Provider:   p.Info().Name,
		Message:    "Disbursement initiated to MTN MoMo",
	}, nil
}
