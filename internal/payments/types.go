package payments

import (
	"github.com/shopspring/decimal"
)

// Unified payment statuses shared by every provider. External status
// vocabularies are mapped onto these four values; anything a provider
// cannot map lands on StatusFailed.
const (
	StatusPending = "PENDING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusExpired = "EXPIRED"
)

// Transaction states for the caller-held transaction record. The router
// never drives this machine itself; it returns the status/error fields
// the caller uses to transition. DECLINED and CANCELLED are caller-side
// terminal states that never reach a provider.
const (
	TxnPending    = "PENDING"
	TxnProcessing = "PROCESSING"
	TxnCompleted  = "COMPLETED"
	TxnFailed     = "FAILED"
	TxnExpired    = "EXPIRED"
	TxnDeclined   = "DECLINED"
	TxnCancelled  = "CANCELLED"
)

// PaymentRequest is the unified request structure for all providers.
// It is immutable once built; pass it by value.
type PaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Sender     string          `json:"sender"`    // MSISDN, E.164 format
	Recipient  string          `json:"recipient"` // MSISDN, E.164 format
	Note       string          `json:"note,omitempty"`
	ExternalID string          `json:"external_id,omitempty"` // caller's transaction reference
}

// NewPaymentRequest builds a standardized PaymentRequest. An empty
// currency defaults to ZMW. Pure constructor, no I/O.
func NewPaymentRequest(sender, recipient string, amount decimal.Decimal, currency, note, externalID string) PaymentRequest {
	if currency == "" {
		currency = "ZMW"
	}
	return PaymentRequest{
		Amount:     amount,
		Currency:   currency,
		Sender:     sender,
		Recipient:  recipient,
		Note:       note,
		ExternalID: externalID,
	}
}

// PaymentResult is returned by InitPayment/SendMoney. ProviderUsed is
// filled in by the router, not the provider.
type PaymentResult struct {
	ExternalID   string `json:"external_id"`
	Provider     string `json:"provider"`
	Message      string `json:"message"`
	ProviderUsed string `json:"provider_used,omitempty"`
}

// PaymentStatusResponse is the unified status response. Constructed
// fresh per status query and never mutated after.
type PaymentStatusResponse struct {
	ExternalID    string         `json:"external_id"`
	ProviderTxnID string         `json:"provider_txn_id,omitempty"`
	Status        string         `json:"status"`
	FailureReason string         `json:"failure_reason,omitempty"`
	RawResponse   map[string]any `json:"raw_response,omitempty"`
}

// BalanceInfo reports a provider account balance. Error is set instead
// of being returned as a Go error so balance checks stay total.
type BalanceInfo struct {
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
	Provider string          `json:"provider,omitempty"`
	Note     string          `json:"note,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ProviderInfo is the static descriptor of a registered provider.
type ProviderInfo struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

// ValidationResult reports whether a phone number is routable and, if
// so, which provider owns it. This is the only router operation that
// exposes why routing failed, for client-side messaging.
type ValidationResult struct {
	Valid    bool   `json:"valid"`
	Provider string `json:"provider,omitempty"`
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
