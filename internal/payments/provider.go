package payments

import "context"

// Provider is the contract every payment rail must satisfy so the
// router can treat all rails uniformly.
//
// Supports and ValidatePhoneNumber are pure predicates: no I/O, safe
// for unlimited concurrent calls. Supports answers "does this rail own
// the number's prefix" and drives routing; ValidatePhoneNumber is the
// stricter format check (full length and pattern) each rail defines
// for itself. There is no lenient shared fallback; a rail that cannot
// validate a number it claims to support is a bug in that rail.
type Provider interface {
	// Info returns the static descriptor identifying this rail.
	Info() ProviderInfo

	// Supports reports whether this rail owns the phone number's
	// prefix. Must be fast, deterministic and side-effect-free.
	Supports(msisdn string) bool

	// ValidatePhoneNumber checks full number format for this rail,
	// stricter than Supports.
	ValidatePhoneNumber(msisdn string) bool

	// InitPayment begins a request-to-pay against the rail. It must
	// fail with a *ProviderError when Supports(request.Sender) is
	// false, and business failures surface as *ProviderError values,
	// never panics.
	InitPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error)

	// GetPaymentStatus queries the current state of a payment. A
	// returned error is converted by the router into a FAILED
	// PaymentStatusResponse; implementations may also degrade to a
	// FAILED response themselves and return nil.
	GetPaymentStatus(ctx context.Context, externalID string) (PaymentStatusResponse, error)
}

// BalanceReader is an optional capability for rails that expose an
// account balance. Rails without it get the router's zero-balance
// fallback in their own currency.
type BalanceReader interface {
	GetBalance(ctx context.Context) (BalanceInfo, error)
}

// Disburser is an optional capability for rails that can push funds
// out to a recipient, the mirror image of InitPayment.
type Disburser interface {
	SendMoney(ctx context.Context, req PaymentRequest) (PaymentResult, error)
}
