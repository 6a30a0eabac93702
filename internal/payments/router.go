package payments

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Router is the single entry point for payment orchestration. It holds
// an ordered, immutable registry of providers and routes each request
// to the first provider whose Supports() claims the phone number.
//
// The registry is fixed at construction; there is no runtime
// registration. Registration order is the priority order: if two
// providers were ever to claim the same prefix, only the earlier one
// is reachable. No conflict detection happens here; the registry test
// asserts prefix disjointness instead.
//
// The router holds no mutable state, so all operations are safe for
// concurrent use. Each orchestration call performs at most one
// blocking provider call, attempted exactly once with no retries.
type Router struct {
	providers []Provider
	logger    *zap.SugaredLogger
}

// NewRouter builds a router over the given providers, in priority
// order. A nil logger is replaced with a no-op logger.
func NewRouter(logger *zap.SugaredLogger, providers ...Provider) *Router {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	registry := make([]Provider, len(providers))
	copy(registry, providers)
	return &Router{
		providers: registry,
		logger:    logger,
	}
}

// SelectProvider returns the first registered provider that supports
// the phone number, or nil when none does.
func (rt *Router) SelectProvider(msisdn string) Provider {
	for _, p := range rt.providers {
		if p.Supports(msisdn) {
			rt.logger.Infow("selected provider", "provider", p.Info().Name, "msisdn", msisdn)
			return p
		}
	}
	rt.logger.Warnw("no provider found", "msisdn", msisdn)
	return nil
}

// SelectProviderByName returns the provider with the exact name, or
// nil when none is registered under it.
func (rt *Router) SelectProviderByName(name string) Provider {
	for _, p := range rt.providers {
		if p.Info().Name == name {
			return p
		}
	}
	return nil
}

// ListProviders returns a snapshot of the registry in priority order.
func (rt *Router) ListProviders() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(rt.providers))
	for _, p := range rt.providers {
		infos = append(infos, p.Info())
	}
	return infos
}

func (rt *Router) providerNames() []string {
	names := make([]string, 0, len(rt.providers))
	for _, p := range rt.providers {
		names = append(names, p.Info().Name)
	}
	return names
}

// SendPayment routes a request-to-pay to the provider owning the
// sender's number. Provider-declared failures pass through unchanged
// as *ProviderError; anything unexpected is contained and re-emitted
// as a generic *ProviderError so raw faults never reach the caller.
func (rt *Router) SendPayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	provider := rt.SelectProvider(req.Sender)
	if provider == nil {
		return PaymentResult{}, NewProviderError("",
			"no payment provider supports sender %s (available providers: %s)",
			req.Sender, strings.Join(rt.providerNames(), ", "))
	}

	name := provider.Info().Name
	rt.logger.Infow("routing payment", "provider", name, "sender", req.Sender, "recipient", req.Recipient)

	result, err := provider.InitPayment(ctx, req)
	if err != nil {
		if pe, ok := AsProviderError(err); ok {
			return PaymentResult{}, pe
		}
		rt.logger.Errorw("unexpected provider failure", "provider", name, "err", err.Error())
		return PaymentResult{}, &ProviderError{
			Kind:     KindProvider,
			Provider: name,
			Message:  fmt.Sprintf("payment failed: %v", err),
			Err:      err,
		}
	}

	result.ProviderUsed = name
	return result, nil
}

// SendMoney routes a disbursement to the provider owning the
// recipient's number. The error contract matches SendPayment.
func (rt *Router) SendMoney(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	provider := rt.SelectProvider(req.Recipient)
	if provider == nil {
		return PaymentResult{}, NewProviderError("",
			"no payment provider supports recipient %s (available providers: %s)",
			req.Recipient, strings.Join(rt.providerNames(), ", "))
	}

	name := provider.Info().Name
	disburser, ok := provider.(Disburser)
	if !ok {
		return PaymentResult{}, NewProviderError(name, "provider does not support disbursements")
	}

	rt.logger.Infow("routing disbursement", "provider", name, "recipient", req.Recipient)

	result, err := disburser.SendMoney(ctx, req)
	if err != nil {
		if pe, ok := AsProviderError(err); ok {
			return PaymentResult{}, pe
		}
		rt.logger.Errorw("unexpected provider failure", "provider", name, "err", err.Error())
		return PaymentResult{}, &ProviderError{
			Kind:     KindProvider,
			Provider: name,
			Message:  fmt.Sprintf("disbursement failed: %v", err),
			Err:      err,
		}
	}

	result.ProviderUsed = name
	return result, nil
}

// CheckPaymentStatus queries payment state through the provider owning
// the phone number. The only possible error is a routing failure; once
// a provider is resolved the call is total, degrading any provider
// failure into a FAILED response with a filled failure reason.
func (rt *Router) CheckPaymentStatus(ctx context.Context, externalID, msisdn string) (PaymentStatusResponse, error) {
	provider := rt.SelectProvider(msisdn)
	if provider == nil {
		return PaymentStatusResponse{}, NewProviderError("", "no provider found for status check: %s", msisdn)
	}

	resp, err := provider.GetPaymentStatus(ctx, externalID)
	if err != nil {
		rt.logger.Errorw("status check failed",
			"external_id", externalID, "provider", provider.Info().Name, "err", err.Error())
		return PaymentStatusResponse{
			ExternalID:    externalID,
			Status:        StatusFailed,
			FailureReason: fmt.Sprintf("status check error: %v", err),
		}, nil
	}
	return resp, nil
}

// GetProviderBalance reads the balance of a named provider. Unknown
// names and provider failures both come back in the Error field; the
// call itself never fails.
func (rt *Router) GetProviderBalance(ctx context.Context, name string) BalanceInfo {
	provider := rt.SelectProviderByName(name)
	if provider == nil {
		return BalanceInfo{
			Provider: name,
			Error:    fmt.Sprintf("provider %s not found", name),
		}
	}

	info := provider.Info()
	reader, ok := provider.(BalanceReader)
	if !ok {
		// Rail exposes no balance endpoint; report a zero balance in
		// its own currency.
		return BalanceInfo{
			Currency: info.Currency,
			Provider: info.Name,
		}
	}

	balance, err := reader.GetBalance(ctx)
	if err != nil {
		rt.logger.Errorw("balance check failed", "provider", info.Name, "err", err.Error())
		return BalanceInfo{
			Currency: info.Currency,
			Provider: info.Name,
			Error:    err.Error(),
		}
	}
	if balance.Provider == "" {
		balance.Provider = info.Name
	}
	return balance
}

// ValidatePhoneNumber resolves the provider for a number and applies
// that provider's strict format validation. Unroutable numbers come
// back with Valid=false and an explicit reason instead of an error.
func (rt *Router) ValidatePhoneNumber(msisdn string) ValidationResult {
	provider := rt.SelectProvider(msisdn)
	if provider == nil {
		return ValidationResult{
			Valid:  false,
			Reason: "no provider supports this phone number",
		}
	}

	info := provider.Info()
	return ValidationResult{
		Valid:    provider.ValidatePhoneNumber(msisdn),
		Provider: info.Name,
		Country:  info.Country,
		Currency: info.Currency,
	}
}
