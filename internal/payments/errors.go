package payments

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates provider failures. The router treats kinds
// opaquely except for passing them through unchanged; callers branch on
// them for HTTP status mapping and UX.
type ErrorKind int

const (
	// KindProvider is a generic provider failure, including business
	// rejections and anything unexpected the router contained.
	KindProvider ErrorKind = iota
	// KindUnsupportedRecipient means the recipient is outside the
	// rail's coverage.
	KindUnsupportedRecipient
	// KindConnection means the external rail was unreachable, timed
	// out, or refused an access token.
	KindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnsupportedRecipient:
		return "unsupported_recipient"
	case KindConnection:
		return "connection"
	default:
		return "provider"
	}
}

// ProviderError is the single error type crossing the orchestration
// boundary. Every failing router or provider call yields one of these;
// raw internal faults never leak past the router.
type ProviderError struct {
	Kind     ErrorKind
	Provider string // empty for routing failures
	Message  string
	Err      error // wrapped cause, may be nil
}

func (e *ProviderError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a generic provider failure.
func NewProviderError(provider, format string, args ...any) *ProviderError {
	return &ProviderError{
		Kind:     KindProvider,
		Provider: provider,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewUnsupportedRecipientError reports a recipient the rail cannot pay.
func NewUnsupportedRecipientError(provider, recipient string) *ProviderError {
	return &ProviderError{
		Kind:     KindUnsupportedRecipient,
		Provider: provider,
		Message:  fmt.Sprintf("recipient not supported: %s", recipient),
	}
}

// NewConnectionError reports an unreachable or unauthenticated rail.
func NewConnectionError(provider string, err error) *ProviderError {
	return &ProviderError{
		Kind:     KindConnection,
		Provider: provider,
		Message:  fmt.Sprintf("provider unreachable: %v", err),
		Err:      err,
	}
}

// AsProviderError unwraps err into a *ProviderError if it is one.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
