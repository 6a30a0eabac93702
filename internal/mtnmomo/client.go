// Package mtnmomo is a minimal client for the MTN Mobile Money
// Collections and Disbursement APIs (momodeveloper.mtn.com). Each
// product authenticates with a basic-auth token endpoint and carries
// bearer + subscription-key headers on every call.
package mtnmomo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://sandbox.momodeveloper.mtn.com"

// TokenCache optionally caches access tokens between calls, keyed by
// product ("collection" or "disbursement"). Without a cache each API
// call fetches a fresh token.
type TokenCache interface {
	GetToken(ctx context.Context, product string) (string, error)
	SetToken(ctx context.Context, product, token string, ttl time.Duration) error
}

// Config holds credentials and endpoints for one MoMo product.
type Config struct {
	BaseURL         string // defaults to the sandbox host
	SubscriptionKey string // Ocp-Apim-Subscription-Key header
	UserID          string // API user, basic-auth username on the token endpoint
	APIKey          string // API key, basic-auth password
	TargetEnv       string // X-Target-Environment, defaults to "sandbox"
	HTTPClient      *http.Client
	TokenCache      TokenCache
}

// Error is returned for every failed MoMo call. StatusCode is zero
// when the request never reached the API (transport failure).
type Error struct {
	Op         string // API operation, e.g. "token", "requesttopay"
	StatusCode int
	Expected   int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mtnmomo %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("mtnmomo %s: unexpected response status: expected %d, got %d (body: %s)",
		e.Op, e.Expected, e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error { return e.Err }

// Transport reports whether the failure happened before the API could
// answer. Token failures and transport failures are both treated as
// connectivity problems by callers.
func (e *Error) Transport() bool { return e.Err != nil }

type client struct {
	cfg     Config
	product string
	http    *http.Client
}

func newClient(cfg Config, product string) *client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TargetEnv == "" {
		cfg.TargetEnv = "sandbox"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &client{cfg: cfg, product: product, http: httpClient}
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns a bearer token for this product, from the cache
// when one is configured and still live.
func (c *client) accessToken(ctx context.Context) (string, error) {
	if c.cfg.TokenCache != nil {
		if token, err := c.cfg.TokenCache.GetToken(ctx, "mtnmomo:"+c.product); err == nil && token != "" {
			return token, nil
		}
	}

	url := fmt.Sprintf("%s/%s/token/", c.cfg.BaseURL, c.product)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", &Error{Op: "token", Err: err}
	}
	req.SetBasicAuth(c.cfg.UserID, c.cfg.APIKey)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{Op: "token", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Op: "token", StatusCode: resp.StatusCode, Expected: http.StatusOK, Body: string(raw)}
	}

	var token accessTokenResponse
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", &Error{Op: "token", Err: fmt.Errorf("decode: %w", err)}
	}

	if c.cfg.TokenCache != nil && token.ExpiresIn > 60 {
		// Keep a safety margin so a cached token never expires mid-call.
		ttl := time.Duration(token.ExpiresIn-60) * time.Second
		_ = c.cfg.TokenCache.SetToken(ctx, "mtnmomo:"+c.product, token.AccessToken, ttl)
	}

	return token.AccessToken, nil
}

// bearerHeaders sets the common headers carried by every product call.
func (c *client) bearerHeaders(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Target-Environment", c.cfg.TargetEnv)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.SubscriptionKey)
}

// PaymentStatus is the decoded state of a request-to-pay or transfer.
type PaymentStatus struct {
	Status                 string
	FinancialTransactionID string
	Reason                 string
	Raw                    map[string]any
}

// parsePaymentStatus pulls the fields we care about out of a status
// payload while keeping the raw body for diagnostics. MTN reports
// "reason" either as a plain string or as {code, message}.
func parsePaymentStatus(body []byte, op string) (*PaymentStatus, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}

	status := &PaymentStatus{Raw: raw}
	if s, ok := raw["status"].(string); ok {
		status.Status = s
	}
	if s, ok := raw["financialTransactionId"].(string); ok {
		status.FinancialTransactionID = s
	}
	switch reason := raw["reason"].(type) {
	case string:
		status.Reason = reason
	case map[string]any:
		if msg, ok := reason["message"].(string); ok {
			status.Reason = msg
		} else if code, ok := reason["code"].(string); ok {
			status.Reason = code
		}
	}
	return status, nil
}
