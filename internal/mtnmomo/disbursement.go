package mtnmomo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DisbursementRequest pushes funds out to a payee.
type DisbursementRequest struct {
	Amount           decimal.Decimal
	Currency         string
	ExternalID       string
	PayeePartyIDType PartyIDType
	PayeePartyID     string
	PayerMessage     string
	PayeeNote        string
}

// AccountBalance is the disbursement account's available balance.
type AccountBalance struct {
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	Currency         string          `json:"currency"`
}

// DisbursementClient talks to the MoMo Disbursement product.
type DisbursementClient struct {
	*client
}

func NewDisbursementClient(cfg Config) *DisbursementClient {
	return &DisbursementClient{client: newClient(cfg, "disbursement")}
}

// Transfer sends money to the payee and returns the generated
// reference id. The API answers 202 and processes asynchronously.
func (c *DisbursementClient) Transfer(ctx context.Context, req DisbursementRequest) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	referenceID := uuid.NewString()
	payload := map[string]any{
		"amount":     req.Amount.String(),
		"currency":   req.Currency,
		"externalId": req.ExternalID,
		"payee": map[string]string{
			"partyIdType": string(req.PayeePartyIDType),
			"partyId":     req.PayeePartyID,
		},
		"payerMessage": req.PayerMessage,
		"payeeNote":    req.PayeeNote,
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/disbursement/v1_0/transfer", c.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Op: "transfer", Err: err}
	}
	c.bearerHeaders(httpReq, token)
	httpReq.Header.Set("X-Reference-Id", referenceID)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &Error{Op: "transfer", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		return "", &Error{Op: "transfer", StatusCode: resp.StatusCode, Expected: http.StatusAccepted, Body: string(raw)}
	}

	return referenceID, nil
}

// TransferStatus fetches the current state of a transfer.
func (c *DisbursementClient) TransferStatus(ctx context.Context, referenceID string) (*PaymentStatus, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/disbursement/v1_0/transfer/%s", c.cfg.BaseURL, referenceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: "transfer-status", Err: err}
	}
	c.bearerHeaders(httpReq, token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "transfer-status", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "transfer-status", StatusCode: resp.StatusCode, Expected: http.StatusOK, Body: string(raw)}
	}

	return parsePaymentStatus(raw, "transfer-status")
}

// AccountBalance fetches the disbursement account balance.
func (c *DisbursementClient) AccountBalance(ctx context.Context) (*AccountBalance, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/disbursement/v1_0/account/balance", c.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: "account-balance", Err: err}
	}
	c.bearerHeaders(httpReq, token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "account-balance", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "account-balance", StatusCode: resp.StatusCode, Expected: http.StatusOK, Body: string(raw)}
	}

	var balance AccountBalance
	if err := json.Unmarshal(raw, &balance); err != nil {
		return nil, &Error{Op: "account-balance", Err: fmt.Errorf("decode: %w", err)}
	}
	return &balance, nil
}
