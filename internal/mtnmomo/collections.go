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

// PartyIDType identifies how a transaction party is addressed.
type PartyIDType string

const (
	PartyIDMSISDN PartyIDType = "MSISDN" // mobile number per ITU-T E.164
	PartyIDEmail  PartyIDType = "EMAIL"
	PartyIDCode   PartyIDType = "PARTY_CODE"
)

// CollectionRequest is a request-to-pay: the payer gets prompted on
// their handset to approve the debit.
type CollectionRequest struct {
	Amount           decimal.Decimal
	Currency         string
	ExternalID       string
	PayerPartyIDType PartyIDType
	PayerPartyID     string
	PayerMessage     string
	PayeeNote        string
}

// CollectionsClient talks to the MoMo Collections product.
type CollectionsClient struct {
	*client
}

func NewCollectionsClient(cfg Config) *CollectionsClient {
	return &CollectionsClient{client: newClient(cfg, "collection")}
}

// RequestToPay submits a request-to-pay and returns the generated
// reference id used for all later status queries. The API answers 202
// and processes asynchronously.
func (c *CollectionsClient) RequestToPay(ctx context.Context, req CollectionRequest) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	referenceID := uuid.NewString()
	payload := map[string]any{
		"amount":     req.Amount.String(),
		"currency":   req.Currency,
		"externalId": req.ExternalID,
		"payer": map[string]string{
			"partyIdType": string(req.PayerPartyIDType),
			"partyId":     req.PayerPartyID,
		},
		"payerMessage": req.PayerMessage,
		"payeeNote":    req.PayeeNote,
	}
	body, _ := json.Marshal(payload)

	url := fmt.Sprintf("%s/collection/v1_0/requesttopay", c.cfg.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", &Error{Op: "requesttopay", Err: err}
	}
	c.bearerHeaders(httpReq, token)
	httpReq.Header.Set("X-Reference-Id", referenceID)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &Error{Op: "requesttopay", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusAccepted {
		return "", &Error{Op: "requesttopay", StatusCode: resp.StatusCode, Expected: http.StatusAccepted, Body: string(raw)}
	}

	return referenceID, nil
}

// PaymentStatus fetches the current state of a request-to-pay.
func (c *CollectionsClient) PaymentStatus(ctx context.Context, referenceID string) (*PaymentStatus, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/collection/v1_0/requesttopay/%s", c.cfg.BaseURL, referenceID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: "requesttopay-status", Err: err}
	}
	c.bearerHeaders(httpReq, token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{Op: "requesttopay-status", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Op: "requesttopay-status", StatusCode: resp.StatusCode, Expected: http.StatusOK, Body: string(raw)}
	}

	return parsePaymentStatus(raw, "requesttopay-status")
}
