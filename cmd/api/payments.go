package main

import (
	"fmt"
	"net/http"

	"flash/internal/payments"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type sendPaymentPayload struct {
	Sender     string `json:"sender" validate:"required,zmphone"`
	Recipient  string `json:"recipient" validate:"required,zmphone"`
	Amount     string `json:"amount" validate:"required"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
	Note       string `json:"note" validate:"omitempty,max=160"`
	ExternalID string `json:"external_id" validate:"omitempty,max=64"`
}

func (app *application) paymentRequestFromPayload(w http.ResponseWriter, r *http.Request) (payments.PaymentRequest, bool) {
	var payload sendPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payments.PaymentRequest{}, false
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return payments.PaymentRequest{}, false
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid amount: %s", payload.Amount))
		return payments.PaymentRequest{}, false
	}
	if !amount.IsPositive() {
		app.badRequestResponse(w, r, fmt.Errorf("amount must be positive"))
		return payments.PaymentRequest{}, false
	}

	req := payments.NewPaymentRequest(
		payload.Sender,
		payload.Recipient,
		amount,
		payload.Currency,
		payload.Note,
		payload.ExternalID,
	)
	return req, true
}

// POST /v1/payments/send
// Routes a request-to-pay to the provider owning the sender's number.
func (app *application) sendPaymentHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := app.paymentRequestFromPayload(w, r)
	if !ok {
		return
	}

	result, err := app.router.SendPayment(r.Context(), req)
	if err != nil {
		app.providerErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusAccepted, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/payments/disburse
// Routes a disbursement to the provider owning the recipient's number.
func (app *application) disburseHandler(w http.ResponseWriter, r *http.Request) {
	req, ok := app.paymentRequestFromPayload(w, r)
	if !ok {
		return
	}

	result, err := app.router.SendMoney(r.Context(), req)
	if err != nil {
		app.providerErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusAccepted, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/payments/status?external_id={id}&phone={msisdn}
func (app *application) paymentStatusHandler(w http.ResponseWriter, r *http.Request) {
	externalID := r.URL.Query().Get("external_id")
	phone := r.URL.Query().Get("phone")
	if externalID == "" || phone == "" {
		app.badRequestResponse(w, r, fmt.Errorf("external_id and phone are required"))
		return
	}

	status, err := app.router.CheckPaymentStatus(r.Context(), externalID, phone)
	if err != nil {
		app.providerErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, status); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/payments/providers
func (app *application) listProvidersHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.router.ListProviders()); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GET /v1/payments/providers/{name}/balance
func (app *application) providerBalanceHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if app.router.SelectProviderByName(name) == nil {
		app.notFoundResponse(w, r, fmt.Errorf("provider %s not found", name))
		return
	}

	balance := app.router.GetProviderBalance(r.Context(), name)
	if err := app.jsonResponse(w, http.StatusOK, balance); err != nil {
		app.internalServerError(w, r, err)
	}
}

type validatePhonePayload struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// POST /v1/payments/validate-phone
// Unroutable numbers come back with valid=false and a reason, not an
// error status; the mobile app uses this for "unsupported number"
// messaging.
func (app *application) validatePhoneHandler(w http.ResponseWriter, r *http.Request) {
	var payload validatePhonePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result := app.router.ValidatePhoneNumber(payload.PhoneNumber)
	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}
