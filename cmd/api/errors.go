package main

import (
	"net/http"

	"flash/internal/payments"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// providerErrorResponse maps the orchestration error taxonomy onto
// HTTP statuses: unroutable or unsupported numbers are client
// problems, unreachable rails are gateway problems.
func (app *application) providerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	pe, ok := payments.AsProviderError(err)
	if !ok {
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Warnw("provider error",
		"method", r.Method, "path", r.URL.Path,
		"provider", pe.Provider, "kind", pe.Kind.String(), "error", pe.Message)

	switch pe.Kind {
	case payments.KindUnsupportedRecipient:
		writeJSONError(w, http.StatusUnprocessableEntity, pe.Error())
	case payments.KindConnection:
		writeJSONError(w, http.StatusBadGateway, pe.Error())
	default:
		if pe.Provider == "" {
			// routing failure, nothing was attempted
			writeJSONError(w, http.StatusUnprocessableEntity, pe.Error())
			return
		}
		writeJSONError(w, http.StatusBadGateway, pe.Error())
	}
}
