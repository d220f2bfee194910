package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/logger"
	"storefront/internal/product"
	"storefront/internal/storefront"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body into v, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	log := logger.FromCtx(r.Context()).With(
		zap.String("layer", "httpapi"),
		zap.String("path", r.URL.Path),
	)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	var missing *product.MissingAttributeError
	switch {
	case errors.Is(err, cart.ErrCartEmpty):
		return http.StatusConflict
	case errors.Is(err, storefront.ErrProductNotFound), errors.Is(err, cart.ErrCartItemNotFound):
		return http.StatusNotFound
	case errors.As(err, &missing), errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, storefront.ErrSessionClosed),
		errors.Is(err, storefront.ErrNoOrderService),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
