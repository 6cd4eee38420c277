// Package handlers provides HTTP handlers for currency operations.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/rs/zerolog"
)

// Handler handles currency HTTP requests
type Handler struct {
	converter *currency.Converter
	log       zerolog.Logger
}

// NewHandler creates a new currency handler
func NewHandler(converter *currency.Converter, log zerolog.Logger) *Handler {
	return &Handler{
		converter: converter,
		log:       log.With().Str("handler", "currency").Logger(),
	}
}

// ConvertRequest represents a request to convert a base-currency amount
type ConvertRequest struct {
	ToCurrency string  `json:"to_currency"`
	Amount     float64 `json:"amount"`
}

// HandleConvert handles POST /api/currency/convert
func (h *Handler) HandleConvert(w http.ResponseWriter, r *http.Request) {
	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ToCurrency == "" {
		http.Error(w, "to_currency is required", http.StatusBadRequest)
		return
	}

	target := currency.Normalize(req.ToCurrency)
	rate, err := h.converter.Rate(target)
	if errors.Is(err, currency.ErrUnsupportedCurrency) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("to", string(target)).Msg("Failed to get rate")
		http.Error(w, "Failed to convert", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"from_currency": h.converter.Base(),
			"to_currency":   target,
			"from_amount":   req.Amount,
			"to_amount":     req.Amount * rate,
			"rate":          rate,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleGetAvailableCurrencies handles GET /api/currency/available-currencies
func (h *Handler) HandleGetAvailableCurrencies(w http.ResponseWriter, r *http.Request) {
	codes := h.converter.Supported()

	currencies := make([]map[string]interface{}, 0, len(codes))
	for _, code := range codes {
		rate, _ := h.converter.Rate(code)
		entry := map[string]interface{}{
			"code": code,
			"rate": rate,
		}
		if names, ok := currency.Names[code]; ok {
			entry["name"] = names.Name
			entry["symbol"] = names.Symbol
		}
		currencies = append(currencies, entry)
	}

	response := map[string]interface{}{
		"data": map[string]interface{}{
			"base":       h.converter.Base(),
			"currencies": currencies,
			"count":      len(currencies),
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	}

	h.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
