// Package handlers provides HTTP handlers for portfolio administration.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/holdings"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles holdings HTTP requests
type Handler struct {
	service *holdings.Service
	log     zerolog.Logger
}

// NewHandler creates a new holdings handler
func NewHandler(service *holdings.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "holdings").Logger(),
	}
}

// UpdateQuantityRequest is the body of PUT /api/holdings/{id}/quantity
type UpdateQuantityRequest struct {
	Quantity *float64 `json:"quantity"`
}

// HandleList handles GET /api/holdings
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"assets": entries,
		"count":  len(entries),
	})
}

// HandleGet handles GET /api/holdings/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entry, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, entry)
}

// HandleAdd handles POST /api/holdings
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req holdings.NewAsset
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.AddAsset(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusCreated, entry)
}

// HandleUpdateQuantity handles PUT /api/holdings/{id}/quantity
func (h *Handler) HandleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity == nil {
		h.writeError(w, http.StatusBadRequest, "quantity is required")
		return
	}

	if err := h.service.UpdateQuantity(r.Context(), id, *req.Quantity); err != nil {
		h.writeServiceError(w, err)
		return
	}

	entry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, entry)
}

// HandleUpdateMetadata handles PATCH /api/holdings/{id}/metadata
func (h *Handler) HandleUpdateMetadata(w http.ResponseWriter, r *http.Request) {
	var patch holdings.MetadataPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode request body")
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.service.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, entry)
}

// HandleDelete handles DELETE /api/holdings/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteAsset(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeData(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAssetNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAssetExists):
		h.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrInvalidAsset):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Holdings operation failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeData(w http.ResponseWriter, status int, data interface{}) {
	h.writeJSON(w, status, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
