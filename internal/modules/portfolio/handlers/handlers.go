// Package handlers provides HTTP handlers for the valued portfolio.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/display"
	"github.com/aristath/coinfolio/internal/modules/export"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/aristath/coinfolio/internal/modules/valuation"
	"github.com/aristath/coinfolio/internal/modules/view"
	"github.com/rs/zerolog"
)

// Handler handles portfolio HTTP requests
type Handler struct {
	facade *portfolio.Facade
	log    zerolog.Logger
	now    func() time.Time
}

// NewHandler creates a new portfolio handler
func NewHandler(facade *portfolio.Facade, log zerolog.Logger) *Handler {
	return &Handler{
		facade: facade,
		log:    log.With().Str("handler", "portfolio").Logger(),
		now:    time.Now,
	}
}

// AssetRow is one line of the asset list
type AssetRow struct {
	Asset      domain.EnrichedAsset `json:"asset"`
	Percentage float64              `json:"portfolio_percentage"`
	Formatted  map[string]string    `json:"formatted"`
}

// HandleGetSummary handles GET /api/portfolio/summary
func (h *Handler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	code := currency.Normalize(r.URL.Query().Get("currency"))

	v, err := h.facade.View("", view.DefaultSortKey, code)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	if h.notModified(w, r, v) {
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"snapshot_id":  v.SnapshotID,
		"fetched_at":   v.FetchedAt.Format(time.RFC3339),
		"source":       v.Source,
		"currency":     v.Currency,
		"rate":         v.Rate,
		"totals":       v.Totals,
		"asset_count":  v.AssetCount,
		"shares":       v.Shares,
		"other_shares": v.OtherShares,
		"formatted": map[string]string{
			"total_value":             display.FormatCurrency(v.Totals.TotalValue, string(v.Currency)),
			"daily_change":            display.FormatCurrency(v.Totals.DailyChange, string(v.Currency)),
			"daily_change_percentage": display.FormatPercentage(v.Totals.DailyChangePercentage, 2),
			"fetched_at":              display.FormatDate(v.FetchedAt),
		},
	})
}

// HandleGetAssets handles GET /api/portfolio/assets
func (h *Handler) HandleGetAssets(w http.ResponseWriter, r *http.Request) {
	search, key, code, err := parseViewQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.facade.View(search, key, code)
	if err != nil {
		h.writeViewError(w, err)
		return
	}
	if h.notModified(w, r, v) {
		return
	}

	rows := make([]AssetRow, len(v.Assets))
	for i, a := range v.Assets {
		rows[i] = AssetRow{
			Asset:      a,
			Percentage: valuation.Share(a.TotalValue(), v.Totals.TotalValue),
			Formatted: map[string]string{
				"price":      display.FormatCurrency(a.Price, string(v.Currency)),
				"value":      display.FormatCurrency(a.TotalValue(), string(v.Currency)),
				"quantity":   display.FormatQuantity(a.Quantity, a.Symbol),
				"change_24h": display.FormatPercentage(a.Change24h, 2),
				"change_7d":  display.FormatPercentage(a.Change7d, 2),
			},
		}
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"snapshot_id": v.SnapshotID,
		"source":      v.Source,
		"currency":    v.Currency,
		"search":      v.Search,
		"sort":        v.SortKey,
		"sort_label":  v.SortKey.Label(),
		"assets":      rows,
		"count":       len(rows),
		"total_count": v.AssetCount,
	})
}

// HandleRefresh handles POST /api/portfolio/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.facade.Refresh(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Portfolio refresh failed")
		h.writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}

	h.writeData(w, http.StatusOK, map[string]interface{}{
		"snapshot_id": snap.ID,
		"fetched_at":  snap.FetchedAt.Format(time.RFC3339),
		"source":      snap.Source,
		"asset_count": len(snap.Assets),
		"totals":      snap.Totals,
	})
}

// HandleExportCSV handles GET /api/portfolio/export.csv
func (h *Handler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	search, key, code, err := parseViewQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	v, err := h.facade.View(search, key, code)
	if err != nil {
		h.writeViewError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, v.Assets); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV export")
		h.writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(h.now())))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error().Err(err).Msg("Failed to write CSV response")
	}
}

func parseViewQuery(r *http.Request) (string, view.SortKey, currency.Code, error) {
	q := r.URL.Query()
	key, err := view.ParseSortKey(q.Get("sort"))
	if err != nil {
		return "", "", "", err
	}
	return q.Get("search"), key, currency.Normalize(q.Get("currency")), nil
}

// notModified sets the ETag of a view and answers conditional requests
func (h *Handler) notModified(w http.ResponseWriter, r *http.Request, v portfolio.View) bool {
	etag := fmt.Sprintf("%q", v.SnapshotID+"-"+string(v.Currency))
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *Handler) writeViewError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrNoSnapshot):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, currency.ErrUnsupportedCurrency):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Failed to build portfolio view")
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
