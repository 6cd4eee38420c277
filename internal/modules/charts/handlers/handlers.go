// Package handlers serves chart geometry and rendered images.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/charts"
	"github.com/aristath/coinfolio/internal/modules/charts/render"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/aristath/coinfolio/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultSparklineWidth  = 100.0
	defaultSparklineHeight = 40.0
	maxDimension           = 4096.0
	maxPixelRatio          = 4.0
)

// Options holds the chart defaults that are not part of a request
type Options struct {
	InnerRatio float64
	Background string
}

// Handler handles chart HTTP requests
type Handler struct {
	facade *portfolio.Facade
	opts   Options
	log    zerolog.Logger
}

// NewHandler creates a new charts handler
func NewHandler(facade *portfolio.Facade, opts Options, log zerolog.Logger) *Handler {
	if opts.InnerRatio < 0 || opts.InnerRatio >= 1 {
		opts.InnerRatio = charts.DefaultInnerRatio
	}
	if opts.Background == "" {
		opts.Background = charts.DefaultBackground
	}
	return &Handler{
		facade: facade,
		opts:   opts,
		log:    log.With().Str("handler", "charts").Logger(),
	}
}

// HandleSparkline handles GET /api/charts/sparkline/{id}
func (h *Handler) HandleSparkline(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	width, err := floatParam(q.Get("width"), defaultSparklineWidth, 1, maxDimension)
	if err != nil {
		http.Error(w, "invalid width: "+err.Error(), http.StatusBadRequest)
		return
	}
	height, err := floatParam(q.Get("height"), defaultSparklineHeight, 1, maxDimension)
	if err != nil {
		http.Error(w, "invalid height: "+err.Error(), http.StatusBadRequest)
		return
	}
	format, dpr, ok := h.outputParams(w, r)
	if !ok {
		return
	}

	style := charts.DefaultSparklineStyle()
	style.Color = ""
	if c := q.Get("color"); c != "" {
		if _, err := charts.ParseColor(c); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		style.Color = c
	}

	drawing, err := h.facade.Sparkline(chi.URLParam(r, "id"), charts.Viewport{Width: width, Height: height}, style)
	if err != nil {
		h.writeFacadeError(w, err)
		return
	}

	h.writeDrawing(w, format, dpr, drawing, map[string]interface{}{
		"asset_id": chi.URLParam(r, "id"),
		"drawing":  drawing,
	})
}

// HandleDistribution handles GET /api/charts/distribution
func (h *Handler) HandleDistribution(w http.ResponseWriter, r *http.Request) {
	g, ok := h.geometry(w, r)
	if !ok {
		return
	}
	format, dpr, ok := h.outputParams(w, r)
	if !ok {
		return
	}

	segments, err := h.facade.Distribution()
	if err != nil {
		h.writeFacadeError(w, err)
		return
	}
	drawing := charts.RenderDistribution(segments, g, h.opts.Background)

	h.writeDrawing(w, format, dpr, drawing, map[string]interface{}{
		"geometry": g,
		"segments": segments,
		"drawing":  drawing,
	})
}

// HandleHitTest handles GET /api/charts/distribution/hit
func (h *Handler) HandleHitTest(w http.ResponseWriter, r *http.Request) {
	g, ok := h.geometry(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		http.Error(w, "x and y are required numbers", http.StatusBadRequest)
		return
	}

	seg, hit, err := h.facade.HitTest(charts.Point{X: x, Y: y}, g)
	if err != nil {
		h.writeFacadeError(w, err)
		return
	}

	data := map[string]interface{}{
		"hit":     hit,
		"segment": nil,
	}
	if hit {
		data["segment"] = seg
	}
	h.writeData(w, http.StatusOK, data)
}

func (h *Handler) geometry(w http.ResponseWriter, r *http.Request) (charts.Geometry, bool) {
	q := r.URL.Query()
	size, err := floatParam(q.Get("size"), charts.DefaultSize, 1, maxDimension)
	if err != nil {
		http.Error(w, "invalid size: "+err.Error(), http.StatusBadRequest)
		return charts.Geometry{}, false
	}
	inner, err := floatParam(q.Get("inner"), h.opts.InnerRatio, 0, 1)
	if err != nil || inner >= 1 {
		http.Error(w, "inner must be in [0, 1)", http.StatusBadRequest)
		return charts.Geometry{}, false
	}
	return charts.NewGeometry(size, inner), true
}

func (h *Handler) outputParams(w http.ResponseWriter, r *http.Request) (render.Format, float64, bool) {
	q := r.URL.Query()
	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return "", 0, false
	}
	dpr, err := floatParam(q.Get("dpr"), 1, 0.5, maxPixelRatio)
	if err != nil {
		http.Error(w, "invalid dpr: "+err.Error(), http.StatusBadRequest)
		return "", 0, false
	}
	return format, dpr, true
}

func (h *Handler) writeDrawing(w http.ResponseWriter, format render.Format, dpr float64, d charts.Drawing, data map[string]interface{}) {
	if format == render.FormatJSON {
		h.writeData(w, http.StatusOK, data)
		return
	}

	done := utils.OperationTimer("render_"+string(format), time.Second, h.log)
	var buf bytes.Buffer
	var err error
	if format == render.FormatSVG {
		err = render.WriteSVG(&buf, d)
	} else {
		err = render.WritePNG(&buf, d, dpr)
	}
	done()
	if err != nil {
		h.log.Error().Err(err).Str("format", string(format)).Msg("Failed to render chart")
		h.writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error().Err(err).Msg("Failed to write chart response")
	}
}

// floatParam parses an optional query value within [min, max]
func floatParam(raw string, def, min, max float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%v out of range [%v, %v]", v, min, max)
	}
	return v, nil
}

func (h *Handler) writeFacadeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, portfolio.ErrNoSnapshot):
		h.writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrAssetNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Error().Err(err).Msg("Chart request failed")
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
