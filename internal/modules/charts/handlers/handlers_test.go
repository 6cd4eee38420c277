package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	testingpkg "github.com/aristath/coinfolio/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) http.Handler {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	quotes := testingpkg.NewMockQuoteProvider(testingpkg.NewQuoteFixtures())
	holdings := testingpkg.NewMockHoldingsReader(testingpkg.NewHoldingsFixture(), testingpkg.NewMetadataFixtures())
	converter := currency.NewConverter(currency.USD, currency.DefaultRates())
	facade := portfolio.NewFacade(quotes, holdings, converter, portfolio.Options{FetchTimeout: time.Second}, log)
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		NewHandler(facade, Options{InnerRatio: 0.6}, log).RegisterRoutes(r)
	})
	return router
}

func serve(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func TestHandleSparkline_JSON(t *testing.T) {
	router := setupTestRouter(t)

	w := serve(router, "/api/charts/sparkline/bitcoin?width=120&height=30")
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)
	assert.Equal(t, "bitcoin", data["asset_id"])
	drawing := data["drawing"].(map[string]interface{})
	assert.Equal(t, 120.0, drawing["width"])
	assert.Len(t, drawing["shapes"], 2)
}

func TestHandleSparkline_SVG(t *testing.T) {
	router := setupTestRouter(t)

	w := serve(router, "/api/charts/sparkline/ethereum?format=svg")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
}

func TestHandleSparkline_Errors(t *testing.T) {
	router := setupTestRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, "/api/charts/sparkline/dogecoin").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/sparkline/bitcoin?width=abc").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/sparkline/bitcoin?format=gif").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/sparkline/bitcoin?color=zzz").Code)
}

func TestHandleDistribution_JSON(t *testing.T) {
	router := setupTestRouter(t)

	w := serve(router, "/api/charts/distribution?size=200")
	require.Equal(t, http.StatusOK, w.Code)

	data := decode(t, w)
	segments := data["segments"].([]interface{})
	require.Len(t, segments, 3)
	assert.Equal(t, "bitcoin", segments[0].(map[string]interface{})["asset_id"])

	geometry := data["geometry"].(map[string]interface{})
	assert.Equal(t, 100.0, geometry["outer_radius"])
	assert.Equal(t, 60.0, geometry["inner_radius"])
}

func TestHandleDistribution_PNG(t *testing.T) {
	router := setupTestRouter(t)

	w := serve(router, "/api/charts/distribution?size=120&format=png&dpr=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
}

func TestHandleDistribution_InvalidInner(t *testing.T) {
	router := setupTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/distribution?inner=1").Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/distribution?dpr=10").Code)
}

func TestHandleHitTest(t *testing.T) {
	router := setupTestRouter(t)

	w := serve(router, "/api/charts/distribution/hit?x=105&y=10&size=200")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)
	assert.Equal(t, true, data["hit"])
	assert.Equal(t, "bitcoin", data["segment"].(map[string]interface{})["asset_id"])

	w = serve(router, "/api/charts/distribution/hit?x=100&y=100&size=200")
	require.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)
	assert.Equal(t, false, data["hit"])
	assert.Nil(t, data["segment"])

	assert.Equal(t, http.StatusBadRequest, serve(router, "/api/charts/distribution/hit?x=1").Code)
}
