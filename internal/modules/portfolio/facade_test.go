package portfolio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/charts"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/view"
	testingpkg "github.com/aristath/coinfolio/internal/testing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFacade() (*Facade, *testingpkg.MockQuoteProvider, *testingpkg.MockHoldingsReader) {
	quotes := testingpkg.NewMockQuoteProvider(testingpkg.NewQuoteFixtures())
	holdings := testingpkg.NewMockHoldingsReader(testingpkg.NewHoldingsFixture(), testingpkg.NewMetadataFixtures())
	converter := currency.NewConverter(currency.USD, currency.DefaultRates())
	facade := NewFacade(quotes, holdings, converter, Options{FetchTimeout: time.Second}, zerolog.Nop())
	return facade, quotes, holdings
}

func TestFacade_NotReadyBeforeRefresh(t *testing.T) {
	facade, _, _ := newTestFacade()

	_, ok := facade.Snapshot()
	assert.False(t, ok)

	_, err := facade.View("", view.DefaultSortKey, currency.USD)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = facade.Distribution()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = facade.Sparkline("bitcoin", charts.Viewport{Width: 100, Height: 40}, charts.DefaultSparklineStyle())
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestFacade_RefreshLive(t *testing.T) {
	facade, quotes, _ := newTestFacade()

	snap, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceLive, snap.Source)
	assert.NotEmpty(t, snap.ID)
	assert.Len(t, snap.Assets, 3)
	assert.InDelta(t, 24250, snap.Totals.TotalValue, 1e-9)
	assert.ElementsMatch(t, []string{"bitcoin", "ethereum", "cardano"}, quotes.LastIDs())

	stored, ok := facade.Snapshot()
	require.True(t, ok)
	assert.Equal(t, snap.ID, stored.ID)
}

func TestFacade_RefreshFallsBackOnProviderError(t *testing.T) {
	facade, quotes, _ := newTestFacade()
	quotes.SetError(errors.New("rate limit exceeded"))

	snap, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, SourceFallback, snap.Source)
	assert.InDelta(t, 24250, snap.Totals.TotalValue, 1e-9)

	btc, ok := snap.Asset("bitcoin")
	require.True(t, ok)
	assert.Len(t, btc.Sparkline, FallbackSamples)
	assert.Equal(t, FallbackSeries("bitcoin", 40000, FallbackSamples), btc.Sparkline)
}

func TestFacade_RefreshKeepsSnapshotWhenStoreFails(t *testing.T) {
	facade, _, holdings := newTestFacade()

	first, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	holdings.SetError(errors.New("disk I/O error"))
	_, err = facade.Refresh(context.Background())
	require.Error(t, err)

	stored, ok := facade.Snapshot()
	require.True(t, ok)
	assert.Equal(t, first.ID, stored.ID)
}

func TestFacade_RefreshReplacesSnapshot(t *testing.T) {
	facade, _, holdings := newTestFacade()

	first, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	holdings.SetHoldings(domain.Holdings{"bitcoin": 1})
	second, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.InDelta(t, 40000, second.Totals.TotalValue, 1e-9)
	assert.InDelta(t, 24250, first.Totals.TotalValue, 1e-9)
}

func TestFacade_ConcurrentRefreshSharesFetch(t *testing.T) {
	facade, quotes, _ := newTestFacade()
	release := quotes.Block()

	var wg sync.WaitGroup
	results := make([]Snapshot, 2)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = facade.Refresh(context.Background())
	}()
	require.Eventually(t, func() bool { return quotes.Calls() == 1 }, time.Second, 5*time.Millisecond)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = facade.Refresh(context.Background())
	}()
	time.Sleep(50 * time.Millisecond)
	release()
	wg.Wait()

	assert.Equal(t, 1, quotes.Calls())
	assert.Equal(t, results[0].ID, results[1].ID)
}

func TestFacade_View(t *testing.T) {
	facade, _, _ := newTestFacade()
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	v, err := facade.View("", view.SortNameAZ, "cad")
	require.NoError(t, err)

	assert.Equal(t, currency.CAD, v.Currency)
	assert.InDelta(t, 1.36, v.Rate, 1e-12)
	assert.InDelta(t, 24250*1.36, v.Totals.TotalValue, 1e-6)
	require.Len(t, v.Assets, 3)
	assert.Equal(t, "Bitcoin", v.Assets[0].Name)
	assert.Equal(t, "Cardano", v.Assets[1].Name)
	assert.InDelta(t, 40000*1.36, v.Assets[0].Price, 1e-6)
	assert.InDelta(t, 39000*1.36, v.Assets[0].Sparkline[0], 1e-6)

	// shares come from base values, ordered by value
	require.Len(t, v.Shares, 3)
	assert.Equal(t, "bitcoin", v.Shares[0].AssetID)
	assert.Equal(t, 0, v.OtherShares)

	// the snapshot itself is untouched
	snap, _ := facade.Snapshot()
	btc, _ := snap.Asset("bitcoin")
	assert.Equal(t, 40000.0, btc.Price)
}

func TestFacade_ViewSearchAndDefaults(t *testing.T) {
	facade, _, _ := newTestFacade()
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	v, err := facade.View("ETH", "", "")
	require.NoError(t, err)

	assert.Equal(t, currency.USD, v.Currency)
	assert.Equal(t, view.DefaultSortKey, v.SortKey)
	require.Len(t, v.Assets, 1)
	assert.Equal(t, "ethereum", v.Assets[0].ID)
	assert.Equal(t, 3, v.AssetCount)
	assert.InDelta(t, 24250, v.Totals.TotalValue, 1e-9)
}

func TestFacade_ViewUnsupportedCurrency(t *testing.T) {
	facade, _, _ := newTestFacade()
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	_, err = facade.View("", view.DefaultSortKey, "JPY")
	assert.ErrorIs(t, err, currency.ErrUnsupportedCurrency)
}

func TestFacade_DistributionAndHitTest(t *testing.T) {
	facade, _, _ := newTestFacade()
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	segments, err := facade.Distribution()
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, "bitcoin", segments[0].AssetID)

	g := charts.NewGeometry(200, 0.6)
	// just right of the top, inside the ring: first segment
	seg, ok, err := facade.HitTest(charts.Point{X: 105, Y: 10}, g)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bitcoin", seg.AssetID)

	// centre of the hole
	_, ok, err = facade.HitTest(charts.Point{X: 100, Y: 100}, g)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFacade_Sparkline(t *testing.T) {
	facade, _, _ := newTestFacade()
	_, err := facade.Refresh(context.Background())
	require.NoError(t, err)

	style := charts.DefaultSparklineStyle()
	style.Color = ""
	d, err := facade.Sparkline("ethereum", charts.Viewport{Width: 100, Height: 40}, style)
	require.NoError(t, err)
	require.NotEmpty(t, d.Shapes)
	assert.Equal(t, charts.NegativeColor, d.Shapes[len(d.Shapes)-1].Color)

	_, err = facade.Sparkline("dogecoin", charts.Viewport{Width: 100, Height: 40}, style)
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestFallbackSeries_Deterministic(t *testing.T) {
	a := FallbackSeries("bitcoin", 40000, 24)
	b := FallbackSeries("bitcoin", 40000, 24)
	c := FallbackSeries("ethereum", 40000, 24)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 24)
	assert.Nil(t, FallbackSeries("bitcoin", 40000, 0))

	// each step moves at most half of a tenth of the variation
	maxStep := 40000 * fallbackVariation * fallbackStep / 2
	prev := 40000.0
	for _, v := range a {
		assert.LessOrEqual(t, v-prev, maxStep)
		assert.GreaterOrEqual(t, v-prev, -maxStep)
		prev = v
	}
}
