// Package portfolio orchestrates valuation: it fetches quotes, joins them with
// holdings and serves presentation-ready views and chart geometry.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/aristath/coinfolio/internal/modules/charts"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/valuation"
	"github.com/aristath/coinfolio/internal/modules/view"
)

// ShareLimit is the number of legend rows in a view
const ShareLimit = 5

// ErrNoSnapshot is returned when nothing has been valued yet
var ErrNoSnapshot = errors.New("portfolio not valued yet")

// Options tunes the facade
type Options struct {
	Palette      charts.Palette
	FetchTimeout time.Duration
}

// Facade owns the current snapshot. Refreshes are serialised and concurrent
// callers share the in-flight result; readers never block on a fetch.
type Facade struct {
	quotes    domain.QuoteProvider
	holdings  domain.HoldingsReader
	converter *currency.Converter
	palette   charts.Palette
	timeout   time.Duration
	log       zerolog.Logger
	now       func() time.Time

	group singleflight.Group

	mu       sync.RWMutex
	snapshot Snapshot
	ready    bool
}

// NewFacade creates a new portfolio facade
func NewFacade(
	quotes domain.QuoteProvider,
	holdings domain.HoldingsReader,
	converter *currency.Converter,
	opts Options,
	log zerolog.Logger,
) *Facade {
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = 10 * time.Second
	}
	return &Facade{
		quotes:    quotes,
		holdings:  holdings,
		converter: converter,
		palette:   opts.Palette,
		timeout:   opts.FetchTimeout,
		log:       log.With().Str("service", "portfolio").Logger(),
		now:       time.Now,
	}
}

// Refresh values the portfolio against fresh quotes and swaps the snapshot.
// If the provider fails, fallback quotes built from stored metadata are used.
// Only a failure to read the holdings store is returned as an error; the
// previous snapshot is then kept.
func (f *Facade) Refresh(ctx context.Context) (Snapshot, error) {
	v, err, shared := f.group.Do("refresh", func() (interface{}, error) {
		return f.refresh(ctx)
	})
	if err != nil {
		return Snapshot{}, err
	}
	if shared {
		f.log.Debug().Msg("Joined in-flight refresh")
	}
	return v.(Snapshot), nil
}

func (f *Facade) refresh(ctx context.Context) (Snapshot, error) {
	start := f.now()

	holdings, err := f.holdings.Holdings(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read holdings: %w", err)
	}
	metadata, err := f.holdings.Metadata(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read asset metadata: %w", err)
	}

	ids := make([]string, len(metadata))
	for i, m := range metadata {
		ids[i] = m.ID
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	quotes, err := f.quotes.FetchQuotes(fetchCtx, ids)
	cancel()

	source := SourceLive
	if err != nil {
		f.log.Warn().Err(err).Int("assets", len(ids)).Msg("Quote fetch failed, using fallback quotes")
		quotes = FallbackQuotes(metadata)
		source = SourceFallback
	}

	assets, totals := valuation.Aggregate(quotes, holdings)
	snap := Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: f.now().UTC(),
		Source:    source,
		Assets:    assets,
		Totals:    totals,
	}

	f.mu.Lock()
	f.snapshot = snap
	f.ready = true
	f.mu.Unlock()

	f.log.Info().
		Str("snapshot", snap.ID).
		Str("source", string(source)).
		Int("assets", len(assets)).
		Float64("total_value", totals.TotalValue).
		Dur("took", f.now().Sub(start)).
		Msg("Portfolio refreshed")

	return snap, nil
}

// Snapshot returns the last valued state, false if there is none yet
func (f *Facade) Snapshot() (Snapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.snapshot, f.ready
}

func (f *Facade) current() (Snapshot, error) {
	snap, ok := f.Snapshot()
	if !ok {
		return Snapshot{}, ErrNoSnapshot
	}
	return snap, nil
}

// View presents the current snapshot: search filter, sort order and
// conversion into the display currency. An empty code means the base currency.
func (f *Facade) View(search string, key view.SortKey, code currency.Code) (View, error) {
	snap, err := f.current()
	if err != nil {
		return View{}, err
	}

	if code == "" {
		code = f.converter.Base()
	}
	code = currency.Normalize(string(code))
	rate, err := f.converter.Rate(code)
	if err != nil {
		return View{}, err
	}
	if key == "" {
		key = view.DefaultSortKey
	}

	presented := view.Present(snap.Assets, search, key)
	for i := range presented {
		presented[i] = convertAsset(presented[i], rate)
	}

	shares, others := charts.Shares(charts.Layout(snap.Assets, f.palette), ShareLimit)

	return View{
		SnapshotID: snap.ID,
		FetchedAt:  snap.FetchedAt,
		Source:     snap.Source,
		Currency:   code,
		Rate:       rate,
		Search:     search,
		SortKey:    key,
		Assets:     presented,
		AssetCount: len(snap.Assets),
		Totals: domain.PortfolioTotals{
			TotalValue:            snap.Totals.TotalValue * rate,
			DailyChange:           snap.Totals.DailyChange * rate,
			DailyChangePercentage: snap.Totals.DailyChangePercentage,
		},
		Shares:      shares,
		OtherShares: others,
	}, nil
}

// Distribution lays out the current snapshot as donut segments
func (f *Facade) Distribution() ([]charts.Segment, error) {
	snap, err := f.current()
	if err != nil {
		return nil, err
	}
	return charts.Layout(snap.Assets, f.palette), nil
}

// HitTest returns the distribution segment under p for the given geometry
func (f *Facade) HitTest(p charts.Point, g charts.Geometry) (charts.Segment, bool, error) {
	segments, err := f.Distribution()
	if err != nil {
		return charts.Segment{}, false, err
	}
	seg, ok := charts.HitTest(p, segments, g)
	return seg, ok, nil
}

// Sparkline renders the price series of one asset. A zero style colour is
// replaced by the trend colour of the asset's 24h change.
func (f *Facade) Sparkline(assetID string, vp charts.Viewport, style charts.SparklineStyle) (charts.Drawing, error) {
	snap, err := f.current()
	if err != nil {
		return charts.Drawing{}, err
	}
	asset, ok := snap.Asset(assetID)
	if !ok {
		return charts.Drawing{}, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, assetID)
	}
	if style.Color == "" {
		style.Color = charts.TrendColor(asset.Change24h)
	}
	return charts.RenderSparkline(asset.Sparkline, vp, style), nil
}

// Palette returns the colours used for distribution segments
func (f *Facade) Palette() charts.Palette {
	if len(f.palette) == 0 {
		return charts.DefaultPalette
	}
	return f.palette
}

// convertAsset scales the monetary fields of a into the display currency
func convertAsset(a domain.EnrichedAsset, rate float64) domain.EnrichedAsset {
	a.Price *= rate
	if len(a.Sparkline) > 0 {
		series := make([]float64, len(a.Sparkline))
		for i, v := range a.Sparkline {
			series[i] = v * rate
		}
		a.Sparkline = series
	}
	return a
}
