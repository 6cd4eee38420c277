package scheduler

import (
	"context"
	"time"

	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// Refresher revalues the portfolio
type Refresher interface {
	Refresh(ctx context.Context) (portfolio.Snapshot, error)
}

// RefreshJob polls quotes and revalues the portfolio
type RefreshJob struct {
	refresher Refresher
	timeout   time.Duration
	log       zerolog.Logger
}

// NewRefreshJob creates a new refresh job. Each run is bounded by timeout.
func NewRefreshJob(refresher Refresher, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		timeout:   timeout,
		log:       log.With().Str("job", "portfolio_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "portfolio_refresh"
}

// Run executes the refresh
func (j *RefreshJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	snap, err := j.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	j.log.Debug().
		Str("snapshot", snap.ID).
		Str("source", string(snap.Source)).
		Msg("Scheduled refresh done")
	return nil
}
