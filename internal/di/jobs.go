package di

import (
	"fmt"

	"github.com/aristath/coinfolio/internal/clientdata"
	"github.com/aristath/coinfolio/internal/config"
	"github.com/aristath/coinfolio/internal/scheduler"
	"github.com/rs/zerolog"
)

// Schedules for the maintenance jobs
const (
	CleanupSchedule       = "@hourly"
	WALCheckpointSchedule = "@every 6h"
)

// RegisterJobs creates the background jobs and adds them to sched
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	jobs := &JobInstances{
		Refresh:       scheduler.NewRefreshJob(container.PortfolioFacade, 2*cfg.FetchTimeout, log),
		Cleanup:       clientdata.NewCleanupJob(container.ClientDataRepo, log),
		WALCheckpoint: scheduler.NewWALCheckpointJob(log, container.PortfolioDB, container.CacheDB),
	}

	schedules := []struct {
		spec string
		job  scheduler.Job
	}{
		{fmt.Sprintf("@every %s", cfg.PollInterval), jobs.Refresh},
		{CleanupSchedule, jobs.Cleanup},
		{WALCheckpointSchedule, jobs.WALCheckpoint},
	}
	for _, s := range schedules {
		if err := sched.AddJob(s.spec, s.job); err != nil {
			return nil, err
		}
	}

	return jobs, nil
}
