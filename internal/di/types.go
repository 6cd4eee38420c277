// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/coinfolio/internal/clientdata"
	"github.com/aristath/coinfolio/internal/clients/coingecko"
	"github.com/aristath/coinfolio/internal/database"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/holdings"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/aristath/coinfolio/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire and passed to the server for access to services.
type Container struct {
	// Databases
	PortfolioDB *database.DB // holdings and asset metadata
	CacheDB     *database.DB // expiring client data

	// Repositories
	HoldingsRepo   *holdings.Repository
	ClientDataRepo *clientdata.Repository

	// Clients
	CoinGeckoClient *coingecko.Client

	// Services
	CurrencyConverter *currency.Converter
	HoldingsService   *holdings.Service
	PortfolioFacade   *portfolio.Facade
}

// JobInstances holds the registered background jobs
type JobInstances struct {
	Refresh       *scheduler.RefreshJob
	Cleanup       scheduler.Job
	WALCheckpoint *scheduler.WALCheckpointJob
}

// All returns every job, for manual triggering
func (j *JobInstances) All() []scheduler.Job {
	return []scheduler.Job{j.Refresh, j.Cleanup, j.WALCheckpoint}
}

// Close closes every database the container owns
func (c *Container) Close() error {
	var firstErr error
	for _, db := range []*database.DB{c.PortfolioDB, c.CacheDB} {
		if db == nil {
			continue
		}
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
