package di

import (
	"context"
	"fmt"

	"github.com/aristath/coinfolio/internal/clientdata"
	"github.com/aristath/coinfolio/internal/clients/coingecko"
	"github.com/aristath/coinfolio/internal/config"
	"github.com/aristath/coinfolio/internal/modules/currency"
	"github.com/aristath/coinfolio/internal/modules/holdings"
	"github.com/aristath/coinfolio/internal/modules/portfolio"
	"github.com/rs/zerolog"
)

// InitializeRepositories creates the data access layer
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	if container.PortfolioDB == nil || container.CacheDB == nil {
		return fmt.Errorf("databases not initialized")
	}
	container.HoldingsRepo = holdings.NewRepository(container.PortfolioDB.Conn(), log)
	container.ClientDataRepo = clientdata.NewRepository(container.CacheDB.Conn())
	return nil
}

// InitializeServices creates clients and services and connects holdings
// changes to a background revaluation.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.CoinGeckoClient = coingecko.NewClient(
		cfg.CoinGeckoBaseURL,
		cfg.FetchTimeout,
		container.ClientDataRepo,
		log,
	)

	container.CurrencyConverter = currency.NewConverter(cfg.BaseCurrency, cfg.Rates)
	container.HoldingsService = holdings.NewService(container.HoldingsRepo, log)

	container.PortfolioFacade = portfolio.NewFacade(
		container.CoinGeckoClient,
		container.HoldingsService,
		container.CurrencyConverter,
		portfolio.Options{
			Palette:      cfg.Palette,
			FetchTimeout: cfg.FetchTimeout,
		},
		log,
	)

	facade := container.PortfolioFacade
	container.HoldingsService.OnChange(func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.FetchTimeout)
			defer cancel()
			if _, err := facade.Refresh(ctx); err != nil {
				log.Warn().Err(err).Msg("Revaluation after holdings change failed")
			}
		}()
	})

	if cfg.SeedDefaults {
		if _, err := container.HoldingsService.SeedDefaults(context.Background()); err != nil {
			return fmt.Errorf("failed to seed default holdings: %w", err)
		}
	}

	return nil
}
