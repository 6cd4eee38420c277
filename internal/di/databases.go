package di

import (
	"fmt"
	"path/filepath"

	"github.com/aristath/coinfolio/internal/config"
	"github.com/aristath/coinfolio/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens both databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. portfolio.db - holdings and asset metadata
	portfolioDB, err := openDatabase(cfg.DataDir, database.NamePortfolio, database.ProfileStandard)
	if err != nil {
		return nil, err
	}
	container.PortfolioDB = portfolioDB

	// 2. cache.db - expiring API responses, safe to lose
	cacheDB, err := openDatabase(cfg.DataDir, database.NameCache, database.ProfileCache)
	if err != nil {
		portfolioDB.Close()
		return nil, err
	}
	container.CacheDB = cacheDB

	log.Info().Str("data_dir", cfg.DataDir).Msg("Databases initialized")
	return container, nil
}

func openDatabase(dataDir, name string, profile database.DatabaseProfile) (*database.DB, error) {
	db, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, name+".db"),
		Profile: profile,
		Name:    name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", name, err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate %s database: %w", name, err)
	}
	return db, nil
}
