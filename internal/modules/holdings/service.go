package holdings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/rs/zerolog"
)

// Service validates and applies portfolio administration operations.
// It also serves as the read-only holdings source for valuation.
type Service struct {
	repo *Repository
	log  zerolog.Logger

	mu        sync.RWMutex
	listeners []func()
}

// NewService creates a new holdings service
func NewService(repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("service", "holdings").Logger(),
	}
}

// OnChange registers fn to be called after every successful mutation
func (s *Service) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Service) notify() {
	s.mu.RLock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// List returns every tracked asset ordered by id
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	return s.repo.List(ctx)
}

// Get returns a single tracked asset
func (s *Service) Get(ctx context.Context, id string) (Entry, error) {
	return s.repo.Get(ctx, normalizeID(id))
}

// Holdings implements domain.HoldingsReader
func (s *Service) Holdings(ctx context.Context) (domain.Holdings, error) {
	return s.repo.Holdings(ctx)
}

// Metadata implements domain.HoldingsReader
func (s *Service) Metadata(ctx context.Context) ([]domain.AssetMetadata, error) {
	return s.repo.Metadata(ctx)
}

// UpdateQuantity sets the held quantity of an existing asset
func (s *Service) UpdateQuantity(ctx context.Context, id string, quantity float64) error {
	id = normalizeID(id)
	if err := validateQuantity(quantity); err != nil {
		return err
	}

	if err := s.repo.SetQuantity(ctx, id, quantity); err != nil {
		return err
	}

	s.log.Info().Str("asset_id", id).Float64("quantity", quantity).Msg("Updated quantity")
	s.notify()
	return nil
}

// AddAsset starts tracking a new asset
func (s *Service) AddAsset(ctx context.Context, in NewAsset) (Entry, error) {
	e := Entry{
		AssetMetadata: domain.AssetMetadata{
			ID:        normalizeID(in.ID),
			Symbol:    strings.TrimSpace(in.Symbol),
			Name:      strings.TrimSpace(in.Name),
			Image:     strings.TrimSpace(in.Image),
			Price:     in.Price,
			Change24h: in.Change24h,
			Change7d:  in.Change7d,
		},
		Quantity: in.Quantity,
	}
	if err := validateMetadata(e.AssetMetadata); err != nil {
		return Entry{}, err
	}
	if err := validateQuantity(e.Quantity); err != nil {
		return Entry{}, err
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		return Entry{}, err
	}

	s.log.Info().Str("asset_id", e.ID).Str("name", e.Name).Msg("Added asset")
	s.notify()
	return s.repo.Get(ctx, e.ID)
}

// UpdateMetadata applies a partial metadata update to an existing asset
func (s *Service) UpdateMetadata(ctx context.Context, id string, patch MetadataPatch) (Entry, error) {
	id = normalizeID(id)
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if patch.Empty() {
		return current, nil
	}

	updated := patch.Apply(current.AssetMetadata)
	updated.Symbol = strings.TrimSpace(updated.Symbol)
	updated.Name = strings.TrimSpace(updated.Name)
	if err := validateMetadata(updated); err != nil {
		return Entry{}, err
	}

	if err := s.repo.UpdateMetadata(ctx, updated); err != nil {
		return Entry{}, err
	}

	s.log.Info().Str("asset_id", id).Msg("Updated metadata")
	s.notify()
	return s.repo.Get(ctx, id)
}

// DeleteAsset stops tracking an asset
func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	id = normalizeID(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("asset_id", id).Msg("Deleted asset")
	s.notify()
	return nil
}

// SeedDefaults inserts DefaultAssets when the store is empty.
// Returns the number of assets inserted.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for _, e := range DefaultAssets {
		err := s.repo.Insert(ctx, e)
		if errors.Is(err, domain.ErrAssetExists) {
			continue
		}
		if err != nil {
			return inserted, fmt.Errorf("failed to seed %s: %w", e.ID, err)
		}
		inserted++
	}

	s.log.Info().Int("count", inserted).Msg("Seeded default holdings")
	return inserted, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func validateQuantity(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidQuantity, q)
	}
	return nil
}

func validateMetadata(m domain.AssetMetadata) error {
	switch {
	case m.ID == "":
		return fmt.Errorf("%w: id is required", domain.ErrInvalidAsset)
	case m.Symbol == "":
		return fmt.Errorf("%w: symbol is required", domain.ErrInvalidAsset)
	case m.Name == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidAsset)
	case m.Price < 0 || math.IsNaN(m.Price) || math.IsInf(m.Price, 0):
		return fmt.Errorf("%w: price must be a non-negative number", domain.ErrInvalidAsset)
	}
	return nil
}
