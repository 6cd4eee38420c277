package holdings

import (
	"context"
	"math"
	"testing"

	"github.com/aristath/coinfolio/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestService(t *testing.T) *Service {
	return NewService(setupTestRepository(t), zerolog.New(nil).Level(zerolog.Disabled))
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func TestService_AddAsset(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	e, err := svc.AddAsset(ctx, NewAsset{
		ID:       "  Dogecoin ",
		Quantity: 1000,
		Symbol:   "doge",
		Name:     "Dogecoin",
		Price:    0.08,
	})
	require.NoError(t, err)
	assert.Equal(t, "dogecoin", e.ID)
	assert.Equal(t, 1000.0, e.Quantity)

	_, err = svc.AddAsset(ctx, NewAsset{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin"})
	assert.ErrorIs(t, err, domain.ErrAssetExists)
}

func TestService_AddAsset_Validation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input NewAsset
		want  error
	}{
		{"missing id", NewAsset{Symbol: "x", Name: "X"}, domain.ErrInvalidAsset},
		{"missing symbol", NewAsset{ID: "x", Name: "X"}, domain.ErrInvalidAsset},
		{"missing name", NewAsset{ID: "x", Symbol: "x"}, domain.ErrInvalidAsset},
		{"negative price", NewAsset{ID: "x", Symbol: "x", Name: "X", Price: -1}, domain.ErrInvalidAsset},
		{"negative quantity", NewAsset{ID: "x", Symbol: "x", Name: "X", Quantity: -1}, domain.ErrInvalidQuantity},
		{"nan quantity", NewAsset{ID: "x", Symbol: "x", Name: "X", Quantity: math.NaN()}, domain.ErrInvalidQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddAsset(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_UpdateQuantity(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	_, err := svc.AddAsset(ctx, NewAsset{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(ctx, "BITCOIN", 0))
	h, err := svc.Holdings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, h.Quantity("bitcoin"))

	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "bitcoin", -2), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "bitcoin", math.Inf(1)), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, svc.UpdateQuantity(ctx, "ripple", 1), domain.ErrAssetNotFound)
}

func TestService_UpdateMetadata_AppliesPatch(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	_, err := svc.AddAsset(ctx, NewAsset{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", Price: 100, Change24h: 1})
	require.NoError(t, err)

	e, err := svc.UpdateMetadata(ctx, "bitcoin", MetadataPatch{Price: floatPtr(250), Image: strPtr("https://example.com/btc.png")})
	require.NoError(t, err)
	assert.Equal(t, 250.0, e.Price)
	assert.Equal(t, "https://example.com/btc.png", e.Image)
	assert.Equal(t, "Bitcoin", e.Name)
	assert.Equal(t, 1.0, e.Change24h)

	_, err = svc.UpdateMetadata(ctx, "bitcoin", MetadataPatch{Name: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = svc.UpdateMetadata(ctx, "ripple", MetadataPatch{Price: floatPtr(1)})
	assert.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestService_DeleteAsset(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	_, err := svc.AddAsset(ctx, NewAsset{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAsset(ctx, "bitcoin"))
	assert.ErrorIs(t, svc.DeleteAsset(ctx, "bitcoin"), domain.ErrAssetNotFound)
}

func TestService_NotifiesOnChange(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	changes := 0
	svc.OnChange(func() { changes++ })

	_, err := svc.AddAsset(ctx, NewAsset{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateQuantity(ctx, "bitcoin", 2))
	_, err = svc.UpdateMetadata(ctx, "bitcoin", MetadataPatch{Price: floatPtr(3)})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAsset(ctx, "bitcoin"))

	// Failed mutations do not notify
	_ = svc.DeleteAsset(ctx, "bitcoin")

	assert.Equal(t, 4, changes)
}

func TestService_SeedDefaults(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	n, err := svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultAssets), n)

	h, err := svc.Holdings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.5, h.Quantity("bitcoin"))
	assert.Equal(t, 2.3, h.Quantity("ethereum"))
	assert.Equal(t, 100.0, h.Quantity("polygon"))

	// Non-empty store is left alone
	n, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMetadataPatch(t *testing.T) {
	assert.True(t, MetadataPatch{}.Empty())

	p := MetadataPatch{Symbol: strPtr("eth"), Change7d: floatPtr(-4)}
	assert.False(t, p.Empty())

	m := p.Apply(domain.AssetMetadata{ID: "ethereum", Symbol: "x", Name: "Ethereum", Change7d: 1})
	assert.Equal(t, "eth", m.Symbol)
	assert.Equal(t, "Ethereum", m.Name)
	assert.Equal(t, -4.0, m.Change7d)
}
