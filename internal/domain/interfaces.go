package domain

import "context"

// QuoteProvider fetches current quotes for the given asset identifiers.
// Implementations may serve stale data; they return an error only when
// nothing usable is available.
type QuoteProvider interface {
	FetchQuotes(ctx context.Context, ids []string) ([]AssetQuote, error)
}

// HoldingsReader provides a read-only snapshot of the portfolio store.
type HoldingsReader interface {
	// Holdings returns asset id -> quantity for every stored asset
	Holdings(ctx context.Context) (Holdings, error)

	// Metadata returns the stored description of every asset, ordered by id
	Metadata(ctx context.Context) ([]AssetMetadata, error)
}
