package testing

import (
	"context"
	"sync"

	"github.com/aristath/coinfolio/internal/domain"
)

// MockQuoteProvider is a mock implementation of domain.QuoteProvider for testing
type MockQuoteProvider struct {
	mu      sync.Mutex
	quotes  []domain.AssetQuote
	err     error
	calls   int
	lastIDs []string
	block   chan struct{}
}

// NewMockQuoteProvider creates a new mock quote provider
func NewMockQuoteProvider(quotes []domain.AssetQuote) *MockQuoteProvider {
	return &MockQuoteProvider{quotes: quotes}
}

// SetQuotes sets the quotes to return
func (m *MockQuoteProvider) SetQuotes(quotes []domain.AssetQuote) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes = quotes
}

// SetError sets the error to return
func (m *MockQuoteProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Block makes FetchQuotes wait until the returned function is called
func (m *MockQuoteProvider) Block() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan struct{})
	m.block = ch
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Calls returns how many times FetchQuotes was called
func (m *MockQuoteProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastIDs returns the ids of the most recent request
func (m *MockQuoteProvider) LastIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastIDs
}

// FetchQuotes returns the configured quotes or error
func (m *MockQuoteProvider) FetchQuotes(ctx context.Context, ids []string) ([]domain.AssetQuote, error) {
	m.mu.Lock()
	m.calls++
	m.lastIDs = append([]string(nil), ids...)
	block := m.block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.AssetQuote(nil), m.quotes...), nil
}

// MockHoldingsReader is a mock implementation of domain.HoldingsReader for testing
type MockHoldingsReader struct {
	mu       sync.RWMutex
	holdings domain.Holdings
	metadata []domain.AssetMetadata
	err      error
}

// NewMockHoldingsReader creates a new mock holdings reader
func NewMockHoldingsReader(holdings domain.Holdings, metadata []domain.AssetMetadata) *MockHoldingsReader {
	return &MockHoldingsReader{holdings: holdings, metadata: metadata}
}

// SetHoldings sets the holdings to return
func (m *MockHoldingsReader) SetHoldings(holdings domain.Holdings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holdings = holdings
}

// SetError sets the error to return
func (m *MockHoldingsReader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Holdings returns the configured holdings
func (m *MockHoldingsReader) Holdings(ctx context.Context) (domain.Holdings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make(domain.Holdings, len(m.holdings))
	for k, v := range m.holdings {
		out[k] = v
	}
	return out, nil
}

// Metadata returns the configured metadata
func (m *MockHoldingsReader) Metadata(ctx context.Context) ([]domain.AssetMetadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.AssetMetadata(nil), m.metadata...), nil
}
