// Package coingecko fetches market quotes from the CoinGecko API with a persistent cache.
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/aristath/coinfolio/internal/clientdata"
	"github.com/aristath/coinfolio/internal/domain"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public CoinGecko v3 API
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// Client for the CoinGecko markets endpoint
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientdata.Repository
}

// NewClient creates a new CoinGecko client
// cacheRepo is optional - if nil, caching is disabled
func NewClient(baseURL string, timeout time.Duration, cacheRepo *clientdata.Repository, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: timeout},
		log:       log.With().Str("client", "coingecko").Logger(),
		cacheRepo: cacheRepo,
	}
}

// marketCoin is one row of /coins/markets. Pointer fields are null for
// thinly traded coins.
type marketCoin struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	CurrentPrice *float64 `json:"current_price"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
	Change7d     *float64 `json:"price_change_percentage_7d_in_currency"`
	Sparkline    *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

func (m marketCoin) quote() domain.AssetQuote {
	q := domain.AssetQuote{
		ID:        m.ID,
		Symbol:    m.Symbol,
		Name:      m.Name,
		Image:     m.Image,
		Price:     valueOrZero(m.CurrentPrice),
		Change24h: valueOrZero(m.Change24h),
		Change7d:  valueOrZero(m.Change7d),
	}
	if m.Sparkline != nil {
		q.Sparkline = m.Sparkline.Price
	}
	return q
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// CacheKey identifies a request by its id set, independent of order
func CacheKey(ids []string) string {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// FetchQuotes fetches market quotes for ids, in the order the API returns them.
// Fresh cached quotes are served without a request. If the API fails,
// stale cached quotes are returned when available.
func (c *Client) FetchQuotes(ctx context.Context, ids []string) ([]domain.AssetQuote, error) {
	if len(ids) == 0 {
		return []domain.AssetQuote{}, nil
	}

	cacheKey := CacheKey(ids)

	if c.cacheRepo != nil {
		var cached []domain.AssetQuote
		found, err := c.cacheRepo.GetIfFresh(clientdata.TableMarketQuotes, cacheKey, &cached)
		if err == nil && found {
			c.log.Debug().Int("count", len(cached)).Msg("Cache hit")
			return cached, nil
		}
	}

	quotes, err := c.fetch(ctx, ids)
	if err != nil {
		if stale, ok := c.getStaleFromCache(cacheKey); ok {
			c.log.Warn().
				Err(err).
				Int("count", len(stale)).
				Msg("API failed, using stale cached quotes")
			return stale, nil
		}
		return nil, err
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientdata.TableMarketQuotes, cacheKey, quotes, clientdata.TTLMarketQuotes); err != nil {
			c.log.Warn().Err(err).Str("key", cacheKey).Msg("Failed to cache quotes")
		}
	}

	c.log.Info().Int("count", len(quotes)).Msg("Fetched quotes")
	return quotes, nil
}

func (c *Client) fetch(ctx context.Context, ids []string) ([]domain.AssetQuote, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("ids", strings.Join(ids, ","))
	params.Set("order", "market_cap_desc")
	params.Set("sparkline", "true")
	params.Set("price_change_percentage", "24h,7d")

	endpoint := c.baseURL + "/coins/markets?" + params.Encode()
	c.log.Debug().Str("url", endpoint).Msg("Fetching quotes")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("API rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var coins []marketCoin
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	quotes := make([]domain.AssetQuote, 0, len(coins))
	for _, coin := range coins {
		quotes = append(quotes, coin.quote())
	}
	return quotes, nil
}

// getStaleFromCache retrieves cached quotes even if expired.
func (c *Client) getStaleFromCache(cacheKey string) ([]domain.AssetQuote, bool) {
	if c.cacheRepo == nil {
		return nil, false
	}

	var cached []domain.AssetQuote
	found, err := c.cacheRepo.Get(clientdata.TableMarketQuotes, cacheKey, &cached)
	if err != nil || !found {
		return nil, false
	}
	return cached, true
}
