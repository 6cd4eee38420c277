package clientdata

import "time"

// TTL constants, added to the current time when storing to calculate expires_at.
const (
	TTLMarketQuotes = 10 * time.Minute // two poll cycles
)
