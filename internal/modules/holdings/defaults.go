package holdings

import "github.com/aristath/coinfolio/internal/domain"

// DefaultAssets seed an empty store. Prices are the last known values and
// only matter until the first successful fetch.
var DefaultAssets = []Entry{
	defaultEntry("bitcoin", "btc", "Bitcoin", "https://assets.coingecko.com/coins/images/1/large/bitcoin.png", 39840.21, 2.1, 5.3, 0.5),
	defaultEntry("ethereum", "eth", "Ethereum", "https://assets.coingecko.com/coins/images/279/large/ethereum.png", 2104.32, 3.2, 7.5, 2.3),
	defaultEntry("cardano", "ada", "Cardano", "https://assets.coingecko.com/coins/images/975/large/cardano.png", 0.43, -1.2, -3.1, 500),
	defaultEntry("solana", "sol", "Solana", "https://assets.coingecko.com/coins/images/4128/large/solana.png", 104.23, 5.7, 12.3, 10),
	defaultEntry("polkadot", "dot", "Polkadot", "https://assets.coingecko.com/coins/images/12171/large/polkadot.png", 6.89, -0.8, 2.2, 30),
	defaultEntry("avalanche", "avax", "Avalanche", "https://assets.coingecko.com/coins/images/12559/large/Avalanche_Circle_RedWhite_Trans.png", 22.17, 4.1, 9.2, 15),
	defaultEntry("chainlink", "link", "Chainlink", "https://assets.coingecko.com/coins/images/877/large/chainlink-new-logo.png", 13.92, 1.3, 4.2, 40),
	defaultEntry("polygon", "matic", "Polygon", "https://assets.coingecko.com/coins/images/4713/large/matic-token-icon.png", 0.82, -2.3, -1.1, 100),
}

func defaultEntry(id, symbol, name, image string, price, change24h, change7d, quantity float64) Entry {
	return Entry{
		AssetMetadata: domain.AssetMetadata{
			ID:        id,
			Symbol:    symbol,
			Name:      name,
			Image:     image,
			Price:     price,
			Change24h: change24h,
			Change7d:  change7d,
		},
		Quantity: quantity,
	}
}
