package token

// Hints is what the caller already believes about a token, e.g. from a
// token list. Every field is optional.
type Hints struct {
	Name     string
	Symbol   string
	Decimals *uint8
}

// onChain holds whatever the token contract answered. complete is only true
// when decimals, symbol and name were all read.
type onChain struct {
	decimals uint8
	symbol   string
	name     string
	complete bool
}

type metadata struct {
	name     string
	symbol   string
	decimals uint8
}

// merge picks the metadata source by precedence: complete on-chain data,
// then the static table (with the hinted name), then the hints alone.
func merge(chain onChain, entry *TableEntry, hints Hints) metadata {
	if chain.complete {
		return metadata{
			name:     chain.name,
			symbol:   chain.symbol,
			decimals: chain.decimals,
		}
	}
	if entry != nil {
		return metadata{
			name:     hints.Name,
			symbol:   entry.Symbol,
			decimals: entry.Decimals,
		}
	}
	result := metadata{
		name:   hints.Name,
		symbol: hints.Symbol,
	}
	if hints.Decimals != nil {
		result.decimals = *hints.Decimals
	}
	return result
}
