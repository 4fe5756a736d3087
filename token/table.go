package token

import (
	"bytes"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

// TableEntry is what the static table knows about a token. It never has a
// name: names come from the chain or from the caller.
type TableEntry struct {
	ChainID  uint64
	Address  common.Address
	Symbol   string
	Decimals uint8
}

type tableKey struct {
	chainID uint64
	address common.Address
}

// Table is the built-in list of well known tokens consulted when on-chain
// metadata can't be read. It is safe for concurrent use.
type Table struct {
	mu      sync.RWMutex
	entries map[tableKey]TableEntry
}

func NewTable(entries ...TableEntry) *Table {
	t := &Table{entries: map[tableKey]TableEntry{}}
	for _, e := range entries {
		t.Register(e)
	}
	return t
}

func (t *Table) Register(e TableEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[tableKey{e.ChainID, e.Address}] = e
}

func (t *Table) Lookup(chainID uint64, address common.Address) (TableEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, found := t.entries[tableKey{chainID, address}]
	return e, found
}

// Entries returns the tokens known on chainID sorted by symbol, then by
// address.
func (t *Table) Entries(chainID uint64) []TableEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := []TableEntry{}
	for k, e := range t.entries {
		if k.chainID == chainID {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Symbol != result[j].Symbol {
			return result[i].Symbol < result[j].Symbol
		}
		return bytes.Compare(result[i].Address.Bytes(), result[j].Address.Bytes()) < 0
	})
	return result
}

// LookupSymbol finds a token by its exact symbol, ignoring case.
func (t *Table) LookupSymbol(chainID uint64, symbol string) (TableEntry, bool) {
	for _, e := range t.Entries(chainID) {
		if strings.EqualFold(e.Symbol, symbol) {
			return e, true
		}
	}
	return TableEntry{}, false
}

func mainnet(address, symbol string, decimals uint8) TableEntry {
	addr, err := walletcommon.NormalizeAddress(address)
	if err != nil {
		panic(err)
	}
	return TableEntry{
		ChainID:  1,
		Address:  addr,
		Symbol:   symbol,
		Decimals: decimals,
	}
}

var defaultEntries = []TableEntry{
	mainnet("0xdAC17F958D2ee523a2206206994597C13D831ec7", "USDT", 6),
	mainnet("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "USDC", 6),
	mainnet("0x6B175474E89094C44Da98b954EedeAC495271d0F", "DAI", 18),
	mainnet("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", "WETH", 18),
	mainnet("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", "WBTC", 8),
	mainnet("0x514910771AF9Ca656af840dff83E8264EcF986CA", "LINK", 18),
	mainnet("0x1f9840a85d5aF5bf1D1762F925BDADdC4201F984", "UNI", 18),
	mainnet("0x9f8F72aA9304c8B593d555F12eF6589cC3A579A2", "MKR", 18),
	mainnet("0x0D8775F648430679A709E98d2b0Cb6250d2887EF", "BAT", 18),
	mainnet("0xE41d2489571d322189246DaFA5ebDe1F4699F498", "ZRX", 18),
	mainnet("0xdd974D5C2e2928deA5F71b9825b8b646686BD200", "KNC", 18),
	mainnet("0xd26114cd6EE289AccF82350c8d8487fedB8A0C07", "OMG", 18),
	mainnet("0x744d70FDBE2Ba4CF95131626614a1763DF805B9E", "SNT", 18),
	mainnet("0x7Fc66500c84A76Ad7e9c93437bFc5Ac33E2DDaE9", "AAVE", 18),
	mainnet("0x95aD61b0a150d79219dCF64E1E6Cc01f0B64C4cE", "SHIB", 18),
	mainnet("0x7D1AfA7B718fb893dB30A3aBc0Cfc608AaCfeBB0", "MATIC", 18),
}

// DefaultTable returns a fresh table holding the built-in tokens.
func DefaultTable() *Table {
	return NewTable(defaultEntries...)
}
