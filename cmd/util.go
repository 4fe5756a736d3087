package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/gas"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/storage"
	"github.com/tranvictor/ethwallet/token"
	"github.com/tranvictor/ethwallet/ui"
	"github.com/tranvictor/ethwallet/util"
)

func newGateway() (*util.NodeGateway, error) {
	return util.NewGateway(network, appConfig.Nodes, logger)
}

func newResolver(gw walletcommon.Gateway) *token.Resolver {
	return token.NewResolver(gw, network.GetChainID(), token.WithLogger(logger))
}

func newEstimator(gw walletcommon.Gateway) (*gas.Estimator, error) {
	price, err := appConfig.Gas.FallbackPrice()
	if err != nil {
		return nil, err
	}
	return gas.NewEstimator(gw,
		gas.WithLogger(logger),
		gas.WithFallbacks(gas.Fallbacks{
			PriceGwei:  price,
			TokenLimit: appConfig.Gas.FallbackTokenLimit,
			CoinLimit:  appConfig.Gas.FallbackCoinLimit,
		}),
	), nil
}

func openStore() (*storage.BadgerStore, error) {
	return storage.Open(appConfig.Storage.Path, appConfig.Storage.InMemory, logger)
}

func nativeDecimals() int {
	return int(network.GetNativeTokenDecimal())
}

// resolveCurrency turns what the user typed as currency into a token. An
// address is resolved as is, anything else is looked up by symbol in the
// token table. It returns nil for the native coin.
func resolveCurrency(ctx context.Context, resolver *token.Resolver, net networks.Network, currency string) (*walletcommon.TokenRecord, error) {
	currency = strings.TrimSpace(currency)
	if util.IsNativeCurrency(net, currency) {
		return nil, nil
	}
	chainID := net.GetChainID()
	if walletcommon.IsValidAddressSyntax(currency) {
		record, err := resolver.Resolve(ctx, currency, token.Hints{})
		if err != nil {
			return nil, err
		}
		return &record, nil
	}
	entry, found := resolver.Table().LookupSymbol(chainID, currency)
	if !found {
		suggestions := []string{}
		for _, e := range resolver.Table().Search(chainID, currency) {
			suggestions = append(suggestions, e.Symbol)
		}
		if len(suggestions) == 0 {
			return nil, fmt.Errorf("unknown currency %q, use the token contract address instead", currency)
		}
		return nil, fmt.Errorf("unknown currency %q, did you mean %s?", currency, strings.Join(suggestions, ", "))
	}
	decimals := entry.Decimals
	record, err := resolver.Resolve(ctx, walletcommon.CanonicalAddress(entry.Address), token.Hints{
		Symbol:   entry.Symbol,
		Decimals: &decimals,
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// parsePrivateKey accepts a 32 byte hex key with or without 0x.
func parsePrivateKey(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	key, err := hexutil.Decode(s)
	if err != nil {
		return nil, walletcommon.ErrInvalidPrivateKey
	}
	if len(key) != 32 {
		for i := range key {
			key[i] = 0
		}
		return nil, walletcommon.ErrInvalidPrivateKey
	}
	return key, nil
}

func tokenSymbols(records []walletcommon.TokenRecord) map[common.Address]string {
	result := make(map[common.Address]string, len(records))
	for _, r := range records {
		result[r.Address] = r.Symbol
	}
	return result
}

func errorText(s string) ui.StyledText {
	return ui.StyledText{Text: s, Severity: ui.SeverityError}
}
