package util

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/util/broadcaster"
	"github.com/tranvictor/ethwallet/util/monitor"
	"github.com/tranvictor/ethwallet/util/reader"
)

// NodeGateway is the common.Gateway backed by JSON-RPC nodes: reads fan out
// through the reader and raw txs go through the broadcaster.
type NodeGateway struct {
	*reader.EthReader
	*broadcaster.Broadcaster
}

// GetNodes merges the network's nodes with extra ones, extra nodes winning
// on name clashes.
func GetNodes(network networks.Network, extra map[string]string) map[string]string {
	nodes := networks.Nodes(network)
	for name, url := range extra {
		nodes[name] = url
	}
	return nodes
}

func NewGateway(network networks.Network, extraNodes map[string]string, logger *zap.Logger) (*NodeGateway, error) {
	nodes := GetNodes(network, extraNodes)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes configured for %s", network.GetName())
	}
	return &NodeGateway{
		EthReader:   reader.NewEthReaderGeneric(nodes, logger),
		Broadcaster: broadcaster.NewGenericBroadcaster(nodes, logger),
	}, nil
}

// EthTxMonitor polls about once per block and gives up after 20 blocks
// without a receipt.
func EthTxMonitor(gw *NodeGateway, network networks.Network, logger *zap.Logger) *monitor.TxMonitor {
	blockTime := network.GetBlockTime()
	return monitor.NewGenericTxMonitor(gw, blockTime, 20*blockTime, logger)
}

func CalculateTimeDurationFromBlock(network networks.Network, from, to uint64) time.Duration {
	if from >= to {
		return 0
	}
	return network.GetBlockTime() * time.Duration(to-from)
}

// ValueToAmountAndCurrency splits "1.5 USDC" into its amount and currency.
// A missing currency means the native coin and is returned as "".
func ValueToAmountAndCurrency(value string) (decimal.Decimal, string, error) {
	parts := strings.Fields(value)
	if len(parts) == 0 {
		return decimal.Zero, "", fmt.Errorf("`%s` is invalid. See help to learn more", value)
	}
	amount, err := decimal.NewFromString(parts[0])
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("`%s` is not a number. See help to learn more", parts[0])
	}
	if amount.IsNegative() {
		return decimal.Zero, "", fmt.Errorf("`%s` is negative", parts[0])
	}
	return amount, strings.Join(parts[1:], " "), nil
}

// IsNativeCurrency reports whether currency names the network's coin.
func IsNativeCurrency(network networks.Network, currency string) bool {
	return currency == "" || strings.EqualFold(currency, network.GetNativeTokenSymbol())
}

var txHashRe = regexp.MustCompile("(0x)?[0-9a-fA-F]{64}")

func ScanForTxs(para string) []string {
	result := txHashRe.FindAllString(para, -1)
	if result == nil {
		return []string{}
	}
	return result
}

// ParamToBigInt accepts decimal or 0x prefixed hex.
func ParamToBigInt(param string) (*big.Int, error) {
	param = strings.TrimSpace(param)
	result, ok := new(big.Int).SetString(param, 0)
	if !ok {
		return nil, fmt.Errorf("`%s` is not an integer", param)
	}
	return result, nil
}
