package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/networks"
)

func TestValueToAmountAndCurrency(t *testing.T) {
	amount, currency, err := ValueToAmountAndCurrency(" 1.5   USDC ")
	require.NoError(t, err)
	assert.Equal(t, "1.5", amount.String())
	assert.Equal(t, "USDC", currency)

	amount, currency, err = ValueToAmountAndCurrency("0.000000000000000001")
	require.NoError(t, err)
	assert.Equal(t, "0.000000000000000001", amount.String())
	assert.Empty(t, currency)

	_, _, err = ValueToAmountAndCurrency("abc eth")
	assert.Error(t, err)
	_, _, err = ValueToAmountAndCurrency("-1")
	assert.Error(t, err)
	_, _, err = ValueToAmountAndCurrency("  ")
	assert.Error(t, err)
}

func TestIsNativeCurrency(t *testing.T) {
	assert.True(t, IsNativeCurrency(networks.EthereumMainnet, ""))
	assert.True(t, IsNativeCurrency(networks.EthereumMainnet, "eth"))
	assert.False(t, IsNativeCurrency(networks.BSCMainnet, "eth"))
}

func TestCalculateTimeDurationFromBlock(t *testing.T) {
	assert.Equal(t, 36*time.Second, CalculateTimeDurationFromBlock(networks.EthereumMainnet, 10, 13))
	assert.Equal(t, time.Duration(0), CalculateTimeDurationFromBlock(networks.EthereumMainnet, 13, 10))
}

func TestParamToBigInt(t *testing.T) {
	v, err := ParamToBigInt("0x1f")
	require.NoError(t, err)
	assert.Equal(t, int64(31), v.Int64())
	v, err = ParamToBigInt(" 31 ")
	require.NoError(t, err)
	assert.Equal(t, int64(31), v.Int64())
	_, err = ParamToBigInt("thirty")
	assert.Error(t, err)
}

func TestScanForTxs(t *testing.T) {
	hash := "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	assert.Equal(t, []string{hash}, ScanForTxs("see "+hash+" on etherscan"))
	assert.Empty(t, ScanForTxs("nothing here"))
}

func TestNewGatewayMergesNodes(t *testing.T) {
	gw, err := NewGateway(networks.Sepolia, map[string]string{"local": "http://127.0.0.1:8545"}, nil)
	require.NoError(t, err)
	assert.Contains(t, gw.Nodes(), "local")
	assert.Contains(t, gw.Nodes(), "sepolia-publicnode")
	assert.Len(t, gw.GetNodes(), len(gw.Nodes()))

	var _ walletcommon.Gateway = gw
}
