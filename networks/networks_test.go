package networks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNetworkByNameAndAlias(t *testing.T) {
	n, err := GetNetwork("mainnet")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n.GetChainID())

	alias, err := GetNetwork("matic")
	require.NoError(t, err)
	assert.Equal(t, "polygon", alias.GetName())

	_, err = GetNetwork("nope")
	assert.ErrorIs(t, err, ErrNetworkNotFound)

	byID, err := GetNetworkByID(8453)
	require.NoError(t, err)
	assert.Equal(t, "base", byID.GetName())
}

func TestNodesIncludesEnvOverride(t *testing.T) {
	t.Setenv("ETHEREUM_SEPOLIA_NODE", " http://localhost:8545 ")
	nodes := Nodes(Sepolia)
	assert.Equal(t, "http://localhost:8545", nodes["custom-node"])
	assert.Contains(t, nodes, "sepolia-publicnode")
	assert.NotContains(t, Sepolia.GetDefaultNodes(), "custom-node")
}

func TestChainParams(t *testing.T) {
	p := ChainParams(EthereumMainnet, nil)
	assert.Equal(t, int64(1), p.ChainID.Int64())
	assert.False(t, p.DynamicFee)

	p = ChainParams(ArbitrumMainnet, nil)
	assert.True(t, p.DynamicFee)
}

func TestCustomNetworksRoundTripThroughDir(t *testing.T) {
	dir := t.TempDir()
	custom := NewGenericNetwork(GenericNetworkConfig{
		Name:               "devnet",
		ChainID:            1337,
		NativeTokenSymbol:  "DEV",
		NativeTokenDecimal: 18,
		DefaultNodes:       map[string]string{"local": "http://127.0.0.1:8545"},
	})
	require.NoError(t, AddNetwork(custom, dir))
	require.FileExists(t, filepath.Join(dir, "devnet.json"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	loaded, err := LoadCustomNetworks(dir)
	assert.Error(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, uint64(1337), loaded[0].GetChainID())

	got, err := GetNetwork("devnet")
	require.NoError(t, err)
	assert.Equal(t, "DEV", got.GetNativeTokenSymbol())
}
