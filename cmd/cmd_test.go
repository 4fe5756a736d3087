package cmd

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/ethwallet/auth"
	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/txbuilder"
	"github.com/tranvictor/ethwallet/ui"
	"github.com/tranvictor/ethwallet/util/reader"
)

// offlineGateway answers every call with a node error, so token metadata
// comes from the static table.
type offlineGateway struct{}

var errOffline = &walletcommon.RejectedError{Detail: "execution reverted"}

func (offlineGateway) GetGasPrice(context.Context) (*big.Int, error) { return nil, errOffline }
func (offlineGateway) EstimateGas(context.Context, walletcommon.CallRequest) (uint64, error) {
	return 0, errOffline
}
func (offlineGateway) GetBalance(context.Context, common.Address) (*big.Int, error) {
	return nil, errOffline
}
func (offlineGateway) GetBlock(context.Context, *big.Int, bool) (*walletcommon.Block, error) {
	return nil, errOffline
}
func (offlineGateway) GetTransactionReceipt(context.Context, common.Hash) (*walletcommon.Receipt, error) {
	return nil, errOffline
}
func (offlineGateway) CallContractMethod(context.Context, common.Address, *abi.ABI, string, ...interface{}) ([]byte, error) {
	return nil, errOffline
}
func (offlineGateway) SendRawTransaction(context.Context, []byte) (common.Hash, error) {
	return common.Hash{}, errOffline
}

const (
	testKeyHex = "0x4646464646464646464646464646464646464646464646464646464646464646"
	testSender = "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F"
	usdcAddr   = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
)

func useMainnet(t *testing.T) {
	t.Helper()
	previous := network
	network = networks.EthereumMainnet
	t.Cleanup(func() { network = previous })
}

func TestParsePrivateKey(t *testing.T) {
	key, err := parsePrivateKey(" " + testKeyHex[2:] + "\n")
	require.NoError(t, err)
	assert.Len(t, key, 32)

	_, err = parsePrivateKey("0x1234")
	assert.ErrorIs(t, err, walletcommon.ErrInvalidPrivateKey)
	_, err = parsePrivateKey("not hex")
	assert.ErrorIs(t, err, walletcommon.ErrInvalidPrivateKey)
}

func TestResolveCurrency(t *testing.T) {
	useMainnet(t)
	resolver := newResolver(offlineGateway{})
	ctx := context.Background()

	for _, currency := range []string{"eth", "", " ETH "} {
		native, err := resolveCurrency(ctx, resolver, network, currency)
		require.NoError(t, err)
		assert.Nil(t, native, currency)
	}

	usdc, err := resolveCurrency(ctx, resolver, network, "usdc")
	require.NoError(t, err)
	require.NotNil(t, usdc)
	assert.Equal(t, "USDC", usdc.Symbol)
	assert.Equal(t, uint8(6), usdc.Decimals)
	assert.Equal(t, usdcAddr, walletcommon.CanonicalAddress(usdc.Address))

	byAddress, err := resolveCurrency(ctx, resolver, network, usdcAddr)
	require.NoError(t, err)
	assert.Equal(t, "USDC", byAddress.Symbol)

	_, err = resolveCurrency(ctx, resolver, network, "definitely-not-a-token")
	assert.Error(t, err)
}

func TestTransferRequestTokenPrecision(t *testing.T) {
	useMainnet(t)
	from, _ := walletcommon.NormalizeAddress(testSender)
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")

	_, err := newTransferRequest(context.Background(), offlineGateway{}, from, to, "1.0000001 USDC")
	assert.ErrorIs(t, err, walletcommon.ErrPrecisionLoss)

	req, err := newTransferRequest(context.Background(), offlineGateway{}, from, to, "12.5 USDC")
	require.NoError(t, err)
	assert.Equal(t, "USDC", req.Currency)
	assert.Equal(t, int64(12500000), req.Amount.BaseUnits().Int64())
	assert.Equal(t, int64(0), req.callValue().Int64())
	assert.Equal(t, usdcAddr, walletcommon.CanonicalAddress(req.callTo()))
	assert.Len(t, req.callData(), 68)

	tx, err := req.build(3, walletcommon.GasEstimate{GasPrice: decimal.NewFromInt(20), GasLimit: 55000}, networks.ChainParams(network, nil))
	require.NoError(t, err)
	assert.Equal(t, req.callData(), tx.Data)
	assert.Equal(t, req.callTo(), tx.To)
}

func TestSignedCoinTransferRecoversSender(t *testing.T) {
	useMainnet(t)
	from, _ := walletcommon.NormalizeAddress(testSender)
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	req, err := newTransferRequest(context.Background(), offlineGateway{}, from, to, "1")
	require.NoError(t, err)
	assert.Nil(t, req.callData())
	assert.Equal(t, to, req.callTo())

	tx, err := req.build(9, walletcommon.GasEstimate{GasPrice: decimal.NewFromInt(20), GasLimit: 21000}, networks.ChainParams(network, nil))
	require.NoError(t, err)
	key, err := parsePrivateKey(testKeyHex)
	require.NoError(t, err)
	signed, err := txbuilder.SignAndSerialize(tx, key)
	require.NoError(t, err)

	signer, err := signerOf(signed)
	require.NoError(t, err)
	assert.Equal(t, from, signer)
}

func TestKeySessionLocksAfterUse(t *testing.T) {
	r := ui.NewRecordingUI(testKeyHex)
	s := newKeySession()
	assert.Equal(t, auth.LoggingIn, s.state.Login)
	assert.True(t, s.state.Locked)

	key, err := s.unlock(r, testSender)
	require.NoError(t, err)
	assert.Len(t, key, 32)
	assert.Equal(t, auth.LoggedIn, s.state.Login)
	assert.False(t, s.state.Locked)

	s.close()
	assert.True(t, s.state.Locked)
	assert.Equal(t, auth.LoggedOut, s.state.Login)
	assert.False(t, r.HasMessage(testKeyHex))
}

func TestKeySessionRejectsBadKey(t *testing.T) {
	s := newKeySession()
	_, err := s.unlock(ui.NewRecordingUI("0xbeef"), testSender)
	require.Error(t, err)
	assert.True(t, errors.Is(err, walletcommon.ErrInvalidPrivateKey))
	assert.Equal(t, auth.LoggedOut, s.state.Login)
	assert.Equal(t, walletcommon.ErrInvalidPrivateKey.Error(), s.state.Err)
}

func TestBlockParam(t *testing.T) {
	n, err := blockParam("from-block", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = blockParam("from-block", "0x10")
	require.NoError(t, err)
	assert.Equal(t, uint64(16), n)

	n, err = blockParam("to-block", " 19000000 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(19000000), n)

	for _, bad := range []string{"-1", "latest", "0x10000000000000000"} {
		_, err = blockParam("to-block", bad)
		assert.ErrorContains(t, err, "--to-block", bad)
	}
}

func TestTxHashesFrom(t *testing.T) {
	a := "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"
	b := "8fdc2ee2be6fd0b4bf5bd7fe8aa2cd3c64cc0ab95a1a7cc5ee3d8a2e2b3d9a10"
	hashes := txHashesFrom("https://etherscan.io/tx/" + a + " then " + b + " and again " + a)
	require.Len(t, hashes, 2)
	assert.Equal(t, common.HexToHash(a), hashes[0])
	assert.Equal(t, common.HexToHash(b), hashes[1])
	assert.Empty(t, txHashesFrom("nothing to see"))
}

func TestSignedTxRoundTripsThroughHex(t *testing.T) {
	useMainnet(t)
	from, _ := walletcommon.NormalizeAddress(testSender)
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	req, err := newTransferRequest(context.Background(), offlineGateway{}, from, to, "0.5")
	require.NoError(t, err)
	tx, err := req.build(1, walletcommon.GasEstimate{GasPrice: decimal.NewFromInt(20), GasLimit: 21000}, networks.ChainParams(network, nil))
	require.NoError(t, err)
	key, err := parsePrivateKey(testKeyHex)
	require.NoError(t, err)
	signed, err := txbuilder.SignAndSerialize(tx, key)
	require.NoError(t, err)

	decoded, err := walletcommon.DecodeSignedTransaction(signed.Hex())
	require.NoError(t, err)
	assert.Equal(t, signed.Hash, decoded.Hash)
	signer, err := signerOf(decoded)
	require.NoError(t, err)
	assert.Equal(t, from, signer)
}

type stubNode struct {
	reader.EthereumNode
	name    string
	chainID int64
	head    uint64
	err     error
}

func (n stubNode) NodeName() string { return n.name }
func (n stubNode) NodeURL() string { return "http://" + n.name }
func (n stubNode) ChainID(context.Context) (*big.Int, error) {
	if n.err != nil {
		return nil, n.err
	}
	return big.NewInt(n.chainID), nil
}
func (n stubNode) CurrentBlock(context.Context) (uint64, error) { return n.head, nil }

func TestCheckNodes(t *testing.T) {
	previous := u
	u = ui.NewRecordingUI()
	t.Cleanup(func() { u = previous })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	rows, failed := checkNodes(ctx, map[string]reader.EthereumNode{
		"good": stubNode{name: "good", chainID: 1, head: 100},
		"bsc":  stubNode{name: "bsc", chainID: 56},
		"down": stubNode{name: "down", err: errors.New("connection refused")},
	}, 1)

	assert.Equal(t, 2, failed)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"bsc", "http://bsc", "", "wrong chain 56"}, rows[0])
	assert.Equal(t, []string{"down", "http://down", "", "connection refused"}, rows[1])
	assert.Equal(t, []string{"good", "http://good", "100", "ok"}, rows[2])
}
