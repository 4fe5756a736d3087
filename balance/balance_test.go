package balance

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const (
	account = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	usdt    = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
)

type fakeGateway struct {
	walletcommon.Gateway

	balance *big.Int
	call    []byte
	err     error
	args    []interface{}
}

func (f *fakeGateway) GetBalance(context.Context, common.Address) (*big.Int, error) {
	return f.balance, f.err
}

func (f *fakeGateway) CallContractMethod(_ context.Context, _ common.Address, _ *abi.ABI, _ string, args ...interface{}) ([]byte, error) {
	f.args = args
	return f.call, f.err
}

func TestNativeBalance(t *testing.T) {
	q := NewQuery(&fakeGateway{balance: big.NewInt(2_000_000_000_000_000_000)}, 18)
	amount, err := q.Native(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "2", amount.String())

	_, err = q.Native(context.Background(), "not an address")
	assert.ErrorIs(t, err, walletcommon.ErrInvalidAddress)
}

func TestTokenBalance(t *testing.T) {
	data, err := walletcommon.GetERC20ABI().Methods["balanceOf"].Outputs.Pack(big.NewInt(1_234_500))
	require.NoError(t, err)
	gw := &fakeGateway{call: data}

	amount, err := NewQuery(gw, 18).Token(context.Background(), usdt, 6, account)
	require.NoError(t, err)
	assert.Equal(t, "1.2345", amount.String())
	assert.Equal(t, []interface{}{common.HexToAddress(account)}, gw.args)
}

func TestTokenBalanceEmptyResultIsZero(t *testing.T) {
	amount, err := NewQuery(&fakeGateway{}, 18).Token(context.Background(), usdt, 6, account)
	require.NoError(t, err)
	assert.True(t, amount.IsZero())
	assert.Equal(t, int32(6), amount.Decimals)
}

func TestBalanceGatewayUnavailable(t *testing.T) {
	gw := &fakeGateway{err: fmt.Errorf("%w: refused", walletcommon.ErrGatewayUnavailable)}
	_, err := NewQuery(gw, 18).Native(context.Background(), account)
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
	_, err = NewQuery(gw, 18).Token(context.Background(), usdt, 6, account)
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
}

func TestTokenBalanceInvalidDecimals(t *testing.T) {
	_, err := NewQuery(&fakeGateway{}, 18).Token(context.Background(), usdt, 40, account)
	assert.ErrorIs(t, err, walletcommon.ErrInvalidDecimals)
}
