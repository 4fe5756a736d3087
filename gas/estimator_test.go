package gas

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type fakeGateway struct {
	walletcommon.Gateway

	price    *big.Int
	priceErr error
	limit    uint64
	limitErr error

	lastCall walletcommon.CallRequest
}

func (f *fakeGateway) GetGasPrice(context.Context) (*big.Int, error) {
	return f.price, f.priceErr
}

func (f *fakeGateway) EstimateGas(_ context.Context, msg walletcommon.CallRequest) (uint64, error) {
	f.lastCall = msg
	return f.limit, f.limitErr
}

var unavailable = fmt.Errorf("%w: dial tcp: connection refused", walletcommon.ErrGatewayUnavailable)

func TestEstimateUsesNodeValues(t *testing.T) {
	gw := &fakeGateway{price: big.NewInt(30_000_000_000), limit: 23000}
	to := common.HexToAddress("0x3535353535353535353535353535353535353535")
	est, err := NewEstimator(gw).Estimate(context.Background(), Skeleton{To: to, Value: big.NewInt(1)})
	require.NoError(t, err)
	assert.True(t, est.GasPrice.Equal(decimal.NewFromInt(30)))
	assert.Equal(t, uint64(23000), est.GasLimit)
	require.NotNil(t, gw.lastCall.To)
	assert.Equal(t, to, *gw.lastCall.To)
}

func TestEstimateKeepsSubGweiPrice(t *testing.T) {
	gw := &fakeGateway{price: big.NewInt(10_000_000), limit: 21000}
	est, err := NewEstimator(gw).Estimate(context.Background(), Skeleton{})
	require.NoError(t, err)
	assert.Equal(t, "0.01", est.GasPrice.String())
	assert.Equal(t, int64(10_000_000), est.GasPriceWei().Int64())
}

func TestEstimateFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		gw        *fakeGateway
		isToken   bool
		wantLimit uint64
	}{
		{"nothing returned coin", &fakeGateway{}, false, 21000},
		{"nothing returned token", &fakeGateway{}, true, 55000},
		{
			"node errors token",
			&fakeGateway{
				priceErr: &walletcommon.RejectedError{Detail: "method not found"},
				limitErr: &walletcommon.RejectedError{Detail: "execution reverted"},
			},
			true,
			55000,
		},
		{"zero price coin", &fakeGateway{price: big.NewInt(0)}, false, 21000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			est, err := NewEstimator(tc.gw).Estimate(context.Background(), Skeleton{IsToken: tc.isToken})
			require.NoError(t, err)
			assert.True(t, est.GasPrice.Equal(decimal.NewFromInt(21)), "price %s", est.GasPrice)
			assert.Equal(t, tc.wantLimit, est.GasLimit)
		})
	}
}

func TestEstimateCustomFallbacks(t *testing.T) {
	e := NewEstimator(&fakeGateway{}, WithFallbacks(Fallbacks{
		PriceGwei:  decimal.RequireFromString("0.1"),
		TokenLimit: 90000,
		CoinLimit:  30000,
	}))
	est, err := e.Estimate(context.Background(), Skeleton{IsToken: true})
	require.NoError(t, err)
	assert.Equal(t, "0.1", est.GasPrice.String())
	assert.Equal(t, uint64(90000), est.GasLimit)
}

func TestEstimateGatewayUnavailable(t *testing.T) {
	_, err := NewEstimator(&fakeGateway{priceErr: unavailable}).Estimate(context.Background(), Skeleton{})
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)

	_, err = NewEstimator(&fakeGateway{price: big.NewInt(1), limitErr: unavailable}).
		Estimate(context.Background(), Skeleton{})
	assert.ErrorIs(t, err, walletcommon.ErrGatewayUnavailable)
}
