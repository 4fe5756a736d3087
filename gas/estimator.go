// Package gas proposes a gas price and gas limit for a transfer. A node that
// can't give a usable answer is replaced by fixed fallbacks so that a
// transfer can always be prepared.
package gas

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const (
	DefaultFallbackTokenLimit uint64 = 55000
	DefaultFallbackCoinLimit  uint64 = 21000
)

var DefaultFallbackPrice = decimal.NewFromInt(21)

// Skeleton is the transfer the estimate is for.
type Skeleton struct {
	From    common.Address
	To      common.Address
	Value   *big.Int
	Data    []byte
	IsToken bool
}

type Fallbacks struct {
	// PriceGwei is used when the node has no gas price.
	PriceGwei  decimal.Decimal
	TokenLimit uint64
	CoinLimit  uint64
}

func DefaultFallbacks() Fallbacks {
	return Fallbacks{
		PriceGwei:  DefaultFallbackPrice,
		TokenLimit: DefaultFallbackTokenLimit,
		CoinLimit:  DefaultFallbackCoinLimit,
	}
}

type Estimator struct {
	gateway   walletcommon.Gateway
	fallbacks Fallbacks
	logger    *zap.Logger
}

type Option func(*Estimator)

func WithFallbacks(f Fallbacks) Option {
	return func(e *Estimator) {
		e.fallbacks = f
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Estimator) {
		e.logger = logger
	}
}

func NewEstimator(gateway walletcommon.Gateway, opts ...Option) *Estimator {
	e := &Estimator{
		gateway:   gateway,
		fallbacks: DefaultFallbacks(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate asks the gateway for the gas price and then for the gas limit of
// s. Each value falls back independently. The only error is
// ErrGatewayUnavailable, when the gateway couldn't be reached at all.
func (e *Estimator) Estimate(ctx context.Context, s Skeleton) (walletcommon.GasEstimate, error) {
	price, err := e.gasPrice(ctx)
	if err != nil {
		return walletcommon.GasEstimate{}, err
	}
	limit, err := e.gasLimit(ctx, s)
	if err != nil {
		return walletcommon.GasEstimate{}, err
	}
	return walletcommon.GasEstimate{
		GasPrice: price,
		GasLimit: limit,
	}, nil
}

func (e *Estimator) gasPrice(ctx context.Context) (decimal.Decimal, error) {
	wei, err := e.gateway.GetGasPrice(ctx)
	if errors.Is(err, walletcommon.ErrGatewayUnavailable) {
		return decimal.Zero, err
	}
	if err != nil || wei == nil || wei.Sign() <= 0 {
		e.logger.Debug("using fallback gas price",
			zap.String("gwei", e.fallbacks.PriceGwei.String()),
			zap.Error(err),
		)
		return e.fallbacks.PriceGwei, nil
	}
	return walletcommon.WeiToGwei(wei), nil
}

func (e *Estimator) fallbackLimit(isToken bool) uint64 {
	if isToken {
		return e.fallbacks.TokenLimit
	}
	return e.fallbacks.CoinLimit
}

func (e *Estimator) gasLimit(ctx context.Context, s Skeleton) (uint64, error) {
	to := s.To
	limit, err := e.gateway.EstimateGas(ctx, walletcommon.CallRequest{
		From:  s.From,
		To:    &to,
		Value: s.Value,
		Data:  s.Data,
	})
	if errors.Is(err, walletcommon.ErrGatewayUnavailable) {
		return 0, err
	}
	if err != nil || limit == 0 {
		fallback := e.fallbackLimit(s.IsToken)
		e.logger.Debug("using fallback gas limit",
			zap.Uint64("gas", fallback),
			zap.Bool("token", s.IsToken),
			zap.Error(err),
		)
		return fallback, nil
	}
	return limit, nil
}
