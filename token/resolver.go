// Package token resolves ERC20 token metadata. Resolution never fails for
// reasons outside the caller's control: a token nobody knows anything about
// still gets a record, with empty metadata, so its balance can be tracked.
package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

var errEmptyResult = errors.New("empty result")

type Resolver struct {
	gateway walletcommon.Gateway
	chainID uint64
	table   *Table
	now     func() time.Time
	logger  *zap.Logger
}

type Option func(*Resolver)

func WithTable(table *Table) Option {
	return func(r *Resolver) {
		r.table = table
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(gateway walletcommon.Gateway, chainID uint64, opts ...Option) *Resolver {
	r := &Resolver{
		gateway: gateway,
		chainID: chainID,
		table:   DefaultTable(),
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve builds the token record of tokenAddress. The only error is
// ErrInvalidAddress.
func (r *Resolver) Resolve(ctx context.Context, tokenAddress string, hints Hints) (walletcommon.TokenRecord, error) {
	addr, err := walletcommon.NormalizeAddress(tokenAddress)
	if err != nil {
		return walletcommon.TokenRecord{}, err
	}

	chain := r.readOnChain(ctx, addr)
	var entry *TableEntry
	if !chain.complete {
		if e, found := r.table.Lookup(r.chainID, addr); found {
			entry = &e
		}
	}
	meta := merge(chain, entry, hints)

	return walletcommon.TokenRecord{
		Address:         addr,
		Name:            meta.name,
		Symbol:          meta.symbol,
		Decimals:        meta.decimals,
		CreatedAt:       r.now(),
		RecentTransfers: []walletcommon.TransferRecord{},
	}, nil
}

// readOnChain reads decimals, symbol and name one after the other and stops
// at the first one that fails.
func (r *Resolver) readOnChain(ctx context.Context, addr common.Address) onChain {
	result := onChain{}
	log := r.logger.With(zap.String("token", addr.Hex()))

	decimals, err := r.readDecimals(ctx, addr)
	if err != nil {
		log.Debug("couldn't read token decimals", zap.Error(err))
		return result
	}
	result.decimals = decimals

	symbol, err := r.readString(ctx, addr, "symbol")
	if err != nil {
		log.Debug("couldn't read token symbol", zap.Error(err))
		return result
	}
	result.symbol = symbol

	name, err := r.readString(ctx, addr, "name")
	if err != nil {
		log.Debug("couldn't read token name", zap.Error(err))
		return result
	}
	result.name = name
	result.complete = true
	return result
}

func (r *Resolver) call(ctx context.Context, addr common.Address, method string) ([]interface{}, error) {
	erc20 := walletcommon.GetERC20ABI()
	data, err := r.gateway.CallContractMethod(ctx, addr, erc20, method)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errEmptyResult
	}
	out, err := erc20.Unpack(method, data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, errEmptyResult
	}
	return out, nil
}

func (r *Resolver) readDecimals(ctx context.Context, addr common.Address) (uint8, error) {
	out, err := r.call(ctx, addr, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals has unexpected type %T", out[0])
	}
	if int(decimals) > walletcommon.MaxDecimals {
		return 0, fmt.Errorf("%w: %d", walletcommon.ErrInvalidDecimals, decimals)
	}
	return decimals, nil
}

func (r *Resolver) readString(ctx context.Context, addr common.Address, method string) (string, error) {
	out, err := r.call(ctx, addr, method)
	if err != nil {
		return "", err
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s has unexpected type %T", method, out[0])
	}
	if s == "" {
		return "", errEmptyResult
	}
	return s, nil
}
