// Package balance reads native and ERC20 balances in display units.
package balance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type Query struct {
	gateway        walletcommon.Gateway
	nativeDecimals int
}

func NewQuery(gateway walletcommon.Gateway, nativeDecimals int) *Query {
	return &Query{
		gateway:        gateway,
		nativeDecimals: nativeDecimals,
	}
}

// Native returns the coin balance of account.
func (q *Query) Native(ctx context.Context, account string) (walletcommon.Amount, error) {
	addr, err := walletcommon.NormalizeAddress(account)
	if err != nil {
		return walletcommon.Amount{}, err
	}
	wei, err := q.gateway.GetBalance(ctx, addr)
	if err != nil {
		return walletcommon.Amount{}, fmt.Errorf("couldn't get balance of %s: %w", addr.Hex(), err)
	}
	return walletcommon.ToDisplayUnits(wei, q.nativeDecimals)
}

// Token returns the balance of account in token, which has decimals
// decimals. A contract answering nothing, as non contract addresses do,
// counts as a zero balance.
func (q *Query) Token(ctx context.Context, token string, decimals int, account string) (walletcommon.Amount, error) {
	tokenAddr, err := walletcommon.NormalizeAddress(token)
	if err != nil {
		return walletcommon.Amount{}, fmt.Errorf("token: %w", err)
	}
	addr, err := walletcommon.NormalizeAddress(account)
	if err != nil {
		return walletcommon.Amount{}, err
	}
	raw, err := q.tokenBalance(ctx, tokenAddr, addr)
	if err != nil {
		return walletcommon.Amount{}, err
	}
	return walletcommon.ToDisplayUnits(raw, decimals)
}

func (q *Query) tokenBalance(ctx context.Context, token, account common.Address) (*big.Int, error) {
	erc20 := walletcommon.GetERC20ABI()
	data, err := q.gateway.CallContractMethod(ctx, token, erc20, "balanceOf", account)
	if err != nil {
		return nil, fmt.Errorf("couldn't get %s balance of %s: %w", token.Hex(), account.Hex(), err)
	}
	if len(data) == 0 {
		return big.NewInt(0), nil
	}
	out, err := erc20.Unpack("balanceOf", data)
	if err != nil {
		return nil, fmt.Errorf("couldn't decode balanceOf: %w", err)
	}
	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("balanceOf has unexpected type %T", out[0])
	}
	return balance, nil
}
