package common

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Gateway is everything the wallet core needs from a blockchain node.
//
// Implementations wrap transport failures (timeouts, refused connections,
// no node reachable) with ErrGatewayUnavailable, and return a *RejectedError
// when a node answered with an error of its own.
type Gateway interface {
	GetGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg CallRequest) (uint64, error)
	GetBalance(ctx context.Context, account ethcommon.Address) (*big.Int, error)
	// GetBlock returns nil, nil when the node doesn't know the block yet.
	// A nil number means the latest block.
	GetBlock(ctx context.Context, number *big.Int, includeTransactions bool) (*Block, error)
	// GetTransactionReceipt returns nil, nil while the tx is pending.
	GetTransactionReceipt(ctx context.Context, hash ethcommon.Hash) (*Receipt, error)
	CallContractMethod(
		ctx context.Context,
		contract ethcommon.Address,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	SendRawTransaction(ctx context.Context, raw []byte) (ethcommon.Hash, error)
}
