package reader

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type EthereumNode interface {
	NodeName() string
	NodeURL() string
	EstimateGas(ctx context.Context, msg walletcommon.CallRequest) (gas uint64, err error)
	GetBalance(ctx context.Context, account common.Address) (balance *big.Int, err error)
	GetPendingNonce(ctx context.Context, account common.Address) (nonce uint64, err error)
	TransactionReceipt(ctx context.Context, hash common.Hash) (*walletcommon.Receipt, error)
	SuggestedGasPrice(ctx context.Context) (*big.Int, error)
	ReadContractToBytes(
		ctx context.Context,
		contract common.Address,
		abi *abi.ABI,
		method string,
		args ...interface{},
	) ([]byte, error)
	BlockByNumber(ctx context.Context, number *big.Int, full bool) (*walletcommon.Block, error)
	CurrentBlock(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
}
