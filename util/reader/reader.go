package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

// EthReader sends every read to all of its nodes at once and returns the
// first successful answer.
type EthReader struct {
	nodes  map[string]EthereumNode
	logger *zap.Logger
}

func NewEthReaderGeneric(nodes map[string]string, logger *zap.Logger) *EthReader {
	ns := make([]EthereumNode, 0, len(nodes))
	for name, url := range nodes {
		ns = append(ns, NewOneNodeReader(name, url))
	}
	return NewEthReaderWithNodes(logger, ns...)
}

func NewEthReaderWithNodes(logger *zap.Logger, nodes ...EthereumNode) *EthReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	ns := map[string]EthereumNode{}
	for _, n := range nodes {
		ns[n.NodeName()] = n
	}
	return &EthReader{
		nodes:  ns,
		logger: logger,
	}
}

func (er *EthReader) Nodes() map[string]EthereumNode {
	return er.nodes
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type readResult[T any] struct {
	Value T
	Error error
}

// readFromAnyNode runs read against every node concurrently. It returns the
// first success, otherwise the failures classified by classifyNodeErrors.
func readFromAnyNode[T any](
	ctx context.Context,
	er *EthReader,
	method string,
	read func(context.Context, EthereumNode) (T, error),
) (T, error) {
	var zero T
	if len(er.nodes) == 0 {
		return zero, fmt.Errorf("%w: no nodes configured", walletcommon.ErrGatewayUnavailable)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resCh := make(chan readResult[T], len(er.nodes))
	for i := range er.nodes {
		n := er.nodes[i]
		go func() {
			value, err := read(ctx, n)
			resCh <- readResult[T]{
				Value: value,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(er.nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		er.logger.Debug("node read failed",
			zap.String("method", method),
			zap.Error(result.Error),
		)
		errs = append(errs, result.Error)
	}
	return zero, classifyNodeErrors(errs)
}

// classifyNodeErrors turns a JSON-RPC error reported by any node into a
// RejectedError. Everything else means no node could be talked to.
func classifyNodeErrors(errs []error) error {
	for _, err := range errs {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			return &walletcommon.RejectedError{Detail: rpcErr.Error()}
		}
	}
	return fmt.Errorf(
		"%w: couldn't read from any nodes: %w",
		walletcommon.ErrGatewayUnavailable,
		errors.Join(errs...),
	)
}

func (er *EthReader) GetGasPrice(ctx context.Context) (*big.Int, error) {
	return readFromAnyNode(ctx, er, "gasPrice", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestedGasPrice(ctx)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg walletcommon.CallRequest) (uint64, error) {
	return readFromAnyNode(ctx, er, "estimateGas", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) GetBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return readFromAnyNode(ctx, er, "getBalance", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.GetBalance(ctx, account)
	})
}

func (er *EthReader) GetPendingNonce(ctx context.Context, account common.Address) (uint64, error) {
	return readFromAnyNode(ctx, er, "getTransactionCount", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.GetPendingNonce(ctx, account)
	})
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return readFromAnyNode(ctx, er, "chainId", func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) CurrentBlock(ctx context.Context) (uint64, error) {
	return readFromAnyNode(ctx, er, "blockNumber", func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.CurrentBlock(ctx)
	})
}

func (er *EthReader) GetBlock(ctx context.Context, number *big.Int, includeTransactions bool) (*walletcommon.Block, error) {
	return readFromAnyNode(ctx, er, "getBlockByNumber", func(ctx context.Context, n EthereumNode) (*walletcommon.Block, error) {
		return n.BlockByNumber(ctx, number, includeTransactions)
	})
}

func (er *EthReader) GetTransactionReceipt(ctx context.Context, hash common.Hash) (*walletcommon.Receipt, error) {
	return readFromAnyNode(ctx, er, "getTransactionReceipt", func(ctx context.Context, n EthereumNode) (*walletcommon.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}

func (er *EthReader) CallContractMethod(
	ctx context.Context,
	contract common.Address,
	abi *abi.ABI,
	method string,
	args ...interface{},
) ([]byte, error) {
	return readFromAnyNode(ctx, er, "call", func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.ReadContractToBytes(ctx, contract, abi, method, args...)
	})
}
