package broadcaster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const TIMEOUT = 4 * time.Second

// RPCClient is the part of *rpc.Client the broadcaster uses.
type RPCClient interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Broadcaster takes a signed tx and tries to broadcast it to all nodes that
// it manages as fast as possible. The tx counts as sent when at least one
// node accepted it.
type Broadcaster struct {
	clients map[string]RPCClient
	logger  *zap.Logger
}

func NewGenericBroadcaster(nodes map[string]string, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	clients := map[string]RPCClient{}
	for name, url := range nodes {
		client, err := rpc.Dial(url)
		if err != nil {
			logger.Warn("couldn't connect to node", zap.String("node", name), zap.Error(err))
			continue
		}
		clients[name] = client
	}
	return NewBroadcasterWithClients(clients, logger)
}

func NewBroadcasterWithClients(clients map[string]RPCClient, logger *zap.Logger) *Broadcaster {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Broadcaster{
		clients: clients,
		logger:  logger,
	}
}

func (b *Broadcaster) GetNodes() map[string]RPCClient {
	return b.clients
}

// SendRawTransaction submits raw to every node. The returned hash is
// computed locally from raw. When every node failed, the error is a
// *RejectedError if any node answered with a JSON-RPC error and wraps
// ErrGatewayUnavailable otherwise.
func (b *Broadcaster) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	if len(b.clients) == 0 {
		return common.Hash{}, fmt.Errorf("%w: no nodes to broadcast to", walletcommon.ErrGatewayUnavailable)
	}
	data := hexutil.Encode(raw)
	hash := crypto.Keccak256Hash(raw)

	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	tasks := []func() error{}
	for name := range b.clients {
		name := name
		cli := b.clients[name]
		tasks = append(tasks, func() error {
			if err := cli.CallContext(timeout, nil, "eth_sendRawTransaction", data); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	numErrs, err := walletcommon.RunParallel(tasks...)
	if numErrs < len(b.clients) {
		if err != nil {
			b.logger.Debug("some nodes refused the tx",
				zap.String("tx", hash.Hex()),
				zap.Error(err),
			)
		}
		return hash, nil
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return hash, &walletcommon.RejectedError{Detail: rpcErr.Error()}
	}
	return hash, fmt.Errorf("%w: couldn't broadcast to any nodes: %w", walletcommon.ErrGatewayUnavailable, err)
}
