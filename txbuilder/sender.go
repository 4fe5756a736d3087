package txbuilder

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

type TxStatus int

const (
	StatusPending TxStatus = iota
	StatusSuccess
	StatusFailed
)

func (s TxStatus) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Sender submits signed transactions through a gateway and follows them.
type Sender struct {
	gateway walletcommon.Gateway
	logger  *zap.Logger
}

func NewSender(gateway walletcommon.Gateway, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{gateway: gateway, logger: logger}
}

// Broadcast hands tx to the gateway. On acceptance it returns true and the
// tx hash. When the network refuses the tx (bad nonce, insufficient funds
// and the like) it returns false and the node's reason, with a nil error:
// err is only set when the gateway itself failed.
func (s *Sender) Broadcast(ctx context.Context, tx walletcommon.SignedTransaction) (bool, string, error) {
	hash, err := s.gateway.SendRawTransaction(ctx, tx.Raw)
	if err == nil {
		s.logger.Info("tx broadcasted", zap.String("tx", hash.Hex()))
		return true, hash.Hex(), nil
	}
	if detail, rejected := walletcommon.IsRejected(err); rejected {
		s.logger.Info("tx rejected",
			zap.String("tx", tx.Hash.Hex()),
			zap.String("reason", detail),
		)
		return false, detail, nil
	}
	if errors.Is(err, walletcommon.ErrGatewayUnavailable) {
		return false, "", err
	}
	return false, "", fmt.Errorf("couldn't broadcast %s: %w", tx.Hash.Hex(), err)
}

// ReceiptStatus reports whether hash is mined and if so whether it
// succeeded. A tx without receipt is pending.
func (s *Sender) ReceiptStatus(ctx context.Context, hash common.Hash) (TxStatus, error) {
	receipt, err := s.gateway.GetTransactionReceipt(ctx, hash)
	if err != nil {
		return StatusPending, err
	}
	if receipt == nil {
		return StatusPending, nil
	}
	if receipt.Status == 0 {
		return StatusFailed, nil
	}
	return StatusSuccess, nil
}
