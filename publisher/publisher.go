// Package publisher forwards transfers found by the history syncer to other
// systems.
package publisher

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/config"
)

type Publisher interface {
	Publish(ctx context.Context, account common.Address, records []walletcommon.TransferRecord) error
	Close() error
}

// Nop drops everything. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, common.Address, []walletcommon.TransferRecord) error {
	return nil
}

func (Nop) Close() error {
	return nil
}

// New returns a kafka publisher when kafka is enabled in cfg and Nop
// otherwise.
func New(cfg config.KafkaConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(cfg, logger)
}
