package history

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

// Store keeps found transfers and how far an account has been synced.
// token is nil for native coin history.
type Store interface {
	Cursor(account common.Address, token *common.Address) (uint64, bool, error)
	SetCursor(account common.Address, token *common.Address, block uint64) error
	SaveTransfers(account common.Address, records []walletcommon.TransferRecord) error
}

// Publisher forwards new transfers to whoever else is interested.
type Publisher interface {
	Publish(ctx context.Context, account common.Address, records []walletcommon.TransferRecord) error
}

type SyncConfig struct {
	Account       common.Address
	Filter        *TokenFilter
	StartBlock    uint64
	BatchSize     uint64
	Confirmations uint64
	PollInterval  time.Duration
}

// Syncer follows the chain head and keeps the history of one account up to
// date. Blocks are only scanned once they have Confirmations blocks on top.
type Syncer struct {
	gateway   walletcommon.Gateway
	scanner   *Scanner
	store     Store
	publisher Publisher
	config    SyncConfig
	logger    *zap.Logger
}

func NewSyncer(
	gateway walletcommon.Gateway,
	scanner *Scanner,
	store Store,
	publisher Publisher,
	config SyncConfig,
	logger *zap.Logger,
) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.BatchSize == 0 {
		config.BatchSize = 1
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 15 * time.Second
	}
	return &Syncer{
		gateway:   gateway,
		scanner:   scanner,
		store:     store,
		publisher: publisher,
		config:    config,
		logger:    logger.With(zap.String("account", config.Account.Hex())),
	}
}

func (s *Syncer) token() *common.Address {
	if s.config.Filter == nil {
		return nil
	}
	token := s.config.Filter.Address
	return &token
}

// SyncOnce scans at most one batch of confirmed blocks after the cursor.
// It returns the number of new transfers.
func (s *Syncer) SyncOnce(ctx context.Context) (int, error) {
	n, _, err := s.syncOnce(ctx)
	return n, err
}

func (s *Syncer) syncOnce(ctx context.Context) (int, bool, error) {
	head, err := s.gateway.GetBlock(ctx, nil, false)
	if err != nil {
		return 0, false, err
	}
	if head == nil || head.Number < s.config.Confirmations {
		return 0, false, nil
	}
	safe := head.Number - s.config.Confirmations

	cursor, found, err := s.store.Cursor(s.config.Account, s.token())
	if err != nil {
		return 0, false, err
	}
	next := s.config.StartBlock
	if found {
		next = cursor + 1
	}
	if next > safe {
		return 0, false, nil
	}
	last := next + s.config.BatchSize - 1
	if last > safe {
		last = safe
	}

	records := []walletcommon.TransferRecord{}
	scanned := false
	var lastScanned uint64
	for n := next; n <= last; n++ {
		block, err := s.gateway.GetBlock(ctx, new(big.Int).SetUint64(n), true)
		if err != nil {
			return 0, false, err
		}
		if block == nil {
			s.logger.Debug("block not available yet", zap.Uint64("block", n))
			break
		}
		blockRecords := s.scanner.ScanBlock(block, s.config.Account, s.config.Filter)
		records = append(blockRecords, records...)
		scanned = true
		lastScanned = n
	}
	if !scanned {
		return 0, false, nil
	}

	if len(records) > 0 {
		if err := s.store.SaveTransfers(s.config.Account, records); err != nil {
			return 0, false, err
		}
		if err := s.publisher.Publish(ctx, s.config.Account, records); err != nil {
			return 0, false, err
		}
	}
	if err := s.store.SetCursor(s.config.Account, s.token(), lastScanned); err != nil {
		return 0, false, err
	}
	s.logger.Debug("synced blocks",
		zap.Uint64("from", next),
		zap.Uint64("to", lastScanned),
		zap.Int("transfers", len(records)),
	)
	return len(records), true, nil
}

// Run syncs until ctx is done. Batches are pulled back to back while the
// account is behind, otherwise once per PollInterval. Failed rounds are
// logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()
	for {
		n, advanced, err := s.syncOnce(ctx)
		if err != nil {
			s.logger.Warn("sync round failed", zap.Error(err))
		} else if n > 0 {
			s.logger.Info("found new transfers", zap.Int("count", n))
		}
		if advanced && s.behind(ctx) {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Syncer) behind(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	head, err := s.gateway.GetBlock(ctx, nil, false)
	if err != nil || head == nil || head.Number < s.config.Confirmations {
		return false
	}
	cursor, found, err := s.store.Cursor(s.config.Account, s.token())
	if err != nil || !found {
		return false
	}
	return cursor < head.Number-s.config.Confirmations
}
