package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const (
	StatusDone     = "done"
	StatusReverted = "reverted"
	StatusLost     = "lost"
	// StatusAborted is reported when the context ends before the tx settles.
	StatusAborted = "aborted"
)

type TxInfo struct {
	Hash    common.Hash
	Status  string
	Receipt *walletcommon.Receipt
}

type ReceiptReader interface {
	GetTransactionReceipt(ctx context.Context, hash common.Hash) (*walletcommon.Receipt, error)
}

// TxMonitor polls receipts until a tx is mined, or declares it lost when no
// receipt shows up in time.
type TxMonitor struct {
	reader    ReceiptReader
	interval  time.Duration
	lostAfter time.Duration
	logger    *zap.Logger
}

func NewGenericTxMonitor(r ReceiptReader, interval, lostAfter time.Duration, logger *zap.Logger) *TxMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if lostAfter <= 0 {
		lostAfter = 3 * time.Minute
	}
	return &TxMonitor{
		reader:    r,
		interval:  interval,
		lostAfter: lostAfter,
		logger:    logger,
	}
}

func (tm *TxMonitor) periodicCheck(ctx context.Context, hash common.Hash, info chan<- TxInfo) {
	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()
	startTime := time.Now()
	for {
		var t time.Time
		select {
		case <-ctx.Done():
			info <- TxInfo{Hash: hash, Status: StatusAborted}
			return
		case t = <-ticker.C:
		}
		receipt, err := tm.reader.GetTransactionReceipt(ctx, hash)
		if err != nil {
			tm.logger.Debug("couldn't get receipt", zap.String("tx", hash.Hex()), zap.Error(err))
			continue
		}
		if receipt == nil {
			if t.Sub(startTime) > tm.lostAfter {
				info <- TxInfo{Hash: hash, Status: StatusLost}
				return
			}
			continue
		}
		status := StatusDone
		if receipt.Status == 0 {
			status = StatusReverted
		}
		info <- TxInfo{Hash: hash, Status: status, Receipt: receipt}
		return
	}
}

func (tm *TxMonitor) MakeWaitChannel(ctx context.Context, hash common.Hash) <-chan TxInfo {
	result := make(chan TxInfo, 1)
	go tm.periodicCheck(ctx, hash, result)
	return result
}

func (tm *TxMonitor) BlockingWait(ctx context.Context, hash common.Hash) TxInfo {
	return <-tm.MakeWaitChannel(ctx, hash)
}

func (tm *TxMonitor) BlockingWaitForMultipleTxs(ctx context.Context, hashes ...common.Hash) map[common.Hash]TxInfo {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = make(map[common.Hash]TxInfo, len(hashes))
	)
	for _, hash := range hashes {
		ch := tm.MakeWaitChannel(ctx, hash)
		wg.Add(1)
		go func() {
			defer wg.Done()
			info := <-ch
			mu.Lock()
			result[info.Hash] = info
			mu.Unlock()
		}()
	}
	wg.Wait()
	return result
}
