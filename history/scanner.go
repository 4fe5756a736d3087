// Package history rebuilds the transfers of a watched account from block
// data.
package history

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const defaultTokenDecimals = 18

// TokenFilter restricts a scan to transfers of one ERC20 token. Decimals
// defaults to 18 when nil.
type TokenFilter struct {
	Address  common.Address
	Decimals *uint8
}

func (f *TokenFilter) decimals() int {
	if f.Decimals == nil {
		return defaultTokenDecimals
	}
	return int(*f.Decimals)
}

type Scanner struct {
	nativeDecimals int
	logger         *zap.Logger
}

func NewScanner(nativeDecimals int, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		nativeDecimals: nativeDecimals,
		logger:         logger,
	}
}

// ScanBlock returns the transfers in block that concern watched, the last
// transaction of the block first. With a nil filter native coin transfers
// are reported, otherwise transfers of the filtered token. A nil block
// yields no records.
func (s *Scanner) ScanBlock(block *walletcommon.Block, watched common.Address, filter *TokenFilter) []walletcommon.TransferRecord {
	result := []walletcommon.TransferRecord{}
	if block == nil {
		return result
	}
	for i := len(block.Transactions) - 1; i >= 0; i-- {
		tx := block.Transactions[i]
		var (
			record walletcommon.TransferRecord
			ok     bool
		)
		if filter == nil {
			record, ok = s.coinTransfer(tx, watched)
		} else {
			record, ok = s.tokenTransfer(tx, watched, filter)
		}
		if !ok {
			continue
		}
		record.BlockNumber = block.Number
		record.TxIndex = uint(i)
		record.Timestamp = block.Timestamp
		result = append(result, record)
	}
	return result
}

func direction(from, watched common.Address) walletcommon.Direction {
	if from == watched {
		return walletcommon.Outgoing
	}
	return walletcommon.Incoming
}

func (s *Scanner) amount(value *big.Int, decimals int, tx walletcommon.BlockTransaction) (walletcommon.Amount, bool) {
	amount, err := walletcommon.ToDisplayUnits(value, decimals)
	if err != nil {
		s.logger.Debug("skipping tx with unconvertible value", zap.String("tx", tx.Hash.Hex()), zap.Error(err))
		return walletcommon.Amount{}, false
	}
	return amount, true
}

func (s *Scanner) coinTransfer(tx walletcommon.BlockTransaction, watched common.Address) (walletcommon.TransferRecord, bool) {
	var to common.Address
	if tx.To != nil {
		to = *tx.To
	}
	if tx.From != watched && (tx.To == nil || to != watched) {
		return walletcommon.TransferRecord{}, false
	}
	value, ok := s.amount(tx.Value, s.nativeDecimals, tx)
	if !ok {
		return walletcommon.TransferRecord{}, false
	}
	return walletcommon.TransferRecord{
		TxHash:    tx.Hash,
		From:      tx.From,
		To:        to,
		Value:     value,
		Direction: direction(tx.From, watched),
	}, true
}

func (s *Scanner) tokenTransfer(tx walletcommon.BlockTransaction, watched common.Address, filter *TokenFilter) (walletcommon.TransferRecord, bool) {
	if tx.To == nil || *tx.To != filter.Address {
		return walletcommon.TransferRecord{}, false
	}
	token := filter.Address

	// A call without selector only moves native value to the token
	// contract. It has no decoded recipient, so only the sender can match,
	// and the value is in native units.
	if len(tx.Input) < selectorLength {
		if tx.From != watched {
			return walletcommon.TransferRecord{}, false
		}
		value, ok := s.amount(tx.Value, s.nativeDecimals, tx)
		if !ok {
			return walletcommon.TransferRecord{}, false
		}
		return walletcommon.TransferRecord{
			TxHash:    tx.Hash,
			From:      tx.From,
			To:        token,
			Token:     &token,
			Value:     value,
			Direction: walletcommon.Incoming,
		}, true
	}

	recipient, amount, err := DecodeTransferCallData(tx.Input)
	if err != nil {
		s.logger.Debug("skipping token tx", zap.String("tx", tx.Hash.Hex()), zap.Error(err))
		return walletcommon.TransferRecord{}, false
	}
	if tx.From != watched && recipient != watched {
		return walletcommon.TransferRecord{}, false
	}
	value, ok := s.amount(amount, filter.decimals(), tx)
	if !ok {
		return walletcommon.TransferRecord{}, false
	}
	return walletcommon.TransferRecord{
		TxHash:    tx.Hash,
		From:      tx.From,
		To:        recipient,
		Token:     &token,
		Value:     value,
		Direction: direction(tx.From, watched),
	}, true
}

// ScanRange scans blocks from..to inclusive, newest block first. Blocks the
// gateway doesn't have yet are skipped.
func (s *Scanner) ScanRange(
	ctx context.Context,
	gateway walletcommon.Gateway,
	from, to uint64,
	watched common.Address,
	filter *TokenFilter,
) ([]walletcommon.TransferRecord, error) {
	result := []walletcommon.TransferRecord{}
	if from > to {
		return result, nil
	}
	for n := to; ; n-- {
		block, err := gateway.GetBlock(ctx, new(big.Int).SetUint64(n), true)
		if err != nil {
			return nil, err
		}
		if block == nil {
			s.logger.Debug("block not available yet", zap.Uint64("block", n))
		}
		result = append(result, s.ScanBlock(block, watched, filter)...)
		if n == from {
			break
		}
	}
	return result, nil
}
