// Package storage persists token records, transfers and sync cursors in a
// badger database. Values are json; amounts are stored as decimal strings.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

// MaxRecentTransfers caps TokenRecord.RecentTransfers.
const MaxRecentTransfers = 50

var ErrNotFound = errors.New("not found")

type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
}

type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Open opens the database at path, or a throwaway one in memory when
// inMemory is set.
func Open(path string, inMemory bool, logger *zap.Logger) (*BadgerStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := badger.DefaultOptions(path)
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Compression = options.Snappy
	opts.Logger = badgerLogger{logger.Named("badger").Sugar()}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("couldn't open store at %q: %w", path, err)
	}
	return &BadgerStore{db: db, logger: logger}, nil
}

func (bs *BadgerStore) Close() error {
	return bs.db.Close()
}

func tokenKey(token common.Address) []byte {
	return []byte("token:" + walletcommon.CanonicalAddress(token))
}

func asset(token *common.Address) string {
	if token == nil {
		return "native"
	}
	return walletcommon.CanonicalAddress(*token)
}

func transferPrefix(account common.Address, token *common.Address) []byte {
	return []byte(fmt.Sprintf("transfer:%s:%s:", walletcommon.CanonicalAddress(account), asset(token)))
}

// transferKey sorts by block number, then by position in the block, so that
// iterating a prefix backwards gives the newest transfers first.
func transferKey(account common.Address, record walletcommon.TransferRecord) []byte {
	prefix := transferPrefix(account, record.Token)
	return append(prefix, []byte(fmt.Sprintf("%016x:%06x", record.BlockNumber, record.TxIndex))...)
}

func cursorKey(account common.Address, token *common.Address) []byte {
	return []byte(fmt.Sprintf("cursor:%s:%s", walletcommon.CanonicalAddress(account), asset(token)))
}

func getJSON(txn *badger.Txn, key []byte, v interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *badger.Txn, key []byte, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func (bs *BadgerStore) SaveToken(record walletcommon.TokenRecord) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, tokenKey(record.Address), record)
	})
}

func (bs *BadgerStore) GetToken(token common.Address) (walletcommon.TokenRecord, error) {
	var record walletcommon.TokenRecord
	err := bs.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, tokenKey(token), &record)
	})
	if err != nil {
		return walletcommon.TokenRecord{}, fmt.Errorf("token %s: %w", token.Hex(), err)
	}
	return record, nil
}

func (bs *BadgerStore) ListTokens() ([]walletcommon.TokenRecord, error) {
	tokens := []walletcommon.TokenRecord{}
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte("token:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record walletcommon.TokenRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				tokens = append(tokens, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// SaveTransfers stores records found for account, newest first. Saving a
// transfer twice is harmless. Token transfers are also put in front of the
// RecentTransfers of their token record when that token is tracked.
func (bs *BadgerStore) SaveTransfers(account common.Address, records []walletcommon.TransferRecord) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		byToken := map[common.Address][]walletcommon.TransferRecord{}
		tokenOrder := []common.Address{}
		for _, record := range records {
			if err := setJSON(txn, transferKey(account, record), record); err != nil {
				return err
			}
			if record.Token == nil {
				continue
			}
			if _, seen := byToken[*record.Token]; !seen {
				tokenOrder = append(tokenOrder, *record.Token)
			}
			byToken[*record.Token] = append(byToken[*record.Token], record)
		}
		for _, token := range tokenOrder {
			if err := appendRecentTransfers(txn, token, byToken[token]); err != nil {
				return err
			}
		}
		return nil
	})
}

func appendRecentTransfers(txn *badger.Txn, token common.Address, records []walletcommon.TransferRecord) error {
	var tokenRecord walletcommon.TokenRecord
	err := getJSON(txn, tokenKey(token), &tokenRecord)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	known := map[common.Hash]bool{}
	for _, r := range tokenRecord.RecentTransfers {
		known[r.TxHash] = true
	}
	fresh := []walletcommon.TransferRecord{}
	for _, r := range records {
		if !known[r.TxHash] {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	tokenRecord = tokenRecord.AppendTransfers(fresh...)
	if len(tokenRecord.RecentTransfers) > MaxRecentTransfers {
		tokenRecord.RecentTransfers = tokenRecord.RecentTransfers[:MaxRecentTransfers]
	}
	return setJSON(txn, tokenKey(token), tokenRecord)
}

// Transfers returns up to limit transfers of account, newest block first.
// token nil means native coin transfers. limit <= 0 means no limit.
func (bs *BadgerStore) Transfers(account common.Address, token *common.Address, limit int) ([]walletcommon.TransferRecord, error) {
	result := []walletcommon.TransferRecord{}
	prefix := transferPrefix(account, token)
	err := bs.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := append(append([]byte{}, prefix...), 0xff)
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(result) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var record walletcommon.TransferRecord
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				result = append(result, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (bs *BadgerStore) Cursor(account common.Address, token *common.Address) (uint64, bool, error) {
	var cursor uint64
	found := false
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cursorKey(account, token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			cursor, err = strconv.ParseUint(string(val), 10, 64)
			found = err == nil
			return err
		})
	})
	if err != nil {
		return 0, false, err
	}
	return cursor, found, nil
}

func (bs *BadgerStore) SetCursor(account common.Address, token *common.Address, block uint64) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(cursorKey(account, token), []byte(strconv.FormatUint(block, 10)))
	})
}
