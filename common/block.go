package common

import (
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
)

// Block is the subset of a block the wallet cares about. Transactions keep
// the order they have in the block.
type Block struct {
	Number       uint64
	Hash         ethcommon.Hash
	Timestamp    time.Time
	Transactions []BlockTransaction
}

type BlockTransaction struct {
	Hash  ethcommon.Hash
	From  ethcommon.Address
	// To is nil for contract creations.
	To    *ethcommon.Address
	Value *big.Int
	Input []byte
	Nonce uint64
}

type Receipt struct {
	TxHash      ethcommon.Hash
	BlockNumber uint64
	// Status is 1 for success and 0 for failure.
	Status  uint64
	GasUsed uint64
}

// CallRequest describes a call used for gas estimation.
type CallRequest struct {
	From  ethcommon.Address
	To    *ethcommon.Address
	Value *big.Int
	Data  []byte
}
