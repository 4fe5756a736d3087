package common

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type Direction uint8

const (
	Incoming Direction = iota
	Outgoing
)

func (d Direction) String() string {
	if d == Outgoing {
		return "out"
	}
	return "in"
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "in":
		*d = Incoming
	case "out":
		*d = Outgoing
	default:
		return fmt.Errorf("unknown direction %q", s)
	}
	return nil
}

// TransferRecord is one wallet relevant movement of coins or tokens. Token is
// nil for native coin transfers.
type TransferRecord struct {
	TxHash      ethcommon.Hash     `json:"tx_hash"`
	BlockNumber uint64             `json:"block_number"`
	TxIndex     uint               `json:"tx_index"`
	From        ethcommon.Address  `json:"from"`
	To          ethcommon.Address  `json:"to"`
	Token       *ethcommon.Address `json:"token,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Value       Amount             `json:"value"`
	Direction   Direction          `json:"direction"`
}

// TokenRecord is the canonical metadata of an ERC20 token tracked by a
// wallet. Only RecentTransfers changes after creation.
type TokenRecord struct {
	Address         ethcommon.Address `json:"address"`
	Name            string            `json:"name"`
	Symbol          string            `json:"symbol"`
	Decimals        uint8             `json:"decimals"`
	CreatedAt       time.Time         `json:"created_at"`
	RecentTransfers []TransferRecord  `json:"recent_transfers"`
}

// AppendTransfers returns a copy of the record with records put in front of
// the existing transfers, newest first.
func (t TokenRecord) AppendTransfers(records ...TransferRecord) TokenRecord {
	transfers := make([]TransferRecord, 0, len(records)+len(t.RecentTransfers))
	transfers = append(transfers, records...)
	transfers = append(transfers, t.RecentTransfers...)
	t.RecentTransfers = transfers
	return t
}

// GasEstimate carries the gas price in gwei. It is a decimal so sub gwei
// prices of L2 chains survive.
type GasEstimate struct {
	GasPrice decimal.Decimal `json:"gas_price"`
	GasLimit uint64          `json:"gas_limit"`
}

func (g GasEstimate) GasPriceWei() *big.Int {
	return GweiToWei(g.GasPrice)
}

// MaxFee is gas price times gas limit, in wei.
func (g GasEstimate) MaxFee() *big.Int {
	return new(big.Int).Mul(g.GasPriceWei(), new(big.Int).SetUint64(g.GasLimit))
}
