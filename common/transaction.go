package common

import (
	"fmt"
	"math/big"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ChainParameters are the chain specific knobs needed to encode and sign a
// transaction.
type ChainParameters struct {
	ChainID *big.Int
	// DynamicFee switches to EIP-1559 transactions where GasPrice is used as
	// the fee cap and TipCap as the priority fee.
	DynamicFee bool
	TipCap     *big.Int
}

type UnsignedTransaction struct {
	Nonce    uint64
	To       ethcommon.Address
	Value    *big.Int
	GasPrice *big.Int
	GasLimit uint64
	Data     []byte
	Chain    ChainParameters
}

type SignedTransaction struct {
	Raw  []byte
	Hash ethcommon.Hash
}

func (s SignedTransaction) Hex() string {
	return hexutil.Encode(s.Raw)
}

// DecodeSignedTransaction parses a 0x prefixed hex encoded signed
// transaction, as printed by SignedTransaction.Hex, and computes its hash.
func DecodeSignedTransaction(data string) (SignedTransaction, error) {
	raw, err := hexutil.Decode(strings.TrimSpace(data))
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("signed tx must be 0x prefixed hex: %w", err)
	}
	if len(raw) == 0 {
		return SignedTransaction{}, fmt.Errorf("signed tx is empty")
	}
	return SignedTransaction{Raw: raw, Hash: crypto.Keccak256Hash(raw)}, nil
}

// ToGethTx turns the payload into a go-ethereum transaction ready to be
// signed.
func (u UnsignedTransaction) ToGethTx() *types.Transaction {
	to := u.To
	value := u.Value
	if value == nil {
		value = big.NewInt(0)
	}
	if u.Chain.DynamicFee {
		tip := u.Chain.TipCap
		if tip == nil || tip.Cmp(u.GasPrice) > 0 {
			tip = u.GasPrice
		}
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:   u.Chain.ChainID,
			Nonce:     u.Nonce,
			GasTipCap: tip,
			GasFeeCap: u.GasPrice,
			Gas:       u.GasLimit,
			To:        &to,
			Value:     value,
			Data:      u.Data,
		})
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    u.Nonce,
		GasPrice: u.GasPrice,
		Gas:      u.GasLimit,
		To:       &to,
		Value:    value,
		Data:     u.Data,
	})
}
