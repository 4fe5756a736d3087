package txbuilder

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

const privateKeyLength = 32

// SignAndSerialize signs tx with key and returns its network encoding.
// key is wiped before returning, whether signing worked or not, so callers
// must not reuse the slice.
func SignAndSerialize(tx walletcommon.UnsignedTransaction, key []byte) (walletcommon.SignedTransaction, error) {
	defer wipe(key)

	if len(key) != privateKeyLength {
		return walletcommon.SignedTransaction{}, fmt.Errorf(
			"%w: expected %d bytes, got %d", walletcommon.ErrInvalidPrivateKey, privateKeyLength, len(key),
		)
	}
	if tx.Chain.ChainID == nil || tx.Chain.ChainID.Sign() <= 0 {
		return walletcommon.SignedTransaction{}, fmt.Errorf("chain id is required for replay protected signing")
	}
	if tx.GasPrice == nil {
		return walletcommon.SignedTransaction{}, fmt.Errorf("gas price is required")
	}
	priv, err := crypto.ToECDSA(key)
	if err != nil {
		return walletcommon.SignedTransaction{}, fmt.Errorf("%w: %s", walletcommon.ErrInvalidPrivateKey, err)
	}
	defer wipeKey(priv)

	signed, err := types.SignTx(tx.ToGethTx(), types.LatestSignerForChainID(tx.Chain.ChainID), priv)
	if err != nil {
		return walletcommon.SignedTransaction{}, fmt.Errorf("couldn't sign tx: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return walletcommon.SignedTransaction{}, fmt.Errorf("couldn't encode signed tx: %w", err)
	}
	return walletcommon.SignedTransaction{
		Raw:  raw,
		Hash: signed.Hash(),
	}, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func wipeKey(priv *ecdsa.PrivateKey) {
	words := priv.D.Bits()
	for i := range words {
		words[i] = 0
	}
	priv.D.SetInt64(0)
}
