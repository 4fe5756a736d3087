// Package txbuilder turns transfer requests into signed, broadcastable
// transactions.
package txbuilder

import (
	"errors"
	"fmt"
	"math/big"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

var ErrInvalidAmount = errors.New("invalid amount")

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return nil
}

// BuildCoinTransfer prepares a native coin transfer of amount base units.
// from is validated but not part of the payload: the sender is whoever
// signs it.
func BuildCoinTransfer(
	from, to string,
	amount *big.Int,
	nonce uint64,
	gas walletcommon.GasEstimate,
	chain walletcommon.ChainParameters,
) (walletcommon.UnsignedTransaction, error) {
	if _, err := walletcommon.NormalizeAddress(from); err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("sender: %w", err)
	}
	recipient, err := walletcommon.NormalizeAddress(to)
	if err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("recipient: %w", err)
	}
	if err := checkAmount(amount); err != nil {
		return walletcommon.UnsignedTransaction{}, err
	}
	return walletcommon.UnsignedTransaction{
		Nonce:    nonce,
		To:       recipient,
		Value:    new(big.Int).Set(amount),
		GasPrice: gas.GasPriceWei(),
		GasLimit: gas.GasLimit,
		Data:     []byte{},
		Chain:    chain,
	}, nil
}

// BuildTokenTransfer prepares an ERC20 transfer(to, amount) call to token.
// The transaction itself carries no value.
func BuildTokenTransfer(
	token, from, to string,
	amount *big.Int,
	nonce uint64,
	gas walletcommon.GasEstimate,
	chain walletcommon.ChainParameters,
) (walletcommon.UnsignedTransaction, error) {
	tokenAddr, err := walletcommon.NormalizeAddress(token)
	if err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("token: %w", err)
	}
	if _, err := walletcommon.NormalizeAddress(from); err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("sender: %w", err)
	}
	recipient, err := walletcommon.NormalizeAddress(to)
	if err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("recipient: %w", err)
	}
	if err := checkAmount(amount); err != nil {
		return walletcommon.UnsignedTransaction{}, err
	}
	data, err := walletcommon.PackERC20Data("transfer", recipient, amount)
	if err != nil {
		return walletcommon.UnsignedTransaction{}, fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}
	return walletcommon.UnsignedTransaction{
		Nonce:    nonce,
		To:       tokenAddr,
		Value:    big.NewInt(0),
		GasPrice: gas.GasPriceWei(),
		GasLimit: gas.GasLimit,
		Data:     data,
		Chain:    chain,
	}, nil
}
