package cmd

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/txbuilder"
	"github.com/tranvictor/ethwallet/util"
)

// transferRequest is a coin or token transfer as typed by the user, with
// the amount checked against the currency's decimals.
type transferRequest struct {
	From     common.Address
	To       common.Address
	Token    *walletcommon.TokenRecord
	Amount   walletcommon.Amount
	Currency string
}

func newTransferRequest(ctx context.Context, gw walletcommon.Gateway, from, to common.Address, value string) (*transferRequest, error) {
	display, currency, err := util.ValueToAmountAndCurrency(value)
	if err != nil {
		return nil, err
	}
	record, err := resolveCurrency(ctx, newResolver(gw), network, currency)
	if err != nil {
		return nil, err
	}
	req := &transferRequest{
		From:     from,
		To:       to,
		Token:    record,
		Currency: network.GetNativeTokenSymbol(),
	}
	decimals := nativeDecimals()
	if record != nil {
		decimals = int(record.Decimals)
		req.Currency = record.Symbol
		if req.Currency == "" {
			req.Currency = walletcommon.CanonicalAddress(record.Address)
		}
	}
	req.Amount, err = walletcommon.ParseDisplayAmount(display.String(), decimals)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *transferRequest) callTo() common.Address {
	if r.Token != nil {
		return r.Token.Address
	}
	return r.To
}

func (r *transferRequest) callValue() *big.Int {
	if r.Token != nil {
		return big.NewInt(0)
	}
	return r.Amount.BaseUnits()
}

func (r *transferRequest) callData() []byte {
	if r.Token == nil {
		return nil
	}
	data, err := walletcommon.PackERC20Data("transfer", r.To, r.Amount.BaseUnits())
	if err != nil {
		return nil
	}
	return data
}

func (r *transferRequest) build(nonce uint64, gas walletcommon.GasEstimate, chain walletcommon.ChainParameters) (walletcommon.UnsignedTransaction, error) {
	from := walletcommon.CanonicalAddress(r.From)
	to := walletcommon.CanonicalAddress(r.To)
	if r.Token == nil {
		return txbuilder.BuildCoinTransfer(from, to, r.Amount.BaseUnits(), nonce, gas, chain)
	}
	return txbuilder.BuildTokenTransfer(
		walletcommon.CanonicalAddress(r.Token.Address),
		from, to, r.Amount.BaseUnits(), nonce, gas, chain,
	)
}

func (r *transferRequest) summary(tx walletcommon.UnsignedTransaction, gas walletcommon.GasEstimate) util.TxSummary {
	return util.TxSummary{
		From:     r.From,
		To:       r.To,
		Amount:   r.Amount,
		Currency: r.Currency,
		Token:    r.Token,
		Tx:       tx,
		Gas:      gas,
	}
}

// signerOf recovers the address that signed raw.
func signerOf(signed walletcommon.SignedTransaction) (common.Address, error) {
	tx := new(types.Transaction)
	if err := tx.UnmarshalBinary(signed.Raw); err != nil {
		return common.Address{}, fmt.Errorf("couldn't decode signed tx: %w", err)
	}
	return types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
}
