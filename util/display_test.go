package util_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/ui"
	"github.com/tranvictor/ethwallet/util"
	"github.com/tranvictor/ethwallet/util/monitor"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	usdc  = common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
)

func TestDisplayTxSummaryForToken(t *testing.T) {
	r := ui.NewRecordingUI()
	amount, err := walletcommon.ParseDisplayAmount("12.5", 6)
	require.NoError(t, err)
	util.DisplayTxSummary(r, util.TxSummary{
		From:     alice,
		To:       bob,
		Amount:   amount,
		Currency: "USDC",
		Token:    &walletcommon.TokenRecord{Address: usdc, Symbol: "USDC", Decimals: 6},
		Tx: walletcommon.UnsignedTransaction{
			Nonce:    3,
			To:       usdc,
			GasLimit: 55000,
			Data:     []byte{0xa9, 0x05, 0x9c, 0xbb},
		},
		Gas: walletcommon.GasEstimate{GasPrice: decimal.NewFromInt(20), GasLimit: 55000},
	}, networks.EthereumMainnet)

	assert.Equal(t, []string{"Confirm tx data before signing"}, r.Values("Section"))
	rows := r.Values("KeyValue")
	assert.Contains(t, rows, "To: 0x0000000000000000000000000000000000000b0b")
	assert.Contains(t, rows, "Amount: 12.5 USDC")
	assert.Contains(t, rows, "Token: 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48 (USDC)")
	assert.Contains(t, rows, "Nonce: 3")
	assert.Contains(t, rows, "Max fee: 0.0011 ETH")
	assert.Contains(t, rows, "Data: 0xa9059cbb")
}

func TestDisplayBroadcastedTx(t *testing.T) {
	signed := walletcommon.SignedTransaction{Hash: common.HexToHash("0x01")}

	r := ui.NewRecordingUI()
	util.DisplayBroadcastedTx(r, signed, true, signed.Hash.Hex())
	assert.Len(t, r.Values("Critical"), 1)

	r = ui.NewRecordingUI()
	util.DisplayBroadcastedTx(r, signed, false, "nonce too low")
	require.Len(t, r.Values("Error"), 1)
	assert.Contains(t, r.Values("Error")[0], "nonce too low")
}

func TestDisplayTxInfo(t *testing.T) {
	r := ui.NewRecordingUI()
	util.DisplayTxInfo(r, monitor.TxInfo{
		Status:  monitor.StatusReverted,
		Receipt: &walletcommon.Receipt{BlockNumber: 99, GasUsed: 21000},
	})
	assert.Equal(t, []string{"Reverted in block 99 (gas used 21000)"}, r.Values("Error"))

	r = ui.NewRecordingUI()
	util.DisplayTxInfo(r, monitor.TxInfo{Status: monitor.StatusLost})
	assert.Len(t, r.Values("Warn"), 1)
}

func TestDisplayBalances(t *testing.T) {
	r := ui.NewRecordingUI()
	eth, err := walletcommon.ToDisplayUnits(big.NewInt(1500000000000000000), 18)
	require.NoError(t, err)
	util.DisplayBalances(r, alice, []util.BalanceRow{
		{Symbol: "ETH", Balance: eth},
		{Symbol: "USDC", Address: &usdc, Err: errors.New("boom")},
	})
	assert.Equal(t, []string{
		"ETH | native | 1.5",
		"USDC | 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48 | error: boom",
	}, r.Values("Table"))
}

func TestDisplayTransfers(t *testing.T) {
	r := ui.NewRecordingUI()
	util.DisplayTransfers(r, nil, nil, "ETH")
	assert.True(t, r.HasMessage("no transfers"))

	value, err := walletcommon.ParseDisplayAmount("2", 6)
	require.NoError(t, err)
	r = ui.NewRecordingUI()
	util.DisplayTransfers(r, []walletcommon.TransferRecord{{
		TxHash:      common.HexToHash("0x02"),
		BlockNumber: 7,
		From:        bob,
		To:          alice,
		Token:       &usdc,
		Timestamp:   time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Value:       value,
		Direction:   walletcommon.Incoming,
	}}, map[common.Address]string{usdc: "USDC"}, "ETH")

	rows := r.Values("Table")
	require.Len(t, rows, 1)
	assert.Equal(t,
		"7 | 2024-01-02 03:04:05 | IN | 0x0000000000000000000000000000000000000b0b | 2 USDC | "+common.HexToHash("0x02").Hex(),
		rows[0],
	)
}
