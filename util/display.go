package util

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/ui"
	"github.com/tranvictor/ethwallet/util/monitor"
)

// TxSummary is what the user confirms before a tx gets signed.
type TxSummary struct {
	From     common.Address
	To       common.Address
	Amount   walletcommon.Amount
	Currency string
	// Token is nil for coin transfers.
	Token *walletcommon.TokenRecord
	Tx    walletcommon.UnsignedTransaction
	Gas   walletcommon.GasEstimate
}

// BalanceRow is one line of a balance table.
type BalanceRow struct {
	Symbol  string
	Address *common.Address
	Balance walletcommon.Amount
	Err     error
}

func styledAmount(a walletcommon.Amount, currency string) ui.StyledText {
	return ui.StyledText{Text: fmt.Sprintf("%s %s", a.String(), currency), Severity: ui.SeverityCritical}
}

func styledDirection(d walletcommon.Direction) ui.StyledText {
	if d == walletcommon.Outgoing {
		return ui.StyledText{Text: "OUT", Severity: ui.SeverityWarn}
	}
	return ui.StyledText{Text: "IN", Severity: ui.SeveritySuccess}
}

func nativeFee(gas walletcommon.GasEstimate, network networks.Network) string {
	fee, err := walletcommon.ToDisplayUnits(gas.MaxFee(), int(network.GetNativeTokenDecimal()))
	if err != nil {
		return gas.MaxFee().String() + " wei"
	}
	return fmt.Sprintf("%s %s", fee.String(), network.GetNativeTokenSymbol())
}

// ── Build phase ─────────────────────────────────────────────────────────────

func buildTxSummaryRows(u ui.UI, s TxSummary, network networks.Network) [][2]string {
	rows := [][2]string{
		{"Network", fmt.Sprintf("%s (chain %d)", network.GetName(), network.GetChainID())},
		{"From", walletcommon.CanonicalAddress(s.From)},
		{"To", walletcommon.CanonicalAddress(s.To)},
		{"Amount", u.Style(styledAmount(s.Amount, s.Currency))},
	}
	if s.Token != nil {
		rows = append(rows, [2]string{"Token", fmt.Sprintf("%s (%s)", walletcommon.CanonicalAddress(s.Token.Address), s.Token.Symbol)})
	}
	rows = append(rows,
		[2]string{"Nonce", fmt.Sprintf("%d", s.Tx.Nonce)},
		[2]string{"Gas price", fmt.Sprintf("%s gwei", s.Gas.GasPrice.String())},
		[2]string{"Gas limit", fmt.Sprintf("%d", s.Tx.GasLimit)},
		[2]string{"Max fee", nativeFee(s.Gas, network)},
	)
	if len(s.Tx.Data) > 0 {
		rows = append(rows, [2]string{"Data", fmt.Sprintf("0x%x", s.Tx.Data)})
	}
	return rows
}

func buildTransferRows(u ui.UI, records []walletcommon.TransferRecord, symbols map[common.Address]string, nativeSymbol string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		symbol := nativeSymbol
		if r.Token != nil {
			symbol = symbols[*r.Token]
			if symbol == "" {
				symbol = walletcommon.CanonicalAddress(*r.Token)
			}
		}
		counterparty := r.To
		if r.Direction == walletcommon.Incoming {
			counterparty = r.From
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.BlockNumber),
			r.Timestamp.UTC().Format("2006-01-02 15:04:05"),
			u.Style(styledDirection(r.Direction)),
			walletcommon.CanonicalAddress(counterparty),
			fmt.Sprintf("%s %s", r.Value.String(), symbol),
			r.TxHash.Hex(),
		})
	}
	return rows
}

// ── Print phase ─────────────────────────────────────────────────────────────

func DisplayTxSummary(u ui.UI, s TxSummary, network networks.Network) {
	u.Section("Confirm tx data before signing")
	u.KeyValue(buildTxSummaryRows(u, s, network))
}

func DisplayGasEstimate(u ui.UI, gas walletcommon.GasEstimate, network networks.Network) {
	u.KeyValue([][2]string{
		{"Gas price", fmt.Sprintf("%s gwei", gas.GasPrice.String())},
		{"Gas limit", fmt.Sprintf("%d", gas.GasLimit)},
		{"Max fee", nativeFee(gas, network)},
	})
}

func DisplayBroadcastedTx(u ui.UI, signed walletcommon.SignedTransaction, broadcasted bool, result string) {
	if !broadcasted {
		u.Error("Tx %s was rejected: %s", signed.Hash.Hex(), result)
		return
	}
	u.Critical("Broadcasted tx: %s", result)
}

func DisplayTxInfo(u ui.UI, info monitor.TxInfo) {
	switch info.Status {
	case monitor.StatusDone:
		u.Success("Mined in block %d (gas used %d)", info.Receipt.BlockNumber, info.Receipt.GasUsed)
	case monitor.StatusReverted:
		u.Error("Reverted in block %d (gas used %d)", info.Receipt.BlockNumber, info.Receipt.GasUsed)
	case monitor.StatusLost:
		u.Warn("No receipt for %s yet, it might have been dropped", info.Hash.Hex())
	default:
		u.Warn("Stopped waiting for %s", info.Hash.Hex())
	}
}

func DisplayBalances(u ui.UI, account common.Address, rows []BalanceRow) {
	u.Section("Balances of " + walletcommon.CanonicalAddress(account))
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		addr := "native"
		if r.Address != nil {
			addr = walletcommon.CanonicalAddress(*r.Address)
		}
		balance := r.Balance.String()
		if r.Err != nil {
			balance = u.Style(ui.StyledText{Text: "error: " + r.Err.Error(), Severity: ui.SeverityError})
		}
		table = append(table, []string{r.Symbol, addr, balance})
	}
	u.Table([]string{"Symbol", "Contract", "Balance"}, table)
}

func DisplayToken(u ui.UI, t walletcommon.TokenRecord) {
	u.KeyValue([][2]string{
		{"Address", walletcommon.CanonicalAddress(t.Address)},
		{"Name", t.Name},
		{"Symbol", t.Symbol},
		{"Decimals", fmt.Sprintf("%d", t.Decimals)},
	})
}

// DisplayTransfers prints records in the order given. symbols maps token
// contracts to their symbols.
func DisplayTransfers(u ui.UI, records []walletcommon.TransferRecord, symbols map[common.Address]string, nativeSymbol string) {
	if len(records) == 0 {
		u.Info("No transfers found")
		return
	}
	u.Table(
		[]string{"Block", "Time (UTC)", "Dir", "Counterparty", "Value", "Tx"},
		buildTransferRows(u, records, symbols, nativeSymbol),
	)
}
