package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/txbuilder"
	"github.com/tranvictor/ethwallet/util"
)

var waitForStatus bool

// txHashesFrom picks the tx hashes out of free text, in order of first
// appearance.
func txHashesFrom(text string) []common.Hash {
	result := []common.Hash{}
	seen := map[common.Hash]bool{}
	for _, s := range util.ScanForTxs(text) {
		hash := common.HexToHash(s)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		result = append(result, hash)
	}
	return result
}

var statusCmd = &cobra.Command{
	Use:   "status <text with tx hashes>",
	Short: "Show whether txs are mined and succeeded",
	Long: `Tx hashes are picked out of the arguments, so an explorer link or a log
line can be pasted as is. With --wait the command blocks until every tx is
mined or given up on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		hashes := txHashesFrom(strings.Join(args, " "))
		if len(hashes) == 0 {
			return fmt.Errorf("no tx hash found in the arguments")
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}

		if waitForStatus {
			stop := u.Spinner(fmt.Sprintf("Waiting for %d txs to be mined...", len(hashes)))
			infos := util.EthTxMonitor(gw, network, logger).BlockingWaitForMultipleTxs(ctx, hashes...)
			stop()
			for _, hash := range hashes {
				u.Section(hash.Hex())
				util.DisplayTxInfo(u, infos[hash])
			}
			return nil
		}

		sender := txbuilder.NewSender(gw, logger)
		rows := [][]string{}
		for _, hash := range hashes {
			status, err := sender.ReceiptStatus(ctx, hash)
			if err != nil {
				return fmt.Errorf("couldn't get receipt of %s: %w", hash.Hex(), err)
			}
			text := status.String()
			if status == txbuilder.StatusFailed {
				text = u.Style(errorText(text))
			}
			rows = append(rows, []string{hash.Hex(), text})
		}
		u.Table([]string{"Tx", "Status"}, rows)
		return nil
	},
}

var broadcastCmd = &cobra.Command{
	Use:   "broadcast <signed tx>",
	Short: "Broadcast a tx signed earlier with send --dry",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signed, err := walletcommon.DecodeSignedTransaction(args[0])
		if err != nil {
			return err
		}
		signer, err := signerOf(signed)
		if err != nil {
			return err
		}
		u.KeyValue([][2]string{
			{"Tx hash", signed.Hash.Hex()},
			{"Signed by", signer.Hex()},
			{"Network", network.GetName()},
		})
		if !YesToAll && !u.Confirm("Broadcast this tx?", false) {
			u.Warn("Aborted.")
			return nil
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}
		return broadcastAndWait(cmd.Context(), gw, signed)
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&waitForStatus, "wait", "w", false, "Wait until the txs are mined")
	broadcastCmd.Flags().BoolVarP(&DontWaitToBeMined, "no-wait", "F", false, "Will not wait the tx to be mined.")
	broadcastCmd.Flags().BoolVarP(&YesToAll, "yes", "y", false, "Don't ask for confirmation before broadcasting.")
	rootCmd.AddCommand(statusCmd, broadcastCmd)
}
