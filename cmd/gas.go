package cmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/gas"
	"github.com/tranvictor/ethwallet/util"
)

var gasCmd = &cobra.Command{
	Use:   "gas <to> <amount [currency]>",
	Short: "Estimate gas price and gas limit of a transfer",
	Long: `Amount is in display units, e.g. "1.5" for 1.5 of the network coin or
"100 USDC" for a token. --from is used as sender if given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		to, err := walletcommon.NormalizeAddress(args[0])
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
		}
		var from common.Address
		if From != "" {
			if from, err = walletcommon.NormalizeAddress(From); err != nil {
				return fmt.Errorf("sender: %w", err)
			}
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}
		req, err := newTransferRequest(ctx, gw, from, to, args[1])
		if err != nil {
			return err
		}
		estimator, err := newEstimator(gw)
		if err != nil {
			return err
		}
		estimate, err := estimator.Estimate(ctx, gas.Skeleton{
			From:    from,
			To:      req.callTo(),
			Value:   req.callValue(),
			Data:    req.callData(),
			IsToken: req.Token != nil,
		})
		if err != nil {
			return err
		}
		util.DisplayGasEstimate(u, estimate, network)
		return nil
	},
}

func init() {
	gasCmd.Flags().StringVarP(&From, "from", "f", "", "Sender used for the estimate")
	rootCmd.AddCommand(gasCmd)
}
