package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tranvictor/ethwallet/balance"
	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/util"
)

var withTrackedTokens bool

var balanceCmd = &cobra.Command{
	Use:   "balance <account> [token...]",
	Short: "Show coin and token balances of an account",
	Long: `Tokens can be given as contract addresses or as symbols of well known tokens.
With --tracked, every token added with "ethwallet token add" is included too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		account, err := walletcommon.NormalizeAddress(args[0])
		if err != nil {
			return err
		}
		gw, err := newGateway()
		if err != nil {
			return err
		}
		resolver := newResolver(gw)

		tokens := []walletcommon.TokenRecord{}
		for _, currency := range args[1:] {
			record, err := resolveCurrency(ctx, resolver, network, currency)
			if err != nil {
				return err
			}
			if record != nil {
				tokens = append(tokens, *record)
			}
		}
		if withTrackedTokens {
			store, err := openStore()
			if err != nil {
				return err
			}
			tracked, err := store.ListTokens()
			store.Close()
			if err != nil {
				return err
			}
			tokens = append(tokens, tracked...)
		}

		query := balance.NewQuery(gw, nativeDecimals())
		native, err := query.Native(ctx, walletcommon.CanonicalAddress(account))
		rows := []util.BalanceRow{{
			Symbol:  network.GetNativeTokenSymbol(),
			Balance: native,
			Err:     err,
		}}
		for _, t := range tokens {
			t := t
			amount, err := query.Token(ctx, walletcommon.CanonicalAddress(t.Address), int(t.Decimals), walletcommon.CanonicalAddress(account))
			if err != nil {
				logger.Debug("couldn't read token balance", zap.String("token", t.Address.Hex()), zap.Error(err))
			}
			rows = append(rows, util.BalanceRow{
				Symbol:  t.Symbol,
				Address: &t.Address,
				Balance: amount,
				Err:     err,
			})
		}
		util.DisplayBalances(u, account, rows)
		return nil
	},
}

func init() {
	balanceCmd.Flags().BoolVar(&withTrackedTokens, "tracked", false, "Include tracked tokens")
	rootCmd.AddCommand(balanceCmd)
}
