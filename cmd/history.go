package cmd

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/history"
	"github.com/tranvictor/ethwallet/publisher"
	"github.com/tranvictor/ethwallet/util"
)

var (
	historyToken     string
	historyFromBlock string
	historyToBlock   string
	historyLimit     int
	historyOnce      bool
)

// historyTarget parses the account argument and the --token flag. The
// returned filter is nil for native coin history.
func historyTarget(cmd *cobra.Command, gw walletcommon.Gateway, account string) (common.Address, *history.TokenFilter, error) {
	watched, err := walletcommon.NormalizeAddress(account)
	if err != nil {
		return common.Address{}, nil, err
	}
	if historyToken == "" {
		return watched, nil, nil
	}
	record, err := resolveCurrency(cmd.Context(), newResolver(gw), network, historyToken)
	if err != nil {
		return common.Address{}, nil, err
	}
	if record == nil {
		return watched, nil, nil
	}
	decimals := record.Decimals
	return watched, &history.TokenFilter{Address: record.Address, Decimals: &decimals}, nil
}

// blockParam parses a block number given in decimal or 0x hex. Empty means 0.
func blockParam(flag, value string) (uint64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	n, err := util.ParamToBigInt(value)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", flag, err)
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("--%s: %s is not a block number", flag, value)
	}
	return n.Uint64(), nil
}

var historyScanCmd = &cobra.Command{
	Use:   "scan <account>",
	Short: "Scan a block range for transfers of an account",
	Long: `Without --to-block the latest block is used. Without --from-block only the
last 100 blocks are scanned. Results are shown newest first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gw, err := newGateway()
		if err != nil {
			return err
		}
		watched, filter, err := historyTarget(cmd, gw, args[0])
		if err != nil {
			return err
		}
		from, err := blockParam("from-block", historyFromBlock)
		if err != nil {
			return err
		}
		to, err := blockParam("to-block", historyToBlock)
		if err != nil {
			return err
		}
		if to == 0 {
			if to, err = gw.CurrentBlock(ctx); err != nil {
				return err
			}
		}
		if from == 0 && to > 100 {
			from = to - 100
		}
		stop := u.Spinner(fmt.Sprintf("Scanning blocks %d to %d, about %s of chain time...",
			from, to, util.CalculateTimeDurationFromBlock(network, from, to)))
		records, err := history.NewScanner(nativeDecimals(), logger).ScanRange(ctx, gw, from, to, watched, filter)
		stop()
		if err != nil {
			return err
		}
		symbols := map[common.Address]string{}
		if filter != nil {
			if entry, found := newResolver(gw).Table().Lookup(network.GetChainID(), filter.Address); found {
				symbols[filter.Address] = entry.Symbol
			}
		}
		util.DisplayTransfers(u, records, symbols, network.GetNativeTokenSymbol())
		return nil
	},
}

var historySyncCmd = &cobra.Command{
	Use:   "sync <account>",
	Short: "Follow the chain and store transfers of an account",
	Long: `Stored transfers are published to kafka when kafka.enabled is set.
Runs until interrupted unless --once is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		gw, err := newGateway()
		if err != nil {
			return err
		}
		watched, filter, err := historyTarget(cmd, gw, args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		pub := publisher.New(appConfig.Kafka, logger)
		defer pub.Close()

		start := appConfig.History.StartBlock
		from, err := blockParam("from-block", historyFromBlock)
		if err != nil {
			return err
		}
		if from > 0 {
			start = from
		}
		syncer := history.NewSyncer(gw, history.NewScanner(nativeDecimals(), logger), store, pub, history.SyncConfig{
			Account:       watched,
			Filter:        filter,
			StartBlock:    start,
			BatchSize:     appConfig.History.BatchSize,
			Confirmations: appConfig.History.Confirmations,
			PollInterval:  appConfig.History.PollInterval,
		}, logger)

		if historyOnce {
			found, err := syncer.SyncOnce(ctx)
			if err != nil {
				return err
			}
			u.Success("Stored %d new transfers.", found)
			return nil
		}
		u.Info("Syncing %s, press Ctrl-C to stop.", watched.Hex())
		if err := syncer.Run(ctx); err != nil {
			return err
		}
		logger.Info("sync stopped", zap.String("account", watched.Hex()))
		return nil
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list <account>",
	Short: "Show stored transfers of an account, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watched, err := walletcommon.NormalizeAddress(args[0])
		if err != nil {
			return err
		}
		var tokenAddr *common.Address
		if historyToken != "" {
			addr, err := walletcommon.NormalizeAddress(historyToken)
			if err != nil {
				return fmt.Errorf("--token must be a contract address here: %w", err)
			}
			tokenAddr = &addr
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		records, err := store.Transfers(watched, tokenAddr, historyLimit)
		if err != nil {
			return err
		}
		tokens, err := store.ListTokens()
		if err != nil {
			return err
		}
		util.DisplayTransfers(u, records, tokenSymbols(tokens), network.GetNativeTokenSymbol())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Reconstruct the transfer history of an account",
	Long:  ``,
}

func init() {
	historyCmd.PersistentFlags().StringVarP(&historyToken, "token", "t", "", "Token address or symbol. Native coin history if empty")
	historyScanCmd.Flags().StringVar(&historyFromBlock, "from-block", "", "First block to scan, decimal or 0x hex")
	historyScanCmd.Flags().StringVar(&historyToBlock, "to-block", "", "Last block to scan, decimal or 0x hex")
	historySyncCmd.Flags().StringVar(&historyFromBlock, "from-block", "", "Block to start from when the account was never synced, decimal or 0x hex")
	historySyncCmd.Flags().BoolVar(&historyOnce, "once", false, "Sync a single batch of blocks and exit")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Max number of transfers to show")
	historyCmd.AddCommand(historyScanCmd, historySyncCmd, historyListCmd)
	rootCmd.AddCommand(historyCmd)
}
