// Copyright © 2018 Victor Tran
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tranvictor/ethwallet/config"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/ui"
)

var (
	v       = viper.New()
	cfgFile string

	appConfig *config.Config
	logger    = zap.NewNop()
	network   networks.Network
	u         ui.UI = ui.NewTerminalUI()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ethwallet",
	Short: "Send coins and tokens, check balances and follow transfers on ethereum compatible chains",
	Long: fmt.Sprintf(`ethwallet is a command line wallet for ethereum compatible chains.

It builds and signs native coin and ERC20 transfers locally, estimates their
gas, resolves token metadata, reads balances and reconstructs the transfer
history of an account by scanning blocks.

Supported networks: %s.
Custom networks can be added with "ethwallet network add" and are stored in
the networks dir of the config.

Each network reads an extra node from its own env var, e.g. %s for mainnet.
Settings are read from ethwallet.yaml (working dir or ~/.ethwallet) and from
%s_* env vars, e.g. %s_LOG_LEVEL=debug.

Private keys are only read from the terminal when a tx is signed. They are
never stored or logged.`,
		strings.Join(networks.GetSupportedNetworkNames(), ", "),
		networks.EthereumMainnet.GetNodeVariableName(),
		config.EnvPrefix,
		config.EnvPrefix,
	),
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// loadEnv prepares config, logger and network for every sub command.
func loadEnv(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg

	l, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	logger = l

	if _, err := os.Stat(cfg.NetworksDir); err == nil {
		loaded, err := networks.LoadCustomNetworks(cfg.NetworksDir)
		if err != nil {
			logger.Warn("some custom networks couldn't be loaded", zap.Error(err))
		}
		logger.Debug("loaded custom networks", zap.Int("count", len(loaded)))
	}

	network, err = networks.GetNetwork(cfg.Network)
	if err != nil {
		return fmt.Errorf("%w. Supported networks: %s", err, strings.Join(networks.GetSupportedNetworkNames(), ", "))
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./ethwallet.yaml or ~/.ethwallet/ethwallet.yaml)")
	rootCmd.PersistentFlags().StringP("network", "k", "mainnet", "network name or alias, see \"ethwallet network list\"")
	rootCmd.PersistentFlags().StringToString("node", nil, "extra nodes as name=url, used together with the network's own nodes")
	rootCmd.PersistentFlags().String("log-level", "info", "debug, info, warn or error")

	_ = v.BindPFlag("network", rootCmd.PersistentFlags().Lookup("network"))
	_ = v.BindPFlag("nodes", rootCmd.PersistentFlags().Lookup("node"))
	_ = v.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}
