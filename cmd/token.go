package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/token"
	"github.com/tranvictor/ethwallet/util"
)

var (
	hintName     string
	hintSymbol   string
	hintDecimals int
)

func hintsFromFlags() token.Hints {
	hints := token.Hints{Name: hintName, Symbol: hintSymbol}
	if hintDecimals >= 0 && hintDecimals <= 255 {
		d := uint8(hintDecimals)
		hints.Decimals = &d
	}
	return hints
}

var tokenInfoCmd = &cobra.Command{
	Use:   "info <token address>",
	Short: "Resolve the name, symbol and decimals of a token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		record, err := newResolver(gw).Resolve(cmd.Context(), args[0], hintsFromFlags())
		if err != nil {
			return err
		}
		util.DisplayToken(u, record)
		return nil
	},
}

var tokenAddCmd = &cobra.Command{
	Use:   "add <token address>",
	Short: "Resolve a token and track it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		record, err := newResolver(gw).Resolve(cmd.Context(), args[0], hintsFromFlags())
		if err != nil {
			return err
		}
		if record.Symbol == "" {
			u.Warn("Couldn't find the symbol of %s, consider passing --symbol and --decimals", args[0])
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SaveToken(record); err != nil {
			return err
		}
		util.DisplayToken(u, record)
		u.Success("Token tracked.")
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show tracked tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		tokens, err := store.ListTokens()
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(tokens))
		for _, t := range tokens {
			rows = append(rows, []string{
				t.Symbol,
				t.Name,
				fmt.Sprintf("%d", t.Decimals),
				walletcommon.CanonicalAddress(t.Address),
				fmt.Sprintf("%d", len(t.RecentTransfers)),
			})
		}
		u.Table([]string{"Symbol", "Name", "Decimals", "Address", "Recent transfers"}, rows)
		return nil
	},
}

var tokenFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find at max 10 well known tokens matching a symbol or address",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		matches := token.DefaultTable().Search(network.GetChainID(), strings.Join(args, " "))
		if len(matches) == 0 {
			u.Info("No token matches on %s", network.GetName())
			return
		}
		rows := make([][]string, 0, len(matches))
		for _, m := range matches {
			rows = append(rows, []string{m.Symbol, fmt.Sprintf("%d", m.Decimals), walletcommon.CanonicalAddress(m.Address)})
		}
		u.Table([]string{"Symbol", "Decimals", "Address"}, rows)
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Resolve, find and track ERC20 tokens",
	Long:  ``,
}

func init() {
	for _, c := range []*cobra.Command{tokenInfoCmd, tokenAddCmd} {
		c.Flags().StringVar(&hintName, "name", "", "Name to use when the chain doesn't tell")
		c.Flags().StringVar(&hintSymbol, "symbol", "", "Symbol to use when the chain doesn't tell")
		c.Flags().IntVar(&hintDecimals, "decimals", -1, "Decimals to use when the chain doesn't tell")
	}
	tokenCmd.AddCommand(tokenInfoCmd, tokenAddCmd, tokenListCmd, tokenFindCmd)
	rootCmd.AddCommand(tokenCmd)
}
