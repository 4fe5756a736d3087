package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	walletcommon "github.com/tranvictor/ethwallet/common"
)

var addressCmd = &cobra.Command{
	Use:   "addr [address...]",
	Short: "Validate addresses and show their canonical and checksummed forms",
	Long:  ``,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := [][]string{}
		invalid := 0
		for _, arg := range args {
			addr, err := walletcommon.NormalizeAddress(arg)
			if err != nil {
				invalid++
				rows = append(rows, []string{strings.TrimSpace(arg), u.Style(errorText("invalid")), ""})
				continue
			}
			rows = append(rows, []string{walletcommon.CanonicalAddress(addr), addr.Hex(), "valid"})
		}
		u.Table([]string{"Address", "Checksummed", ""}, rows)
		if invalid > 0 {
			return fmt.Errorf("%d of %d addresses are invalid", invalid, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
