package cmd

import (
	"github.com/spf13/cobra"
)

var (
	From              string
	GasPrice          string
	TipGas            string
	GasLimit          uint64
	Nonce             int64
	DontBroadcast     bool
	DontWaitToBeMined bool
	YesToAll          bool
)

func AddCommonFlagsToTransactionalCmds(c *cobra.Command) {
	c.PersistentFlags().
		StringVarP(&From, "from", "f", "", "Account to send the transaction from. It must match the private key entered when signing.")
	c.PersistentFlags().
		StringVarP(&GasPrice, "gasprice", "p", "", "Gas price in gwei. If empty, the node's suggested gas price is used.")
	c.PersistentFlags().
		StringVarP(&TipGas, "tipgas", "s", "", "Tip in gwei for dynamic fee networks. If empty, the whole gas price is used as tip.")
	c.PersistentFlags().
		Uint64VarP(&GasLimit, "gas", "g", 0, "Gas limit for the tx. If 0, the node estimates it.")
	c.PersistentFlags().
		Int64VarP(&Nonce, "nonce", "n", -1, "Nonce of the from account. If negative, the next pending nonce is used.")
	c.PersistentFlags().
		BoolVarP(&DontBroadcast, "dry", "d", false, "Will not broadcast the tx, only show signed tx.")
	c.PersistentFlags().
		BoolVarP(&DontWaitToBeMined, "no-wait", "F", false, "Will not wait the tx to be mined.")
	c.PersistentFlags().
		BoolVarP(&YesToAll, "yes", "y", false, "Don't ask for confirmation before signing.")
}
