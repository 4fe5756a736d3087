package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/gas"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/txbuilder"
	"github.com/tranvictor/ethwallet/util"
)

func gasFromFlags(estimate walletcommon.GasEstimate) (walletcommon.GasEstimate, error) {
	if GasPrice != "" {
		price, err := decimal.NewFromString(GasPrice)
		if err != nil || !price.IsPositive() {
			return estimate, fmt.Errorf("invalid --gasprice %q", GasPrice)
		}
		estimate.GasPrice = price
	}
	if GasLimit > 0 {
		estimate.GasLimit = GasLimit
	}
	return estimate, nil
}

func tipFromFlags() (walletcommon.ChainParameters, error) {
	if TipGas == "" {
		return networks.ChainParams(network, nil), nil
	}
	tip, err := decimal.NewFromString(TipGas)
	if err != nil || tip.IsNegative() {
		return walletcommon.ChainParameters{}, fmt.Errorf("invalid --tipgas %q", TipGas)
	}
	return networks.ChainParams(network, walletcommon.GweiToWei(tip)), nil
}

var sendCmd = &cobra.Command{
	Use:   "send <to> <amount [currency]>",
	Short: "Send coins or ERC20 tokens",
	Long: `Amount is in display units followed by an optional currency, e.g.
	ethwallet send 0x... "0.5" -f 0x...
	ethwallet send 0x... "100 USDC" -f 0x...
	ethwallet send 0x... "1 0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48" -f 0x...
The private key of --from is asked for after the tx is shown and confirmed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if From == "" {
			return fmt.Errorf("--from is required")
		}
		from, err := walletcommon.NormalizeAddress(From)
		if err != nil {
			return fmt.Errorf("sender: %w", err)
		}
		to, err := walletcommon.NormalizeAddress(args[0])
		if err != nil {
			return fmt.Errorf("recipient: %w", err)
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
		if estimate, err = gasFromFlags(estimate); err != nil {
			return err
		}
		chain, err := tipFromFlags()
		if err != nil {
			return err
		}

		var nonce uint64
		if Nonce >= 0 {
			nonce = uint64(Nonce)
		} else if nonce, err = gw.GetPendingNonce(ctx, from); err != nil {
			return fmt.Errorf("couldn't get nonce of %s: %w", from.Hex(), err)
		}

		tx, err := req.build(nonce, estimate, chain)
		if err != nil {
			return err
		}
		util.DisplayTxSummary(u, req.summary(tx, estimate), network)
		if !YesToAll && !u.Confirm("Sign this tx?", false) {
			u.Warn("Aborted.")
			return nil
		}

		session := newKeySession()
		defer session.close()
		key, err := session.unlock(u, from.Hex())
		if err != nil {
			return err
		}
		signed, err := txbuilder.SignAndSerialize(tx, key)
		session.lock()
		if err != nil {
			return err
		}
		signer, err := signerOf(signed)
		if err != nil {
			return err
		}
		if signer != from {
			return fmt.Errorf("the private key belongs to %s, not %s", signer.Hex(), from.Hex())
		}

		if DontBroadcast {
			u.Critical("Signed tx: %s", signed.Hex())
			u.Critical("Tx hash: %s", signed.Hash.Hex())
			return nil
		}

		return broadcastAndWait(ctx, gw, signed)
	},
}

// broadcastAndWait submits signed and, unless --no-wait is set, follows it
// until it is mined or given up on.
func broadcastAndWait(ctx context.Context, gw *util.NodeGateway, signed walletcommon.SignedTransaction) error {
	sender := txbuilder.NewSender(gw, logger)
	broadcasted, result, err := sender.Broadcast(ctx, signed)
	if err != nil {
		return err
	}
	util.DisplayBroadcastedTx(u, signed, broadcasted, result)
	if !broadcasted {
		return fmt.Errorf("tx rejected: %s", result)
	}
	if DontWaitToBeMined {
		return nil
	}

	stop := u.Spinner(fmt.Sprintf("Waiting for %s to be mined...", signed.Hash.Hex()))
	info := util.EthTxMonitor(gw, network, logger).BlockingWait(ctx, signed.Hash)
	stop()
	logger.Debug("tx settled", zap.String("tx", signed.Hash.Hex()), zap.String("status", info.Status))
	util.DisplayTxInfo(u, info)
	return nil
}

func init() {
	AddCommonFlagsToTransactionalCmds(sendCmd)
	rootCmd.AddCommand(sendCmd)
}
