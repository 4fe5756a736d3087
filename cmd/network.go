package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	walletcommon "github.com/tranvictor/ethwallet/common"
	"github.com/tranvictor/ethwallet/networks"
	"github.com/tranvictor/ethwallet/util"
	"github.com/tranvictor/ethwallet/util/reader"
)

var (
	NetworkConfig string
	NetworkForce  bool
)

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--file takes a path to a network config json OR the json itself. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "MY_NETWORK_NODE",
		"default_nodes": {
			"node_name_1": "node_url_1"
		},
		"dynamic_fee": true
	}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		content := strings.TrimSpace(NetworkConfig)
		if content == "" {
			return fmt.Errorf("--file is required")
		}
		raw := []byte(content)
		if !strings.HasPrefix(content, "{") {
			var err error
			raw, err = os.ReadFile(content)
			if err != nil {
				return fmt.Errorf("couldn't read the provided json file: %w", err)
			}
		}
		newNetwork, err := networks.NewNetworkFromJSON(raw)
		if err != nil {
			return fmt.Errorf("the provided json is not a valid network config: %w", err)
		}

		names := append([]string{newNetwork.GetName()}, newNetwork.GetAlternativeNames()...)
		for _, name := range names {
			if _, err := networks.GetNetwork(name); err == nil && !NetworkForce {
				return fmt.Errorf("network with name %s already exists. If you want to update the network, use flag --force", name)
			}
		}
		if err := networks.AddNetwork(newNetwork, appConfig.NetworksDir); err != nil {
			return fmt.Errorf("failed to add the new network: %w", err)
		}
		u.Success("Network %s with chain ID %d added and saved to %s.", newNetwork.GetName(), newNetwork.GetChainID(), appConfig.NetworksDir)
		return nil
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		rows := [][]string{}
		for _, n := range networks.GetSupportedNetworks() {
			nodes := util.GetNodes(n, nil)
			names := make([]string, 0, len(nodes))
			for name, url := range nodes {
				names = append(names, name+": "+url)
			}
			sort.Strings(names)
			rows = append(rows, []string{
				n.GetName(),
				fmt.Sprintf("%d", n.GetChainID()),
				n.GetNativeTokenSymbol(),
				strings.Join(names, ", "),
			})
		}
		u.Table([]string{"Name", "Chain ID", "Coin", "RPC nodes"}, rows)
		u.Info("To add more networks: ethwallet network add --file <json>")
		u.Info("To delete a custom network, delete its json file in %s.", appConfig.NetworksDir)
	},
}

// checkNodes asks every node for its chain id and head block, in parallel.
// It returns one row per node sorted by name and how many nodes are unusable.
func checkNodes(ctx context.Context, nodes map[string]reader.EthereumNode, chainID uint64) ([][]string, int) {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	checks := make([]func() error, len(names))
	for i, name := range names {
		i := i
		node := nodes[name]
		checks[i] = func() error {
			rows[i] = []string{node.NodeName(), node.NodeURL(), "", ""}
			id, err := node.ChainID(ctx)
			if err != nil {
				rows[i][3] = u.Style(errorText(err.Error()))
				return err
			}
			if id.Uint64() != chainID {
				rows[i][3] = u.Style(errorText(fmt.Sprintf("wrong chain %s", id)))
				return fmt.Errorf("%s is on chain %s", node.NodeName(), id)
			}
			head, err := node.CurrentBlock(ctx)
			if err != nil {
				rows[i][3] = u.Style(errorText(err.Error()))
				return err
			}
			rows[i][2] = fmt.Sprintf("%d", head)
			rows[i][3] = "ok"
			return nil
		}
	}
	failed, _ := walletcommon.RunParallel(checks...)
	return rows, failed
}

var nodesNetworkCmd = &cobra.Command{
	Use:   "nodes",
	Short: "Check the nodes used for the current network",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway()
		if err != nil {
			return err
		}
		stop := u.Spinner(fmt.Sprintf("Checking nodes of %s...", network.GetName()))
		rows, failed := checkNodes(cmd.Context(), gw.Nodes(), network.GetChainID())
		stop()
		u.Table([]string{"Name", "URL", "Head block", "Status"}, rows)
		if failed == len(rows) {
			return fmt.Errorf("none of the %d nodes of %s is usable", len(rows), network.GetName())
		}
		return nil
	},
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that ethwallet supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.Flags().StringVar(&NetworkConfig, "file", "", "Path to the network config json file, or the json itself")
	addNetworkCmd.Flags().BoolVar(&NetworkForce, "force", false, "Replace a network with the same name")
	networkCmd.AddCommand(addNetworkCmd)
	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(nodesNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
