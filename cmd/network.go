package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/networks"
	"github.com/raise3/raise3/ui"
)

var NetworkConfig string

var addNetworkCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new network to the supported networks list locally",
	Long: `--json flag is supported to pass a new network config json filepath OR pass a json string. The json should be in the following format:
	{
		"name": "network_name",
		"alternative_names": ["alternative_name_1", "alternative_name_2"],
		"chain_id": 1,
		"native_token_symbol": "ETH",
		"native_token_decimal": 18,
		"block_time": 12,
		"node_variable_name": "RAISE3_NODE_1",
		"default_nodes": {
			"node_name_1": "node_url_1",
			"node_name_2": "node_url_2"
		},
		"default_raise3_contract": "0x..."
	}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := strings.TrimSpace(NetworkConfig)
		if raw == "" {
			return fmt.Errorf("pass the network json or a path to it with --json")
		}
		var content []byte
		if strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}") {
			content = []byte(raw)
		} else {
			// in this case, config is supposed to be a path to a json file
			jsonFile, err := os.Open(raw)
			if err != nil {
				return fmt.Errorf("couldn't open the provided json file: %w", err)
			}
			defer jsonFile.Close()
			content, err = io.ReadAll(jsonFile)
			if err != nil {
				return fmt.Errorf("couldn't read the provided json file: %w", err)
			}
		}
		newNetwork, err := networks.NewNetworkFromJSON(content)
		if err != nil {
			return fmt.Errorf("the provided json is not a valid network config: %w", err)
		}
		if _, err := networks.GetNetwork(newNetwork.GetName()); err == nil {
			return fmt.Errorf("network %s already exists", newNetwork.GetName())
		}
		dir := filepath.Join(config.DefaultDir(), "networks")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		encoded, err := newNetwork.MarshalJSON()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, newNetwork.GetName()+".json")
		if err := os.WriteFile(path, encoded, 0o644); err != nil {
			return err
		}
		appUI.Success("Network %s with chain ID %d saved to %s", newNetwork.GetName(), newNetwork.GetChainID(), path)
		return nil
	},
}

var listNetworkCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all of supported networks",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		renderNetworks(appUI, networks.GetSupportedNetworkNames())
		appUI.Info("")
		appUI.Info("If you want to add more networks to the list, use following command:\n> raise3 network add")
	},
}

func renderNetworks(u ui.UI, names []string) {
	rows := [][]string{}
	for _, name := range names {
		n, err := networks.GetNetwork(name)
		if err != nil {
			continue
		}
		nodes := networks.GetNodes(n)
		nodeNames := make([]string, 0, len(nodes))
		for k := range nodes {
			nodeNames = append(nodeNames, k)
		}
		sort.Strings(nodeNames)
		contract := n.GetDefaultRaise3Contract()
		if contract == "" {
			contract = "-"
		}
		rows = append(rows, []string{
			n.GetName(),
			fmt.Sprintf("%d", n.GetChainID()),
			strings.Join(nodeNames, ", "),
			n.GetNodeVariableName(),
			contract,
		})
	}
	u.Table([]string{"Name", "Chain ID", "Nodes", "Node env var", "Raise3 contract"}, rows)
}

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Manage all networks that raise3 supports",
	Long:  ``,
}

func init() {
	addNetworkCmd.Flags().StringVar(&NetworkConfig, "json", "", "network config json or the path to a json file")
	networkCmd.AddCommand(listNetworkCmd)
	networkCmd.AddCommand(addNetworkCmd)
	rootCmd.AddCommand(networkCmd)
}
