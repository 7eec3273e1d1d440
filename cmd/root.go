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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/networks"
	"github.com/raise3/raise3/ui"
	"github.com/raise3/raise3/util/logger"
)

var (
	appUI  ui.UI = ui.NewTerminalUI()
	appLog       = zap.NewNop()
	// fileConfig is loaded before any command runs.
	fileConfig = config.DefaultFile()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "raise3",
	Short: "Browse Raise3 crowdfunding campaigns straight from the chain",
	Long: fmt.Sprintf(`Raise3 is a command line tool to read the Raise3 crowdfunding contract:
campaigns, their milestones and the off-chain documents behind them, and
which roles a wallet holds.

Raise3 supports you on different ends:

	1. It lists campaigns page by page, resolving every campaign's
	metadata from IPFS, and searches them by name.

	2. It shows the milestones of a campaign and the campaigns an
	investor has funded.

	3. It checks the founder, investor and manager roles of a wallet,
	and keeps the wallet session flags the web app uses to decide
	where a freshly connected wallet should land.

	4. It pins files and JSON documents to IPFS through Pinata.

	5. It serves all of the above as a read-only JSON API.

Settings are read from %s (override with --config).
Environment variables take precedence over the file:
	1. Contract address: %s
	2. Pinata JWT: %s
	3. IPFS gateway: %s
	4. Redis address: %s
	5. Session store path: %s

You can also add your own node per network by setting the network's node
env var, see "raise3 network list".`,
		filepath.Join(config.DefaultDir(), "config.yaml"),
		config.CONTRACT_VAR,
		config.PINATA_JWT_VAR,
		config.GATEWAY_VAR,
		config.REDIS_ADDR_VAR,
		config.STORE_PATH_VAR,
	),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if config.ConfigPath == "" {
			config.ConfigPath = filepath.Join(config.DefaultDir(), "config.yaml")
		}
		fileConfig, err = config.Load(config.ConfigPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("network") && fileConfig.Network != "" {
			config.Network = fileConfig.Network
		}
		if _, err := networks.LoadCustomNetworks(filepath.Join(config.DefaultDir(), "networks")); err != nil {
			appUI.Warn("Couldn't load custom networks: %s", err)
		}
		appLog, err = logger.New(config.Debug)
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().StringVarP(&config.Network, "network", "k", "sepolia", fmt.Sprintf("network the contract is deployed on. Valid values: %v.", networks.GetSupportedNetworkNames()))
	rootCmd.PersistentFlags().StringVar(&config.ConfigPath, "config", "", "path to the yaml config file")
	rootCmd.PersistentFlags().StringVarP(&config.Contract, "contract", "c", "", "Raise3 contract address. Defaults to the configured or known deployment of the network")
	rootCmd.PersistentFlags().StringVar(&config.Gateway, "gateway", "", "IPFS gateway used to resolve metadata")
	rootCmd.PersistentFlags().BoolVar(&config.Debug, "debug", false, "verbose logging to stderr")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
