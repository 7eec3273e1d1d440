package cmd

import (
	"github.com/spf13/cobra"
)

const (
	VERSION string = "0.3.0"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show raise3 version",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		appUI.Info("Version: %s", VERSION)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
