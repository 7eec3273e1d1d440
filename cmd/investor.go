package cmd

import (
	"github.com/spf13/cobra"

	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/config"
)

var investorCmd = &cobra.Command{
	Use:   "investor [address]",
	Short: "List the campaigns an investor has funded",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		investor, err := common.ParseAddress(args[0])
		if err != nil {
			return err
		}
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		stop := appUI.Spinner("reading funded campaigns")
		items, err := e.browser.InvestorCampaigns(cmd.Context(), investor)
		stop()
		if err != nil {
			appUI.Error("Couldn't read the campaigns of %s: %s", investor.Hex(), err)
			return err
		}
		if config.JSONOutput {
			return printJSON(appUI, campaignViews(items))
		}
		if len(items) == 0 {
			appUI.Info("%s hasn't funded any campaign", investor.Hex())
			return nil
		}
		appUI.Section("Funded by " + common.ShortAddress(investor))
		renderCampaigns(appUI, items)
		return nil
	},
}

func init() {
	investorCmd.Flags().BoolVar(&config.JSONOutput, "json", false, "print json instead of tables")
	rootCmd.AddCommand(investorCmd)
}
