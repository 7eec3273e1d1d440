package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/roles"
	"github.com/raise3/raise3/ui"
)

const ROLE_TIMEOUT = 20 * time.Second

var rolesCmd = &cobra.Command{
	Use:   "roles [address]",
	Short: "Check which Raise3 roles a wallet holds",
	Long: `Check the founder, investor and manager roles of a wallet. The three
checks are independent: a failed check is reported on its own line and
doesn't hide the others.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := common.ParseAddress(args[0])
		if err != nil {
			return err
		}
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), ROLE_TIMEOUT)
		defer cancel()
		stop := appUI.Spinner("checking roles")
		set := e.roles.Lookup(ctx, account).Wait(ctx)
		stop()
		renderRoleSet(appUI, account.Hex(), set)
		return nil
	},
}

var verifyRolesCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare the role hashes used by raise3 with the contract's constants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		block, err := e.verifyDeployment(cmd.Context())
		if err != nil {
			appUI.Critical("%s", err)
			return err
		}
		if err := e.roles.Verify(cmd.Context()); err != nil {
			appUI.Error("%s", err)
			return err
		}
		appUI.Success("Role hashes match the contract at %s (%s, block %d)", e.contract.Address, e.network.GetName(), block)
		return nil
	},
}

func roleText(st roles.State) ui.StyledText {
	switch {
	case st.Pending:
		return ui.StyledText{Text: "still pending", Severity: ui.SeverityWarn}
	case st.Err != nil:
		return ui.StyledText{Text: "couldn't check: " + st.Err.Error(), Severity: ui.SeverityError}
	case st.Value:
		return ui.StyledText{Text: "yes", Severity: ui.SeveritySuccess}
	}
	return ui.StyledText{Text: "no", Severity: ui.SeverityInfo}
}

func renderRoleSet(u ui.UI, account string, set roles.RoleSet) {
	u.Section("Roles of " + account)
	u.KeyValue([][2]string{
		{"Founder", u.Style(roleText(set.Founder))},
		{"Investor", u.Style(roleText(set.Investor))},
		{"Manager", u.Style(roleText(set.Manager))},
	})
}

func init() {
	rolesCmd.AddCommand(verifyRolesCmd)
	rootCmd.AddCommand(rolesCmd)
}
