package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raise3/raise3/api"
	"github.com/raise3/raise3/browser"
	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/ui"
)

const NAME_WIDTH = 40

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List campaigns page by page",
	Long: `List the campaigns of the Raise3 contract with their on-chain numbers
and the name found in their metadata. Use --offset and --limit to page and
--search to fuzzy match campaign names.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		if config.Search != "" {
			stop := appUI.Spinner("searching campaigns")
			results, err := e.browser.Search(ctx, config.Search)
			stop()
			if err != nil {
				appUI.Error("Couldn't read the campaign count: %s", err)
				return err
			}
			items := make([]browser.CampaignItem, 0, len(results))
			for _, r := range results {
				items = append(items, r.CampaignItem)
			}
			if config.JSONOutput {
				return printJSON(appUI, campaignViews(items))
			}
			if len(items) == 0 {
				appUI.Warn("No campaign matches '%s'", config.Search)
				return nil
			}
			renderCampaigns(appUI, items)
			return nil
		}

		stop := appUI.Spinner("reading campaigns")
		page, err := e.browser.Campaigns(ctx, config.Offset, config.Limit)
		stop()
		if err != nil {
			appUI.Error("Couldn't read the campaign count: %s", err)
			return err
		}
		if config.JSONOutput {
			return printJSON(appUI, api.CampaignPageView{
				Total:  page.Total,
				Offset: page.Offset,
				Limit:  page.Limit,
				Items:  campaignViews(page.Items),
			})
		}
		renderCampaignPage(appUI, page)
		return nil
	},
}

var campaignCmd = &cobra.Command{
	Use:   "campaign [index]",
	Short: "Show one campaign with its metadata and milestones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("campaign index must be a non negative integer: %w", err)
		}
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		stop := appUI.Spinner(fmt.Sprintf("reading campaign %d", index))
		item, milestones, err := loadCampaignDetail(cmd.Context(), e.browser, index)
		stop()
		if item.Err != nil {
			appUI.Error("Couldn't read campaign %d: %s", index, item.Err)
			return item.Err
		}
		if config.JSONOutput {
			views := []api.MilestoneView{}
			for _, m := range milestones {
				views = append(views, api.NewMilestoneView(m))
			}
			return printJSON(appUI, struct {
				api.CampaignView
				Milestones []api.MilestoneView `json:"milestones"`
			}{api.NewCampaignView(item), views})
		}
		renderCampaign(appUI, e.network.GetNativeTokenDecimal(), item)
		if err != nil {
			appUI.Error("Couldn't read the milestone count: %s", err)
			return nil
		}
		renderMilestones(appUI, e.network.GetNativeTokenDecimal(), milestones)
		return nil
	},
}

func loadCampaignDetail(ctx context.Context, b *browser.Browser, index uint64) (browser.CampaignItem, []browser.MilestoneItem, error) {
	item := b.Campaign(ctx, index)
	if item.Err != nil {
		return item, nil, nil
	}
	milestones, err := b.Milestones(ctx, index)
	return item, milestones, err
}

func campaignViews(items []browser.CampaignItem) []api.CampaignView {
	result := make([]api.CampaignView, 0, len(items))
	for _, item := range items {
		result = append(result, api.NewCampaignView(item))
	}
	return result
}

func printJSON(u ui.UI, v interface{}) error {
	enc := json.NewEncoder(u.Writer())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderCampaignPage(u ui.UI, page *browser.CampaignPage) {
	if page.Total == 0 {
		u.Warn("The contract has no campaigns yet")
		return
	}
	last := page.Offset + len(page.Items)
	u.Section(fmt.Sprintf("Campaigns %d-%d of %d", page.Offset, last, page.Total))
	if len(page.Items) == 0 {
		u.Warn("Offset %d is past the last campaign", page.Offset)
		return
	}
	renderCampaigns(u, page.Items)
}

func renderCampaigns(u ui.UI, items []browser.CampaignItem) {
	rows := [][]string{}
	for _, item := range items {
		if item.Err != nil {
			rows = append(rows, []string{
				strconv.FormatUint(item.Index, 10),
				u.Style(ui.StyledText{Text: "unavailable", Severity: ui.SeverityError}),
				"", "", "",
			})
			continue
		}
		rows = append(rows, []string{
			strconv.FormatUint(item.Index, 10),
			ui.Truncate(item.Name(), NAME_WIDTH),
			u.Style(item.Record.Status.Styled()),
			fmt.Sprintf("%.1f%%", item.Record.Progress()),
			common.ShortAddress(item.Record.Founder),
		})
	}
	u.Table([]string{"#", "Name", "Status", "Raised", "Founder"}, rows)
}

func renderCampaign(u ui.UI, decimals uint64, item browser.CampaignItem) {
	r := item.Record
	u.Section(item.Name())
	u.KeyValue([][2]string{
		{"Index", strconv.FormatUint(item.Index, 10)},
		{"Status", u.Style(r.Status.Styled())},
		{"Goal", common.FormatAmount(r.GoalAmount, decimals)},
		{"Raised", fmt.Sprintf("%s (%.1f%%)", common.FormatAmount(r.TotalRaised, decimals), r.Progress())},
		{"Founder", r.Founder.Hex()},
		{"Token", r.TokenAddress.Hex()},
		{"Metadata", r.MetaURL},
	})
	if item.Metadata == nil {
		if r.MetaURL != "" {
			u.Warn("Metadata is not available")
		}
		return
	}
	md := item.Metadata
	sub := u.Indent()
	if md.Description != "" {
		sub.Info("%s", md.Description)
	}
	rows := [][2]string{}
	if md.Category != "" {
		rows = append(rows, [2]string{"Category", md.Category})
	}
	if md.Website != "" {
		rows = append(rows, [2]string{"Website", md.Website})
	}
	for _, member := range md.Team {
		rows = append(rows, [2]string{"Team", fmt.Sprintf("%s (%s)", member.Name, member.Role)})
	}
	for _, link := range md.Links {
		rows = append(rows, [2]string{link.Label, link.URL})
	}
	if len(rows) > 0 {
		sub.KeyValue(rows)
	}
}

func renderMilestones(u ui.UI, decimals uint64, items []browser.MilestoneItem) {
	u.Section(fmt.Sprintf("Milestones (%d)", len(items)))
	if len(items) == 0 {
		u.Info("No milestones")
		return
	}
	rows := [][]string{}
	for _, m := range items {
		if m.Err != nil {
			rows = append(rows, []string{
				strconv.FormatUint(m.Index, 10),
				u.Style(ui.StyledText{Text: "unavailable", Severity: ui.SeverityError}),
				"", "", "",
			})
			continue
		}
		title := fmt.Sprintf("Milestone #%d", m.Index)
		target := ""
		if m.Metadata != nil {
			if m.Metadata.Title != "" {
				title = m.Metadata.Title
			}
			target = string(m.Metadata.TargetDate)
		}
		rows = append(rows, []string{
			strconv.FormatUint(m.Index, 10),
			title,
			common.FormatAmount(m.Record.Amount, decimals),
			milestoneState(u, m),
			target,
		})
	}
	u.Table([]string{"#", "Title", "Amount", "State", "Target"}, rows)
}

func milestoneState(u ui.UI, m browser.MilestoneItem) string {
	switch {
	case m.Record.Completed:
		return u.Style(ui.StyledText{Text: "completed", Severity: ui.SeverityCritical})
	case m.Record.IsApproved:
		return u.Style(ui.StyledText{Text: "approved", Severity: ui.SeveritySuccess})
	}
	return u.Style(ui.StyledText{Text: "pending", Severity: ui.SeverityWarn})
}

func init() {
	campaignsCmd.Flags().IntVarP(&config.Offset, "offset", "o", 0, "index of the first campaign to show")
	campaignsCmd.Flags().IntVarP(&config.Limit, "limit", "l", 20, "number of campaigns to show, 0 shows all")
	campaignsCmd.Flags().StringVarP(&config.Search, "search", "s", "", "fuzzy search campaigns by name")
	campaignsCmd.Flags().IntVar(&config.Concurrency, "concurrency", 0, "number of campaigns read at once")
	for _, c := range []*cobra.Command{campaignsCmd, campaignCmd} {
		c.Flags().BoolVar(&config.JSONOutput, "json", false, "print json instead of tables")
	}
	rootCmd.AddCommand(campaignsCmd)
	rootCmd.AddCommand(campaignCmd)
}
