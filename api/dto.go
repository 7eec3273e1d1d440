package api

import (
	"github.com/raise3/raise3/browser"
	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/metadata"
	"github.com/raise3/raise3/roles"
)

// CampaignView is the JSON form of a campaign item. Amounts are decimal
// strings in the smallest unit.
type CampaignView struct {
	Index          uint64                     `json:"index"`
	Name           string                     `json:"name"`
	MetaURL        string                     `json:"metaURL,omitempty"`
	GoalAmount     string                     `json:"goalAmount,omitempty"`
	TotalRaised    string                     `json:"totalRaised,omitempty"`
	Progress       float64                    `json:"progress"`
	Founder        string                     `json:"founder,omitempty"`
	TokenAddress   string                     `json:"tokenAddress,omitempty"`
	MilestoneCount uint64                     `json:"milestoneCount"`
	Status         string                     `json:"status,omitempty"`
	AcceptsFunding bool                       `json:"acceptsFunding"`
	Metadata       *metadata.CampaignMetadata `json:"metadata"`
	Error          string                     `json:"error,omitempty"`
}

func NewCampaignView(item browser.CampaignItem) CampaignView {
	result := CampaignView{
		Index:    item.Index,
		Name:     item.Name(),
		Metadata: item.Metadata,
	}
	if item.Err != nil {
		result.Error = item.Err.Error()
		return result
	}
	r := item.Record
	result.MetaURL = r.MetaURL
	result.GoalAmount = common.BigToString(r.GoalAmount)
	result.TotalRaised = common.BigToString(r.TotalRaised)
	result.Progress = r.Progress()
	result.Founder = r.Founder.Hex()
	result.TokenAddress = r.TokenAddress.Hex()
	result.MilestoneCount = r.MilestoneCount
	result.Status = r.Status.String()
	result.AcceptsFunding = r.Status.AcceptsFunding()
	return result
}

type CampaignPageView struct {
	Total  int            `json:"total"`
	Offset int            `json:"offset"`
	Limit  int            `json:"limit"`
	Items  []CampaignView `json:"items"`
}

type MilestoneView struct {
	Index      uint64                      `json:"index"`
	URL        string                      `json:"url,omitempty"`
	Proof      string                      `json:"proof,omitempty"`
	IsApproved bool                        `json:"isApproved"`
	Amount     string                      `json:"amount,omitempty"`
	Completed  bool                        `json:"completed"`
	Metadata   *metadata.MilestoneMetadata `json:"metadata"`
	Error      string                      `json:"error,omitempty"`
}

func NewMilestoneView(item browser.MilestoneItem) MilestoneView {
	result := MilestoneView{
		Index:    item.Index,
		Metadata: item.Metadata,
	}
	if item.Err != nil {
		result.Error = item.Err.Error()
		return result
	}
	result.URL = item.Record.URL
	result.Proof = item.Record.Proof
	result.IsApproved = item.Record.IsApproved
	result.Amount = common.BigToString(item.Record.Amount)
	result.Completed = item.Record.Completed
	return result
}

// roleJSON is null while pending so callers can tell it apart from false.
type roleJSON struct {
	Value *bool  `json:"value"`
	Error string `json:"error,omitempty"`
}

func toRoleJSON(st roles.State) roleJSON {
	if st.Pending {
		return roleJSON{}
	}
	if st.Err != nil {
		return roleJSON{Error: st.Err.Error()}
	}
	v := st.Value
	return roleJSON{Value: &v}
}

type rolesJSON struct {
	Address  string   `json:"address"`
	Founder  roleJSON `json:"founder"`
	Investor roleJSON `json:"investor"`
	Manager  roleJSON `json:"manager"`
}
