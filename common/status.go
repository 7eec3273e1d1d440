package common

import "github.com/raise3/raise3/ui"

// CampaignStatus mirrors the uint8 status enum of the Raise3 contract.
type CampaignStatus uint8

const (
	StatusReview CampaignStatus = iota
	StatusActive
	StatusCompleted
	StatusFlagged

	// StatusUnknown is never emitted by the contract. Out of range values
	// are folded into it so they still render.
	StatusUnknown CampaignStatus = 255
)

// StatusFromUint8 maps the raw contract value onto the closed set of
// statuses.
func StatusFromUint8(v uint8) CampaignStatus {
	switch CampaignStatus(v) {
	case StatusReview, StatusActive, StatusCompleted, StatusFlagged:
		return CampaignStatus(v)
	}
	return StatusUnknown
}

func (s CampaignStatus) String() string {
	switch s {
	case StatusReview:
		return "review"
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusFlagged:
		return "flagged"
	default:
		return "unknown"
	}
}

// Styled is the presentation of a status. Unknown statuses get a neutral
// label rather than nothing.
func (s CampaignStatus) Styled() ui.StyledText {
	switch s {
	case StatusReview:
		return ui.StyledText{Text: "In review", Severity: ui.SeverityWarn}
	case StatusActive:
		return ui.StyledText{Text: "Active", Severity: ui.SeveritySuccess}
	case StatusCompleted:
		return ui.StyledText{Text: "Completed", Severity: ui.SeverityCritical}
	case StatusFlagged:
		return ui.StyledText{Text: "Flagged", Severity: ui.SeverityError}
	default:
		return ui.StyledText{Text: "Unknown", Severity: ui.SeverityInfo}
	}
}

// AcceptsFunding reports whether investors can fund a campaign in status s.
func (s CampaignStatus) AcceptsFunding() bool {
	return s == StatusActive
}
