package metadata

import "strings"

// Loose is a string field that documents sometimes store as a number.
// Numbers are kept in their decimal form.
type Loose string

type TeamMember struct {
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type Link struct {
	Label string `json:"label,omitempty"`
	URL   string `json:"url,omitempty"`
}

// CampaignMetadata is the document behind a campaign's metaURL.
type CampaignMetadata struct {
	Name        string            `json:"name,omitempty"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	Image       string            `json:"image,omitempty"`
	Website     string            `json:"website,omitempty"`
	Team        []TeamMember      `json:"team,omitempty"`
	Links       []Link            `json:"links,omitempty"`
	Socials     map[string]string `json:"socials,omitempty"`
}

// DisplayName prefers name over title.
func (self CampaignMetadata) DisplayName() string {
	if n := strings.TrimSpace(self.Name); n != "" {
		return n
	}
	return strings.TrimSpace(self.Title)
}

type MilestoneMetadata struct {
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	TargetDate   Loose    `json:"targetDate,omitempty"`
	Status       string   `json:"status,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
	Budget       Loose    `json:"budget,omitempty"`
}
