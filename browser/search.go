package browser

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"
)

type campaignSource []CampaignItem

func (self campaignSource) Len() int {
	return len(self)
}

func (self campaignSource) String(i int) string {
	return strings.ToLower(self[i].Name())
}

type SearchResult struct {
	CampaignItem
	Score int
}

// Search fuzzy matches pattern against the names of all campaigns, best
// match first. Campaigns that failed to load are skipped.
func (self *Browser) Search(ctx context.Context, pattern string) ([]SearchResult, error) {
	page, err := self.Campaigns(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	source := campaignSource{}
	for _, item := range page.Items {
		if item.Err == nil {
			source = append(source, item)
		}
	}
	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(pattern)), source)
	result := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		result = append(result, SearchResult{
			CampaignItem: source[m.Index],
			Score:        m.Score,
		})
	}
	return result, nil
}
