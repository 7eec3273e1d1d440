// Package browser turns the Raise3 contract into pages of campaigns and
// milestones: count, index range, records, then metadata. A failing item
// is reported in the item, never for the whole page.
package browser

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/crowdfund"
	"github.com/raise3/raise3/indexer"
	"github.com/raise3/raise3/metadata"
	"github.com/raise3/raise3/util/logger"
)

const DEFAULT_CONCURRENCY = 8

type CampaignItem struct {
	Index    uint64
	Record   *common.CampaignRecord
	Metadata *metadata.CampaignMetadata
	Err      error
}

// Name is the metadata name or a placeholder built from the index.
func (self CampaignItem) Name() string {
	if self.Metadata != nil {
		if n := self.Metadata.DisplayName(); n != "" {
			return n
		}
	}
	return fmt.Sprintf("Campaign #%d", self.Index)
}

type MilestoneItem struct {
	Index    uint64
	Record   *common.MilestoneRecord
	Metadata *metadata.MilestoneMetadata
	Err      error
}

type CampaignPage struct {
	Total  int
	Offset int
	Limit  int
	Items  []CampaignItem
}

type milestoneKey struct {
	campaign  uint64
	milestone uint64
}

type Browser struct {
	contract    *crowdfund.Contract
	loader      *metadata.Loader
	concurrency int
	log         *zap.Logger

	count    *crowdfund.Query[*big.Int]
	expander *indexer.Expander

	mu             sync.Mutex
	campaignMeta   map[uint64]*metadata.Resolver[metadata.CampaignMetadata]
	milestoneMeta  map[milestoneKey]*metadata.Resolver[metadata.MilestoneMetadata]
	milestoneCount map[uint64]*crowdfund.Query[*big.Int]
}

func NewBrowser(contract *crowdfund.Contract, loader *metadata.Loader, concurrency int, log *zap.Logger) *Browser {
	if concurrency <= 0 {
		concurrency = DEFAULT_CONCURRENCY
	}
	log = logger.OrNop(log).Named("browser")
	return &Browser{
		contract:       contract,
		loader:         loader,
		concurrency:    concurrency,
		log:            log,
		count:          contract.CountQuery(),
		expander:       indexer.NewExpander(log),
		campaignMeta:   map[uint64]*metadata.Resolver[metadata.CampaignMetadata]{},
		milestoneMeta:  map[milestoneKey]*metadata.Resolver[metadata.MilestoneMetadata]{},
		milestoneCount: map[uint64]*crowdfund.Query[*big.Int]{},
	}
}

func (self *Browser) campaignResolver(index uint64) *metadata.Resolver[metadata.CampaignMetadata] {
	self.mu.Lock()
	defer self.mu.Unlock()
	r, found := self.campaignMeta[index]
	if !found {
		r = metadata.NewResolver[metadata.CampaignMetadata](self.loader)
		self.campaignMeta[index] = r
	}
	return r
}

func (self *Browser) milestoneResolver(key milestoneKey) *metadata.Resolver[metadata.MilestoneMetadata] {
	self.mu.Lock()
	defer self.mu.Unlock()
	r, found := self.milestoneMeta[key]
	if !found {
		r = metadata.NewResolver[metadata.MilestoneMetadata](self.loader)
		self.milestoneMeta[key] = r
	}
	return r
}

func (self *Browser) milestoneCountQuery(campaign uint64) *crowdfund.Query[*big.Int] {
	self.mu.Lock()
	defer self.mu.Unlock()
	q, found := self.milestoneCount[campaign]
	if !found {
		q = self.contract.MilestoneCountQuery()
		self.milestoneCount[campaign] = q
	}
	return q
}

// Count reads the current number of campaigns and updates the index range.
func (self *Browser) Count(ctx context.Context) (*indexer.IndexMap, error) {
	st := self.count.Refresh(ctx)
	if st.Err != nil {
		// an unknown count empties the range
		self.expander.Update(nil)
		return nil, st.Err
	}
	return self.expander.Update(st.Data), nil
}

// Campaigns returns one page of campaigns. A limit <= 0 returns all of
// them from offset on.
func (self *Browser) Campaigns(ctx context.Context, offset, limit int) (*CampaignPage, error) {
	indexes, err := self.Count(ctx)
	if err != nil {
		return nil, err
	}
	page := &CampaignPage{
		Total:  indexes.Len(),
		Offset: offset,
		Limit:  limit,
	}
	page.Items = self.loadCampaigns(ctx, indexes.Page(offset, limit))
	return page, nil
}

func (self *Browser) Campaign(ctx context.Context, index uint64) CampaignItem {
	return self.loadCampaign(ctx, index)
}

func (self *Browser) loadCampaigns(ctx context.Context, indexes []uint64) []CampaignItem {
	items := make([]CampaignItem, len(indexes))
	g := errgroup.Group{}
	g.SetLimit(self.concurrency)
	for i, index := range indexes {
		i, index := i, index
		g.Go(func() error {
			items[i] = self.loadCampaign(ctx, index)
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (self *Browser) loadCampaign(ctx context.Context, index uint64) CampaignItem {
	item := CampaignItem{Index: index}
	record, err := self.contract.Campaign(ctx, index)
	if err != nil {
		self.log.Debug("campaign read failed", zap.Uint64("index", index), zap.Error(err))
		item.Err = err
		return item
	}
	item.Record = record
	r := self.campaignResolver(index)
	r.Resolve(ctx, record.MetaURL)
	if md, found := r.Get(); found {
		item.Metadata = &md
	}
	return item
}

// Milestones returns every milestone of campaign. The error is set only
// when the milestone count can't be read.
func (self *Browser) Milestones(ctx context.Context, campaign uint64) ([]MilestoneItem, error) {
	st := self.milestoneCountQuery(campaign).Refresh(ctx, new(big.Int).SetUint64(campaign))
	if st.Err != nil {
		return nil, st.Err
	}
	indexes := indexer.ExpandWithLogger(st.Data, self.log).Indexes()
	items := make([]MilestoneItem, len(indexes))
	g := errgroup.Group{}
	g.SetLimit(self.concurrency)
	for i, index := range indexes {
		i, index := i, index
		g.Go(func() error {
			items[i] = self.loadMilestone(ctx, campaign, index)
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}

func (self *Browser) loadMilestone(ctx context.Context, campaign, index uint64) MilestoneItem {
	item := MilestoneItem{Index: index}
	record, err := self.contract.Milestone(ctx, campaign, index)
	if err != nil {
		item.Err = err
		return item
	}
	item.Record = record
	r := self.milestoneResolver(milestoneKey{campaign, index})
	r.Resolve(ctx, record.URL)
	if md, found := r.Get(); found {
		item.Metadata = &md
	}
	return item
}

// InvestorCampaigns lists the campaigns investor has funded.
func (self *Browser) InvestorCampaigns(ctx context.Context, investor ethcommon.Address) ([]CampaignItem, error) {
	ids, err := self.contract.InvestorProjects(ctx, investor)
	if err != nil {
		return nil, err
	}
	seen := map[uint64]bool{}
	unique := []uint64{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return self.loadCampaigns(ctx, unique), nil
}
