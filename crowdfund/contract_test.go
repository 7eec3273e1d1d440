package crowdfund_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/crowdfund"
	"github.com/raise3/raise3/crowdfund/crowdfundtest"
)

var founder = ethcommon.HexToAddress("0x1111111111111111111111111111111111111111")

func newChain() *crowdfundtest.Chain {
	chain := crowdfundtest.NewChain()
	chain.Campaigns = []crowdfundtest.Campaign{
		{
			MetaURL:     "ipfs://campaign0",
			GoalAmount:  big.NewInt(1000),
			TotalRaised: big.NewInt(250),
			Founder:     founder,
			Status:      1,
			Milestones: []crowdfundtest.Milestone{
				{URL: "ipfs://m0", Amount: big.NewInt(100), IsApproved: true},
				{URL: "ipfs://m1", Proof: "ipfs://proof1", Amount: big.NewInt(200), Completed: true},
			},
		},
		{MetaURL: "ipfs://campaign1", Status: 9},
	}
	return chain
}

func TestContractCampaign(t *testing.T) {
	c := crowdfund.NewContract("0xc0ffee", newChain())
	ctx := context.Background()

	count, err := c.CampaignCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Int64())

	cam, err := c.Campaign(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cam.Index)
	assert.Equal(t, "ipfs://campaign0", cam.MetaURL)
	assert.Equal(t, int64(1000), cam.GoalAmount.Int64())
	assert.Equal(t, founder, cam.Founder)
	assert.Equal(t, uint64(2), cam.MilestoneCount)
	assert.Equal(t, common.StatusActive, cam.Status)
	assert.InDelta(t, 25.0, cam.Progress(), 0.0001)

	cam, err = c.Campaign(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, common.StatusUnknown, cam.Status)

	_, err = c.Campaign(ctx, 5)
	assert.Error(t, err)
}

func TestContractMilestone(t *testing.T) {
	c := crowdfund.NewContract("0xc0ffee", newChain())
	ctx := context.Background()

	count, err := c.MilestoneCount(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count.Int64())

	m, err := c.Milestone(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), m.CampaignIndex)
	assert.Equal(t, uint64(1), m.Index)
	assert.Equal(t, "ipfs://m1", m.URL)
	assert.Equal(t, "ipfs://proof1", m.Proof)
	assert.False(t, m.IsApproved)
	assert.Equal(t, int64(200), m.Amount.Int64())
	assert.True(t, m.Completed)

	_, err = c.Milestone(ctx, 0, 2)
	assert.ErrorContains(t, err, "milestone 2 of campaign 0")
}

func TestContractRolesAndInvestors(t *testing.T) {
	chain := newChain()
	investor := ethcommon.HexToAddress("0x2222222222222222222222222222222222222222")
	chain.Grant("INVESTOR_ROLE", investor)
	chain.Investors[investor] = []uint64{0, 1}
	c := crowdfund.NewContract("0xc0ffee", chain)
	ctx := context.Background()

	hash, err := c.RoleHash(ctx, "INVESTOR_ROLE")
	require.NoError(t, err)
	assert.Equal(t, crowdfundtest.RoleHash("INVESTOR_ROLE"), hash)

	ok, err := c.HasRole(ctx, hash, investor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.HasRole(ctx, hash, founder)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := c.InvestorProjects(ctx, investor)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1}, ids)

	ids, err = c.InvestorProjects(ctx, founder)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestContractReadError(t *testing.T) {
	chain := newChain()
	chain.Fail("campaignCount", errors.New("connection refused"))
	c := crowdfund.NewContract("0xc0ffee", chain)

	_, err := c.CampaignCount(context.Background())
	assert.ErrorContains(t, err, "connection refused")
}
