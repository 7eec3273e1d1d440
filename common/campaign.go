package common

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// CampaignRecord is a campaign as stored by the Raise3 contract. It is
// identified by its index in 0..campaignCount-1.
type CampaignRecord struct {
	Index          uint64
	MetaURL        string
	GoalAmount     *big.Int
	TotalRaised    *big.Int
	Founder        common.Address
	TokenAddress   common.Address
	MilestoneCount uint64
	Status         CampaignStatus
}

// Progress returns the raised share of the goal in percent.
func (self *CampaignRecord) Progress() float64 {
	if self.GoalAmount == nil || self.GoalAmount.Sign() == 0 || self.TotalRaised == nil {
		return 0
	}
	raised := new(big.Float).SetInt(self.TotalRaised)
	goal := new(big.Float).SetInt(self.GoalAmount)
	pct, _ := new(big.Float).Quo(new(big.Float).Mul(raised, big.NewFloat(100)), goal).Float64()
	return pct
}

// MilestoneRecord is keyed by (CampaignIndex, Index).
type MilestoneRecord struct {
	CampaignIndex uint64
	Index         uint64
	URL           string
	Proof         string
	IsApproved    bool
	Amount        *big.Int
	Completed     bool
}
