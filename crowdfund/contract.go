package crowdfund

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/raise3/raise3/common"
)

// Contract is a read-only binding of the Raise3 crowdfunding contract.
type Contract struct {
	Address string
	reader  Reader
	Abi     *abi.ABI
}

func NewContract(address string, r Reader) *Contract {
	return &Contract{
		Address: address,
		reader:  r,
		Abi:     GetRaise3ABI(),
	}
}

func (self *Contract) read(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return self.reader.ReadContractWithABI(ctx, result, self.Address, self.Abi, method, args...)
}

func (self *Contract) CampaignCount(ctx context.Context) (*big.Int, error) {
	var res *big.Int
	err := self.read(ctx, &res, "campaignCount")
	return res, err
}

type campaignResponse struct {
	MetaURL        string
	GoalAmount     *big.Int
	TotalRaised    *big.Int
	Founder        ethcommon.Address
	TokenAddress   ethcommon.Address
	MilestoneCount *big.Int
	Status         uint8
}

func (self *Contract) Campaign(ctx context.Context, index uint64) (*common.CampaignRecord, error) {
	res := campaignResponse{}
	if err := self.read(ctx, &res, "campaigns", new(big.Int).SetUint64(index)); err != nil {
		return nil, fmt.Errorf("campaign %d: %w", index, err)
	}
	return &common.CampaignRecord{
		Index:          index,
		MetaURL:        res.MetaURL,
		GoalAmount:     res.GoalAmount,
		TotalRaised:    res.TotalRaised,
		Founder:        res.Founder,
		TokenAddress:   res.TokenAddress,
		MilestoneCount: bigToUint64(res.MilestoneCount),
		Status:         common.StatusFromUint8(res.Status),
	}, nil
}

func (self *Contract) MilestoneCount(ctx context.Context, campaign uint64) (*big.Int, error) {
	var res *big.Int
	err := self.read(ctx, &res, "getMilestoneCount", new(big.Int).SetUint64(campaign))
	return res, err
}

type milestoneResponse struct {
	Url        string
	Proof      string
	IsApproved bool
	Amount     *big.Int
	Completed  bool
}

func (self *Contract) Milestone(ctx context.Context, campaign, milestone uint64) (*common.MilestoneRecord, error) {
	res := milestoneResponse{}
	err := self.read(ctx, &res, "getMilestone",
		new(big.Int).SetUint64(campaign),
		new(big.Int).SetUint64(milestone),
	)
	if err != nil {
		return nil, fmt.Errorf("milestone %d of campaign %d: %w", milestone, campaign, err)
	}
	return &common.MilestoneRecord{
		CampaignIndex: campaign,
		Index:         milestone,
		URL:           res.Url,
		Proof:         res.Proof,
		IsApproved:    res.IsApproved,
		Amount:        res.Amount,
		Completed:     res.Completed,
	}, nil
}

func (self *Contract) HasRole(ctx context.Context, role [32]byte, account ethcommon.Address) (bool, error) {
	var res bool
	err := self.read(ctx, &res, "hasRole", role, account)
	return res, err
}

// InvestorProjects returns the indexes of the campaigns funded by investor.
func (self *Contract) InvestorProjects(ctx context.Context, investor ethcommon.Address) ([]uint64, error) {
	res := []*big.Int{}
	if err := self.read(ctx, &res, "getInvestorProjects", investor); err != nil {
		return nil, err
	}
	result := make([]uint64, 0, len(res))
	for _, id := range res {
		result = append(result, bigToUint64(id))
	}
	return result, nil
}

func (self *Contract) Investment(ctx context.Context, campaign uint64, investor ethcommon.Address) (*big.Int, error) {
	var res *big.Int
	err := self.read(ctx, &res, "getInvestment", new(big.Int).SetUint64(campaign), investor)
	return res, err
}

// RoleHash reads a role constant such as FOUNDER_ROLE from the contract.
func (self *Contract) RoleHash(ctx context.Context, constant string) ([32]byte, error) {
	var res [32]byte
	err := self.read(ctx, &res, constant)
	return res, err
}

func (self *Contract) CountQuery() *Query[*big.Int] {
	q, _ := NewQuery[*big.Int](self.reader, self.Address, self.Abi, "campaignCount")
	return q
}

func (self *Contract) MilestoneCountQuery() *Query[*big.Int] {
	q, _ := NewQuery[*big.Int](self.reader, self.Address, self.Abi, "getMilestoneCount")
	return q
}

func (self *Contract) HasRoleQuery() *Query[bool] {
	q, _ := NewQuery[bool](self.reader, self.Address, self.Abi, "hasRole")
	return q
}

func bigToUint64(b *big.Int) uint64 {
	if b == nil || b.Sign() < 0 || !b.IsUint64() {
		return 0
	}
	return b.Uint64()
}
