// Package crowdfundtest provides an in-memory Raise3 contract for tests.
package crowdfundtest

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Campaign struct {
	MetaURL      string
	GoalAmount   *big.Int
	TotalRaised  *big.Int
	Founder      ethcommon.Address
	TokenAddress ethcommon.Address
	Status       uint8
	Milestones   []Milestone
}

type Milestone struct {
	URL        string
	Proof      string
	IsApproved bool
	Amount     *big.Int
	Completed  bool
}

// Chain answers calls by packing outputs with the real abi and unpacking
// them into the caller's result, so decoding runs exactly as against a node.
type Chain struct {
	mu        sync.Mutex
	Campaigns []Campaign
	Roles     map[[32]byte]map[ethcommon.Address]bool
	Investors map[ethcommon.Address][]uint64
	// Failures makes a method fail; the key is the method name, optionally
	// followed by "/" and the first argument, e.g. "campaigns/2".
	Failures map[string]error
	// Hook runs before every call, e.g. to block on a channel.
	Hook  func(method string, args ...interface{})
	calls map[string]int
}

func NewChain() *Chain {
	return &Chain{
		Roles:     map[[32]byte]map[ethcommon.Address]bool{},
		Investors: map[ethcommon.Address][]uint64{},
		Failures:  map[string]error{},
		calls:     map[string]int{},
	}
}

func RoleHash(name string) [32]byte {
	return crypto.Keccak256Hash([]byte(name))
}

func (c *Chain) Grant(role string, account ethcommon.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := RoleHash(role)
	if c.Roles[h] == nil {
		c.Roles[h] = map[ethcommon.Address]bool{}
	}
	c.Roles[h][account] = true
}

func (c *Chain) Fail(key string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Failures[key] = err
}

// Calls returns how many times method was called.
func (c *Chain) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *Chain) ReadContractWithABI(
	ctx context.Context,
	result interface{},
	caddr string,
	a *abi.ABI,
	method string,
	args ...interface{},
) error {
	if hook := c.hook(); hook != nil {
		hook(method, args...)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	outputs, err := c.answer(method, args...)
	if err != nil {
		return err
	}
	m, found := a.Methods[method]
	if !found {
		return fmt.Errorf("method '%s' not found", method)
	}
	packed, err := m.Outputs.Pack(outputs...)
	if err != nil {
		return err
	}
	return a.UnpackIntoInterface(result, method, packed)
}

func (c *Chain) hook() func(string, ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Hook
}

func (c *Chain) answer(method string, args ...interface{}) ([]interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	if err, found := c.Failures[method]; found {
		return nil, err
	}
	if len(args) > 0 {
		if err, found := c.Failures[fmt.Sprintf("%s/%v", method, args[0])]; found {
			return nil, err
		}
	}

	switch method {
	case "campaignCount":
		return []interface{}{big.NewInt(int64(len(c.Campaigns)))}, nil
	case "campaigns":
		cam, err := c.campaign(args[0])
		if err != nil {
			return nil, err
		}
		return []interface{}{
			cam.MetaURL, orZero(cam.GoalAmount), orZero(cam.TotalRaised),
			cam.Founder, cam.TokenAddress, big.NewInt(int64(len(cam.Milestones))), cam.Status,
		}, nil
	case "getMilestoneCount":
		cam, err := c.campaign(args[0])
		if err != nil {
			return nil, err
		}
		return []interface{}{big.NewInt(int64(len(cam.Milestones)))}, nil
	case "getMilestone":
		cam, err := c.campaign(args[0])
		if err != nil {
			return nil, err
		}
		j := args[1].(*big.Int).Uint64()
		if j >= uint64(len(cam.Milestones)) {
			return nil, fmt.Errorf("execution reverted: invalid milestone")
		}
		m := cam.Milestones[j]
		return []interface{}{m.URL, m.Proof, m.IsApproved, orZero(m.Amount), m.Completed}, nil
	case "hasRole":
		role := args[0].([32]byte)
		account := args[1].(ethcommon.Address)
		return []interface{}{c.Roles[role][account]}, nil
	case "getInvestorProjects":
		ids := []*big.Int{}
		for _, id := range c.Investors[args[0].(ethcommon.Address)] {
			ids = append(ids, new(big.Int).SetUint64(id))
		}
		return []interface{}{ids}, nil
	case "getInvestment":
		return []interface{}{big.NewInt(0)}, nil
	case "FOUNDER_ROLE", "INVESTOR_ROLE", "MANAGER_ROLE":
		return []interface{}{RoleHash(method)}, nil
	}
	return nil, fmt.Errorf("execution reverted: unsupported method %s", strings.TrimSpace(method))
}

func (c *Chain) campaign(arg interface{}) (Campaign, error) {
	i := arg.(*big.Int).Uint64()
	if i >= uint64(len(c.Campaigns)) {
		return Campaign{}, fmt.Errorf("execution reverted: invalid campaign")
	}
	return c.Campaigns[i], nil
}

func orZero(b *big.Int) *big.Int {
	if b == nil {
		return big.NewInt(0)
	}
	return b
}
