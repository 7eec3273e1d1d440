// Package roles answers which of the Raise3 roles a wallet holds. The
// three checks run independently: one failing never affects the others.
package roles

import (
	"context"
	"errors"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/raise3/raise3/crowdfund"
	"github.com/raise3/raise3/util/logger"
)

type Role string

const (
	Founder  Role = "FOUNDER_ROLE"
	Investor Role = "INVESTOR_ROLE"
	Manager  Role = "MANAGER_ROLE"
)

var ALL_ROLES = []Role{Founder, Investor, Manager}

func (self Role) Hash() [32]byte {
	return crypto.Keccak256Hash([]byte(self))
}

// DefaultRoleHashes are the OpenZeppelin AccessControl identifiers,
// keccak256 of the role name.
func DefaultRoleHashes() map[Role][32]byte {
	result := map[Role][32]byte{}
	for _, r := range ALL_ROLES {
		result[r] = r.Hash()
	}
	return result
}

type Resolver struct {
	contract *crowdfund.Contract
	hashes   map[Role][32]byte
	log      *zap.Logger
}

// NewResolver uses DefaultRoleHashes when hashes is nil.
func NewResolver(contract *crowdfund.Contract, hashes map[Role][32]byte, log *zap.Logger) *Resolver {
	if hashes == nil {
		hashes = DefaultRoleHashes()
	}
	return &Resolver{
		contract: contract,
		hashes:   hashes,
		log:      logger.OrNop(log).Named("roles"),
	}
}

// Verify reads the role constants from the contract and reports every one
// that differs from the hash this resolver checks with.
func (self *Resolver) Verify(ctx context.Context) error {
	errs := []error{}
	for _, r := range ALL_ROLES {
		onchain, err := self.contract.RoleHash(ctx, string(r))
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", r, err))
			continue
		}
		if onchain != self.hashes[r] {
			errs = append(errs, fmt.Errorf(
				"%s mismatch: contract has %s, configured %s",
				r, ethcommon.Hash(onchain).Hex(), ethcommon.Hash(self.hashes[r]).Hex(),
			))
		}
	}
	return errors.Join(errs...)
}

// Lookup starts the three checks for account and returns right away.
func (self *Resolver) Lookup(ctx context.Context, account ethcommon.Address) *Lookup {
	l := &Lookup{
		Account: account,
		checks:  map[Role]*check{},
	}
	for _, r := range ALL_ROLES {
		c := &check{
			query: self.contract.HasRoleQuery(),
			done:  make(chan struct{}),
		}
		l.checks[r] = c
		go func(r Role, c *check) {
			defer close(c.done)
			st := c.query.Fetch(ctx, self.hashes[r], account)
			if st.Err != nil {
				self.log.Debug("role check failed",
					zap.String("role", string(r)),
					zap.String("account", account.Hex()),
					zap.Error(st.Err),
				)
			}
		}(r, c)
	}
	return l
}
