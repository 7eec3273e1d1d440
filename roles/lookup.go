package roles

import (
	"context"
	"fmt"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/raise3/raise3/crowdfund"
)

// State is pending until the check settles, then either Value or Err is
// meaningful.
type State struct {
	Pending bool
	Value   bool
	Err     error
}

func (self State) String() string {
	switch {
	case self.Pending:
		return "pending"
	case self.Err != nil:
		return "error: " + self.Err.Error()
	case self.Value:
		return "yes"
	}
	return "no"
}

type RoleSet struct {
	Founder  State
	Investor State
	Manager  State
}

type check struct {
	query *crowdfund.Query[bool]
	done  chan struct{}
}

func (self *check) state() State {
	select {
	case <-self.done:
		st := self.query.State()
		return State{Value: st.Data, Err: st.Err}
	default:
		return State{Pending: true}
	}
}

type Lookup struct {
	Account ethcommon.Address
	checks  map[Role]*check
}

func (self *Lookup) State(r Role) State {
	c, found := self.checks[r]
	if !found {
		return State{Err: fmt.Errorf("unknown role %s", r)}
	}
	return c.state()
}

func (self *Lookup) Founder() State  { return self.State(Founder) }
func (self *Lookup) Investor() State { return self.State(Investor) }
func (self *Lookup) Manager() State  { return self.State(Manager) }

// Done is closed once role r has settled.
func (self *Lookup) Done(r Role) <-chan struct{} {
	if c, found := self.checks[r]; found {
		return c.done
	}
	closed := make(chan struct{})
	close(closed)
	return closed
}

// Wait blocks until every check settled or ctx is done. Checks that are
// still running when ctx ends are reported as pending.
func (self *Lookup) Wait(ctx context.Context) RoleSet {
	for _, r := range ALL_ROLES {
		select {
		case <-self.Done(r):
		case <-ctx.Done():
		}
	}
	return self.Snapshot()
}

func (self *Lookup) Snapshot() RoleSet {
	return RoleSet{
		Founder:  self.Founder(),
		Investor: self.Investor(),
		Manager:  self.Manager(),
	}
}
