// Package redirect decides where a wallet session goes right after the
// wallet connects or disconnects.
package redirect

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/raise3/raise3/util/logger"
)

const REGISTERED = "registered"

// Store is a keyed string store such as cache.FileStore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

type Navigator interface {
	Location() string
	Navigate(route string)
}

type Routes struct {
	Landing      string
	Registration string
	Dashboard    string
}

func DefaultRoutes() Routes {
	return Routes{
		Landing:      "/",
		Registration: "/register",
		Dashboard:    "/dashboard",
	}
}

type State int

const (
	Disconnected State = iota
	ConnectedPendingDecision
	ConnectedHandled
)

func (self State) String() string {
	switch self {
	case Disconnected:
		return "disconnected"
	case ConnectedPendingDecision:
		return "connected, pending decision"
	case ConnectedHandled:
		return "connected"
	}
	return "unknown"
}

func UserTypeKey(address string) string {
	return "userType-" + address
}

func UserRoleKey(address string) string {
	return "userRole-" + address
}

// Controller runs the connection state machine. The decision for a
// connection is taken once; only a disconnect re-arms it.
type Controller struct {
	store  Store
	nav    Navigator
	routes Routes
	log    *zap.Logger

	mu      sync.Mutex
	state   State
	address string
	handled bool
}

func NewController(store Store, nav Navigator, routes Routes, log *zap.Logger) *Controller {
	return &Controller{
		store:  store,
		nav:    nav,
		routes: routes,
		log:    logger.OrNop(log).Named("redirect"),
	}
}

func (self *Controller) State() State {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.state
}

func (self *Controller) Address() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.address
}

// OnWalletChange is called whenever the wallet address is (re)reported.
// An empty address means disconnected.
func (self *Controller) OnWalletChange(address string) State {
	self.mu.Lock()
	defer self.mu.Unlock()

	address = strings.TrimSpace(address)
	if address == "" {
		if self.state != Disconnected {
			self.state = Disconnected
			self.address = ""
			self.handled = false
			if self.nav.Location() != self.routes.Landing {
				self.log.Debug("disconnected, going to landing")
				self.nav.Navigate(self.routes.Landing)
			}
		}
		return self.state
	}

	if self.state == Disconnected {
		self.state = ConnectedPendingDecision
		self.address = address
	}
	if self.handled {
		return self.state
	}
	self.handled = true
	self.decide(self.address)
	self.state = ConnectedHandled
	return self.state
}

func (self *Controller) decide(address string) {
	userType, hasType := self.store.Get(UserTypeKey(address))
	_, hasRole := self.store.Get(UserRoleKey(address))
	if hasRole && !hasType {
		if err := self.store.Set(UserTypeKey(address), REGISTERED); err != nil {
			self.log.Warn("couldn't backfill user type", zap.String("address", address), zap.Error(err))
		} else {
			userType, hasType = REGISTERED, true
		}
	}

	target := self.routes.Registration
	if hasType || hasRole {
		target = self.routes.Dashboard
	}
	loc := self.nav.Location()
	if loc == self.routes.Registration || loc == self.routes.Dashboard {
		self.log.Debug("already on a decided route", zap.String("location", loc))
		return
	}
	self.log.Debug("redirecting",
		zap.String("address", address),
		zap.String("user_type", userType),
		zap.String("to", target),
	)
	self.nav.Navigate(target)
}

// Resume restores a session whose decision was already taken, e.g. one
// persisted by an earlier process. It never navigates.
func (self *Controller) Resume(address string) {
	self.mu.Lock()
	defer self.mu.Unlock()
	address = strings.TrimSpace(address)
	if address == "" {
		return
	}
	self.state = ConnectedHandled
	self.address = address
	self.handled = true
}

// Register is the registration page's write path: it stores both flags
// for address.
func (self *Controller) Register(address, role string) error {
	address = strings.TrimSpace(address)
	if err := self.store.Set(UserRoleKey(address), role); err != nil {
		return err
	}
	return self.store.Set(UserTypeKey(address), REGISTERED)
}
