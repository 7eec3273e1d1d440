package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/redirect"
	"github.com/raise3/raise3/ui"
	"github.com/raise3/raise3/util/cache"
)

const (
	SESSION_ADDRESS_KEY  = "session-address"
	SESSION_LOCATION_KEY = "session-location"
)

// sessionStore is a redirect.Store that can also forget keys.
type sessionStore interface {
	redirect.Store
	Delete(key string) error
}

// sessionNavigator keeps the current route in the session store so that
// consecutive commands see where the previous one went.
type sessionNavigator struct {
	store   sessionStore
	u       ui.UI
	landing string
}

func (self *sessionNavigator) Location() string {
	if loc, found := self.store.Get(SESSION_LOCATION_KEY); found {
		return loc
	}
	return self.landing
}

func (self *sessionNavigator) Navigate(route string) {
	if err := self.store.Set(SESSION_LOCATION_KEY, route); err != nil {
		self.u.Warn("Couldn't remember the current route: %s", err)
	}
	self.u.Success("Redirect to %s", route)
}

func routes() redirect.Routes {
	r := redirect.DefaultRoutes()
	if fileConfig.Routes.Landing != "" {
		r.Landing = fileConfig.Routes.Landing
	}
	if fileConfig.Routes.Registration != "" {
		r.Registration = fileConfig.Routes.Registration
	}
	if fileConfig.Routes.Dashboard != "" {
		r.Dashboard = fileConfig.Routes.Dashboard
	}
	return r
}

func openSessionStore() (sessionStore, func(), error) {
	if client := redisClient(); client != nil {
		return cache.NewRedisStore(client, "raise3:", 0, appLog), func() { _ = client.Close() }, nil
	}
	path := strings.TrimSpace(config.StorePath)
	if path == "" {
		path = fileConfig.Store.Path
	}
	store, err := cache.NewFileStore(path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

type session struct {
	store      sessionStore
	controller *redirect.Controller
}

// restoreSession rebuilds the controller of the wallet session persisted
// by the previous command, if any.
func restoreSession(u ui.UI, store sessionStore) *session {
	rs := routes()
	nav := &sessionNavigator{store: store, u: u, landing: rs.Landing}
	c := redirect.NewController(store, nav, rs, appLog)
	if address, found := store.Get(SESSION_ADDRESS_KEY); found {
		c.Resume(address)
	}
	return &session{store: store, controller: c}
}

func (self *session) connect(u ui.UI, address string) error {
	previous := self.controller.Address()
	self.controller.OnWalletChange(address)
	if previous != "" {
		if strings.EqualFold(previous, address) {
			u.Info("%s is already connected", address)
		} else {
			u.Warn("%s is still connected, disconnect it first", previous)
		}
		return nil
	}
	return self.store.Set(SESSION_ADDRESS_KEY, address)
}

func (self *session) disconnect(u ui.UI) error {
	if self.controller.State() == redirect.Disconnected {
		u.Info("No wallet is connected")
		return nil
	}
	address := self.controller.Address()
	self.controller.OnWalletChange("")
	u.Info("%s disconnected", address)
	return self.store.Delete(SESSION_ADDRESS_KEY)
}

func (self *session) status(u ui.UI) {
	nav := &sessionNavigator{store: self.store, u: u, landing: routes().Landing}
	rows := [][2]string{
		{"State", self.controller.State().String()},
		{"Location", nav.Location()},
	}
	if address := self.controller.Address(); address != "" {
		userType, _ := self.store.Get(redirect.UserTypeKey(address))
		userRole, _ := self.store.Get(redirect.UserRoleKey(address))
		rows = append(rows,
			[2]string{"Wallet", address},
			[2]string{"User type", userType},
			[2]string{"User role", userRole},
		)
	}
	u.KeyValue(rows)
}

func withSession(run func(s *session) error) error {
	store, closeStore, err := openSessionStore()
	if err != nil {
		return err
	}
	defer closeStore()
	return run(restoreSession(appUI, store))
}

var REGISTRATION_ROLES = []string{"founder", "investor", "manager"}

// walletArg takes the address from args or asks for it.
func walletArg(u ui.UI, args []string) (string, error) {
	if len(args) > 0 {
		address, err := common.ParseAddress(args[0])
		if err != nil {
			return "", err
		}
		return address.Hex(), nil
	}
	u.Info("Wallet address:")
	input := u.Ask(func(s string) error {
		_, err := common.ParseAddress(s)
		return err
	})
	address, err := common.ParseAddress(input)
	if err != nil {
		return "", err
	}
	return address.Hex(), nil
}

// roleArg takes the role from args or lets the user choose one.
func roleArg(u ui.UI, args []string) (string, error) {
	if len(args) == 0 {
		return REGISTRATION_ROLES[u.Choose("Register as", REGISTRATION_ROLES)], nil
	}
	role := strings.ToLower(strings.TrimSpace(args[0]))
	for _, r := range REGISTRATION_ROLES {
		if r == role {
			return role, nil
		}
	}
	return "", fmt.Errorf("unknown role '%s', expected founder, investor or manager", args[0])
}

var connectCmd = &cobra.Command{
	Use:   "connect [address]",
	Short: "Connect a wallet and redirect it like the web app does",
	Long: `Connect a wallet to the local session. The first connection decides
where the wallet lands: the dashboard when it registered before, the
registration page otherwise. Connecting again without disconnecting
doesn't redirect. The address is asked for when it is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := walletArg(appUI, args)
		if err != nil {
			return err
		}
		return withSession(func(s *session) error {
			return s.connect(appUI, address)
		})
	},
}

var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the connected wallet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			return s.disconnect(appUI)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [address] [founder|investor|manager]",
	Short: "Store the registration flags of a wallet",
	Long: `Store the registration flags of a wallet. The role is asked for when
it is omitted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		address, err := common.ParseAddress(args[0])
		if err != nil {
			return err
		}
		role, err := roleArg(appUI, args[1:])
		if err != nil {
			return err
		}
		return withSession(func(s *session) error {
			if err := s.controller.Register(address.Hex(), role); err != nil {
				return err
			}
			appUI.Success("%s registered as %s", address.Hex(), role)
			return nil
		})
	},
}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show the local wallet session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(s *session) error {
			s.status(appUI)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{connectCmd, disconnectCmd, registerCmd, sessionCmd} {
		c.Flags().StringVar(&config.StorePath, "store", "", "session store file. Defaults to ~/.raise3/session.json")
		c.Flags().StringVar(&config.RedisAddr, "redis", "", "keep the session in redis at this address instead of a file")
		rootCmd.AddCommand(c)
	}
}
