package redirect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data   map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string]string{}}
}

func (s *memStore) Get(key string) (string, bool) {
	v, found := s.data[key]
	return v, found
}

func (s *memStore) Set(key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

type fakeNav struct {
	location string
	visits   []string
}

func (n *fakeNav) Location() string { return n.location }

func (n *fakeNav) Navigate(route string) {
	n.location = route
	n.visits = append(n.visits, route)
}

const addr = "0xAbC0000000000000000000000000000000000001"

func TestFreshWalletGoesToRegistrationOnce(t *testing.T) {
	nav := &fakeNav{location: "/"}
	c := NewController(newMemStore(), nav, DefaultRoutes(), nil)
	assert.Equal(t, Disconnected, c.State())

	assert.Equal(t, ConnectedHandled, c.OnWalletChange(addr))
	assert.Equal(t, []string{"/register"}, nav.visits)

	nav.location = "/campaigns"
	c.OnWalletChange(addr)
	c.OnWalletChange(addr)
	assert.Equal(t, []string{"/register"}, nav.visits)
	assert.Equal(t, addr, c.Address())
}

func TestRoleWithoutTypeIsBackfilled(t *testing.T) {
	store := newMemStore()
	store.data[UserRoleKey(addr)] = "investor"
	nav := &fakeNav{location: "/"}
	c := NewController(store, nav, DefaultRoutes(), nil)

	c.OnWalletChange(addr)
	assert.Equal(t, "registered", store.data[UserTypeKey(addr)])
	assert.Equal(t, []string{"/dashboard"}, nav.visits)

	c.OnWalletChange(addr)
	assert.Equal(t, []string{"/dashboard"}, nav.visits)
}

func TestBackfillFailureStillGoesToDashboard(t *testing.T) {
	store := newMemStore()
	store.data[UserRoleKey(addr)] = "founder"
	store.setErr = errors.New("read only")
	nav := &fakeNav{location: "/"}

	NewController(store, nav, DefaultRoutes(), nil).OnWalletChange(addr)
	assert.Equal(t, []string{"/dashboard"}, nav.visits)
}

func TestNoNavigationWhenAlreadyOnDecidedRoute(t *testing.T) {
	for _, loc := range []string{"/register", "/dashboard"} {
		t.Run(loc, func(t *testing.T) {
			store := newMemStore()
			store.data[UserRoleKey(addr)] = "manager"
			nav := &fakeNav{location: loc}
			c := NewController(store, nav, DefaultRoutes(), nil)

			assert.Equal(t, ConnectedHandled, c.OnWalletChange(addr))
			assert.Empty(t, nav.visits)
			// the flags are still normalized
			assert.Equal(t, "registered", store.data[UserTypeKey(addr)])
		})
	}
}

func TestDisconnectResetsGuard(t *testing.T) {
	store := newMemStore()
	nav := &fakeNav{location: "/"}
	c := NewController(store, nav, DefaultRoutes(), nil)

	c.OnWalletChange(addr)
	require.Equal(t, []string{"/register"}, nav.visits)

	assert.Equal(t, Disconnected, c.OnWalletChange(""))
	assert.Equal(t, []string{"/register", "/"}, nav.visits)

	// disconnecting twice does nothing more
	c.OnWalletChange("")
	assert.Len(t, nav.visits, 2)

	require.NoError(t, c.Register(addr, "founder"))
	c.OnWalletChange(addr)
	assert.Equal(t, []string{"/register", "/", "/dashboard"}, nav.visits)
}

func TestDisconnectOnLandingDoesNotNavigate(t *testing.T) {
	nav := &fakeNav{location: "/"}
	c := NewController(newMemStore(), nav, DefaultRoutes(), nil)

	// never connected
	c.OnWalletChange("")
	assert.Empty(t, nav.visits)

	c.OnWalletChange(addr)
	nav.location = "/"
	c.OnWalletChange("")
	assert.Equal(t, []string{"/register"}, nav.visits)
}

func TestRegister(t *testing.T) {
	store := newMemStore()
	c := NewController(store, &fakeNav{}, DefaultRoutes(), nil)

	require.NoError(t, c.Register(addr, "investor"))
	assert.Equal(t, "investor", store.data[UserRoleKey(addr)])
	assert.Equal(t, "registered", store.data[UserTypeKey(addr)])
}

func TestResume(t *testing.T) {
	nav := &fakeNav{location: "/campaigns"}
	c := NewController(newMemStore(), nav, DefaultRoutes(), nil)

	c.Resume(addr)
	assert.Equal(t, ConnectedHandled, c.State())
	c.OnWalletChange(addr)
	assert.Empty(t, nav.visits)

	c.OnWalletChange("")
	assert.Equal(t, []string{"/"}, nav.visits)
}
