package cmd

import (
	"context"
	"errors"
	"math/big"
	"path/filepath"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raise3/raise3/browser"
	"github.com/raise3/raise3/common"
	"github.com/raise3/raise3/config"
	"github.com/raise3/raise3/metadata"
	"github.com/raise3/raise3/networks"
	"github.com/raise3/raise3/redirect"
	"github.com/raise3/raise3/roles"
	"github.com/raise3/raise3/ui"
	"github.com/raise3/raise3/util/cache"
)

const wallet = "0x00000000000000000000000000000000000000A1"

func newFileSession(t *testing.T, path string, u ui.UI) (*session, *cache.FileStore) {
	t.Helper()
	store, err := cache.NewFileStore(path)
	require.NoError(t, err)
	return restoreSession(u, store), store
}

func TestSessionAcrossCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	// first command: a fresh wallet lands on registration
	u := ui.NewRecordingUI()
	s, _ := newFileSession(t, path, u)
	require.NoError(t, s.connect(u, wallet))
	assert.True(t, u.HasMessage("Redirect to /register"))

	// second command: same wallet again, no redirect
	u = ui.NewRecordingUI()
	s, _ = newFileSession(t, path, u)
	assert.Equal(t, redirect.ConnectedHandled, s.controller.State())
	require.NoError(t, s.connect(u, wallet))
	assert.False(t, u.HasMessage("Redirect"))
	assert.True(t, u.HasMessage("already connected"))

	// register, disconnect, connect: dashboard
	u = ui.NewRecordingUI()
	s, store := newFileSession(t, path, u)
	require.NoError(t, s.controller.Register(wallet, "founder"))
	require.NoError(t, s.disconnect(u))
	assert.True(t, u.HasMessage("Redirect to /"))
	_, found := store.Get(SESSION_ADDRESS_KEY)
	assert.False(t, found)

	u = ui.NewRecordingUI()
	s, _ = newFileSession(t, path, u)
	assert.Equal(t, redirect.Disconnected, s.controller.State())
	require.NoError(t, s.connect(u, wallet))
	assert.True(t, u.HasMessage("Redirect to /dashboard"))
}

func TestDisconnectWithoutSession(t *testing.T) {
	u := ui.NewRecordingUI()
	s, _ := newFileSession(t, filepath.Join(t.TempDir(), "s.json"), u)
	require.NoError(t, s.disconnect(u))
	assert.True(t, u.HasMessage("No wallet is connected"))
}

func TestRenderCampaigns(t *testing.T) {
	u := ui.NewRecordingUI()
	items := []browser.CampaignItem{
		{
			Index: 0,
			Record: &common.CampaignRecord{
				GoalAmount:  big.NewInt(100),
				TotalRaised: big.NewInt(50),
				Founder:     ethcommon.HexToAddress(wallet),
				Status:      common.StatusActive,
			},
			Metadata: &metadata.CampaignMetadata{Name: "Solar Roofs"},
		},
		{Index: 1, Err: errors.New("execution reverted")},
		{
			Index:  2,
			Record: &common.CampaignRecord{Status: common.StatusUnknown},
		},
	}
	renderCampaigns(u, items)

	rows := u.Messages("Table")
	require.Len(t, rows, 3)
	assert.Contains(t, rows[0], "Solar Roofs")
	assert.Contains(t, rows[0], "50.0%")
	assert.Contains(t, rows[1], "unavailable")
	assert.Contains(t, rows[2], "Campaign #2")
	assert.Contains(t, rows[2], "Unknown")
}

func TestRenderMilestones(t *testing.T) {
	u := ui.NewRecordingUI()
	renderMilestones(u, 18, []browser.MilestoneItem{
		{
			Index:    0,
			Record:   &common.MilestoneRecord{Amount: big.NewInt(0), IsApproved: true},
			Metadata: &metadata.MilestoneMetadata{Title: "Prototype", TargetDate: "2025-01-01"},
		},
		{Index: 1, Record: &common.MilestoneRecord{Amount: big.NewInt(0), Completed: true}},
	})
	rows := u.Messages("Table")
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Prototype")
	assert.Contains(t, rows[0], "approved")
	assert.Contains(t, rows[0], "2025-01-01")
	assert.Contains(t, rows[1], "Milestone #1")
	assert.Contains(t, rows[1], "completed")
}

func TestRenderRoleSet(t *testing.T) {
	u := ui.NewRecordingUI()
	renderRoleSet(u, wallet, roles.RoleSet{
		Founder:  roles.State{Err: errors.New("rpc timeout")},
		Investor: roles.State{Value: true},
		Manager:  roles.State{Pending: true},
	})
	assert.True(t, u.HasMessage("Founder: couldn't check: rpc timeout"))
	assert.True(t, u.HasMessage("Investor: yes"))
	assert.True(t, u.HasMessage("Manager: still pending"))
}

func TestDecodeDocument(t *testing.T) {
	doc, err := decodeDocument([]byte(`{"title":"M1","extra":1}`), "milestone")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"M1","extra":1}`, string(doc))

	doc, err = decodeDocument([]byte(`{"title":"M1","budget":1500}`), "milestone")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"M1","budget":1500}`, string(doc))

	_, err = decodeDocument([]byte(`{"title":{"en":"M1"}}`), "milestone")
	assert.ErrorContains(t, err, "not milestone metadata")

	_, err = decodeDocument([]byte(`[1,2]`), "campaign")
	assert.ErrorContains(t, err, "not campaign metadata")

	_, err = decodeDocument([]byte(`{`), "")
	assert.Error(t, err)

	_, err = decodeDocument([]byte(`{}`), "invoice")
	assert.ErrorContains(t, err, "unknown kind")
}

func TestWalletArg(t *testing.T) {
	want := ethcommon.HexToAddress(wallet).Hex()
	address, err := walletArg(ui.NewRecordingUI(), []string{"0x00000000000000000000000000000000000000a1"})
	require.NoError(t, err)
	assert.Equal(t, want, address)

	_, err = walletArg(ui.NewRecordingUI(), []string{"0xnope"})
	assert.Error(t, err)

	u := ui.NewRecordingUI(" 0x00000000000000000000000000000000000000a1 ")
	address, err = walletArg(u, nil)
	require.NoError(t, err)
	assert.Equal(t, want, address)
	assert.Len(t, u.Messages("Ask"), 1)
}

func TestRoleArg(t *testing.T) {
	role, err := roleArg(ui.NewRecordingUI(), []string{" Investor "})
	require.NoError(t, err)
	assert.Equal(t, "investor", role)

	_, err = roleArg(ui.NewRecordingUI(), []string{"admin"})
	assert.ErrorContains(t, err, "unknown role 'admin'")

	u := ui.NewRecordingUI("3")
	role, err = roleArg(u, nil)
	require.NoError(t, err)
	assert.Equal(t, "manager", role)
	assert.Equal(t, []string{"Register as"}, u.Messages("Choose"))
}

type fakeChain struct {
	chainID uint64
	code    []byte
	block   uint64
	err     error
}

func (f *fakeChain) ChainID(ctx context.Context) (uint64, error) { return f.chainID, f.err }

func (f *fakeChain) GetCode(ctx context.Context, address string) ([]byte, error) {
	return f.code, nil
}

func (f *fakeChain) CurrentBlock(ctx context.Context) (uint64, error) { return f.block, nil }

func TestCheckDeployment(t *testing.T) {
	const contract = "0x00000000000000000000000000000000000000C0"
	ctx := context.Background()

	block, err := checkDeployment(ctx, &fakeChain{chainID: 11155111, code: []byte{0x60}, block: 42}, networks.Sepolia, contract)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), block)

	_, err = checkDeployment(ctx, &fakeChain{chainID: 1, code: []byte{0x60}}, networks.Sepolia, contract)
	assert.ErrorContains(t, err, "on chain 1, expected 11155111")

	_, err = checkDeployment(ctx, &fakeChain{chainID: 11155111}, networks.Sepolia, contract)
	assert.ErrorContains(t, err, "no contract at "+contract)

	_, err = checkDeployment(ctx, &fakeChain{err: errors.New("dial tcp: refused")}, networks.Sepolia, contract)
	assert.ErrorContains(t, err, "couldn't read the chain id")
}

func TestContractAddressEnvAppliesToActiveNetwork(t *testing.T) {
	saved, savedFlag := fileConfig, config.Contract
	t.Cleanup(func() { fileConfig, config.Contract = saved, savedFlag })
	config.Contract = ""

	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.CONTRACT_VAR, "0x2222222222222222222222222222222222222222")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Network = "base"
	fileConfig = cfg

	addr, err := contractAddress(networks.Sepolia)
	require.NoError(t, err)
	assert.Equal(t, "0x2222222222222222222222222222222222222222", addr)

	config.Contract = "0x3333333333333333333333333333333333333333"
	addr, err = contractAddress(networks.Sepolia)
	require.NoError(t, err)
	assert.Equal(t, "0x3333333333333333333333333333333333333333", addr)
}
