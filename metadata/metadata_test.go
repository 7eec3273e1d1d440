package metadata

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedFetcher answers from docs. When a uri has a gate, the fetch blocks
// until the gate is closed or ctx is done.
type gatedFetcher struct {
	mu    sync.Mutex
	docs  map[string]string
	gates map[string]chan struct{}
	calls map[string]int
	total atomic.Int32
}

func newGatedFetcher(docs map[string]string) *gatedFetcher {
	return &gatedFetcher{
		docs:  docs,
		gates: map[string]chan struct{}{},
		calls: map[string]int{},
	}
}

func (f *gatedFetcher) gate(uri string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[uri] = g
	return g
}

func (f *gatedFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[uri]++
	g := f.gates[uri]
	doc, found := f.docs[uri]
	f.mu.Unlock()
	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if !found {
		return nil, errors.New("gateway fetch failed: 404 Not Found")
	}
	return []byte(doc), nil
}

func (f *gatedFetcher) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}

type mapStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *mapStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.data[key]
	return v, found
}

func (s *mapStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func TestGatewayURL(t *testing.T) {
	tests := []struct {
		uri  string
		want string
		err  bool
	}{
		{"ipfs://QmAbc", "https://gw.example/ipfs/QmAbc", false},
		{"ipfs://QmAbc/meta.json", "https://gw.example/ipfs/QmAbc/meta.json", false},
		{"ipfs://ipfs/QmAbc", "https://gw.example/ipfs/QmAbc", false},
		{"https://host/doc.json", "https://host/doc.json", false},
		{"ipfs://", "", true},
		{"ftp://host/doc", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.uri, func(t *testing.T) {
			got, err := GatewayURL("https://gw.example/", tc.uri)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGatewayFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ipfs/QmGood":
			w.Write([]byte(`{"title":"M1"}`))
		default:
			http.Error(w, "no link named", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := NewGatewayFetcher(srv.URL, time.Second)
	doc, err := f.Fetch(context.Background(), "ipfs://QmGood")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"M1"}`, string(doc))

	_, err = f.Fetch(context.Background(), "ipfs://QmMissing")
	assert.ErrorContains(t, err, "404 Not Found: no link named")
}

func TestLoaderCollapsesConcurrentFetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newGatedFetcher(map[string]string{"ipfs://abc": `{"title":"M1"}`})
	gate := f.gate("ipfs://abc")
	l := NewLoader(f, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := l.Load(context.Background(), "ipfs://abc")
			assert.NoError(t, err)
			assert.JSONEq(t, `{"title":"M1"}`, string(doc))
		}()
	}
	// let the callers pile up behind the first fetch
	require.Eventually(t, func() bool { return f.count("ipfs://abc") == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	_, err := l.Load(context.Background(), "ipfs://abc")
	require.NoError(t, err)
	assert.Equal(t, 1, f.count("ipfs://abc"))
}

func TestLoaderDoesNotCacheFailures(t *testing.T) {
	f := newGatedFetcher(map[string]string{"ipfs://bad": `not json`})
	l := NewLoader(f, nil, nil)

	_, err := l.Load(context.Background(), "ipfs://missing")
	assert.Error(t, err)
	_, err = l.Load(context.Background(), "ipfs://missing")
	assert.Error(t, err)
	assert.Equal(t, 2, f.count("ipfs://missing"))

	_, err = l.Load(context.Background(), "ipfs://bad")
	assert.ErrorContains(t, err, "not a json document")
}

func TestLoaderSecondLevelStore(t *testing.T) {
	store := &mapStore{data: map[string]string{}}
	f := newGatedFetcher(map[string]string{"ipfs://abc": `{"title":"M1"}`})

	_, err := NewLoader(f, store, nil).Load(context.Background(), "ipfs://abc")
	require.NoError(t, err)
	assert.Len(t, store.data, 1)

	// a fresh process finds it in the store
	doc, err := NewLoader(f, store, nil).Load(context.Background(), "ipfs://abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"M1"}`, string(doc))
	assert.Equal(t, 1, f.count("ipfs://abc"))
}

func TestLoaderCallerCancelDoesNotFailOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newGatedFetcher(map[string]string{"ipfs://abc": `{"title":"M1"}`})
	gate := f.gate("ipfs://abc")
	l := NewLoader(f, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx, "ipfs://abc")
		first <- err
	}()
	require.Eventually(t, func() bool { return f.count("ipfs://abc") == 1 }, time.Second, time.Millisecond)

	second := make(chan []byte, 1)
	go func() {
		doc, err := l.Load(context.Background(), "ipfs://abc")
		assert.NoError(t, err)
		second <- doc
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(gate)
	assert.JSONEq(t, `{"title":"M1"}`, string(<-second))
	assert.Equal(t, 1, f.count("ipfs://abc"))
}

func TestResolverCancelKeepsValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newGatedFetcher(map[string]string{
		"ipfs://abc": `{"title":"M1"}`,
		"ipfs://xyz": `{"title":"M2"}`,
	})
	xyz := f.gate("ipfs://xyz")
	defer close(xyz)
	r := NewResolver[MilestoneMetadata](NewLoader(f, nil, nil))

	r.Resolve(context.Background(), "ipfs://abc")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Resolve(ctx, "ipfs://xyz")

	m, found := r.Get()
	require.True(t, found)
	assert.Equal(t, "M1", m.Title)
	assert.Equal(t, "ipfs://abc", r.URI())
}

func TestResolverEmptyURIKeepsState(t *testing.T) {
	f := newGatedFetcher(map[string]string{"ipfs://abc": `{"title":"M1"}`})
	r := NewResolver[MilestoneMetadata](NewLoader(f, nil, nil))

	r.Resolve(context.Background(), "")
	_, found := r.Get()
	assert.False(t, found)
	assert.Equal(t, int32(0), f.total.Load())

	r.Resolve(context.Background(), "ipfs://abc")
	r.Resolve(context.Background(), "  ")
	m, found := r.Get()
	require.True(t, found)
	assert.Equal(t, "M1", m.Title)
	assert.Equal(t, "ipfs://abc", r.URI())
	assert.Equal(t, int32(1), f.total.Load())
}

func TestResolverLastURIWins(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newGatedFetcher(map[string]string{
		"ipfs://abc": `{"title":"M1"}`,
		"ipfs://xyz": `{"title":"M2"}`,
	})
	abc := f.gate("ipfs://abc")
	r := NewResolver[MilestoneMetadata](NewLoader(f, nil, nil))

	done := make(chan struct{})
	go func() {
		r.Resolve(context.Background(), "ipfs://abc")
		close(done)
	}()
	require.Eventually(t, func() bool { return f.count("ipfs://abc") == 1 }, time.Second, time.Millisecond)

	r.Resolve(context.Background(), "ipfs://xyz")
	m, found := r.Get()
	require.True(t, found)
	assert.Equal(t, "M2", m.Title)

	close(abc)
	<-done
	m, found = r.Get()
	require.True(t, found)
	assert.Equal(t, "M2", m.Title)
}

func TestResolverFailureLeavesUnset(t *testing.T) {
	f := newGatedFetcher(map[string]string{
		"ipfs://abc":     `{"title":"M1"}`,
		"ipfs://garbled": `[{"title": "M1"}]`,
	})
	r := NewResolver[MilestoneMetadata](NewLoader(f, nil, nil))

	r.Resolve(context.Background(), "ipfs://abc")
	_, found := r.Get()
	require.True(t, found)

	r.Resolve(context.Background(), "ipfs://missing")
	_, found = r.Get()
	assert.False(t, found)

	r.Resolve(context.Background(), "ipfs://garbled")
	_, found = r.Get()
	assert.False(t, found)
}

func TestMetadataShapes(t *testing.T) {
	f := newGatedFetcher(map[string]string{
		"ipfs://campaign": `{
			"name": "Solar Roofs",
			"description": "community power",
			"team": [{"name": "Ada", "role": "CEO"}],
			"links": [{"label": "deck", "url": "https://x/deck.pdf"}],
			"socials": {"twitter": "@solar"},
			"extra": true
		}`,
		"ipfs://milestone": `{"title":"Prototype","targetDate":"2025-01-01","budget":1500,"deliverables":["design","pcb"]}`,
	})
	l := NewLoader(f, nil, nil)

	c := NewResolver[CampaignMetadata](l)
	c.Resolve(context.Background(), "ipfs://campaign")
	cm, found := c.Get()
	require.True(t, found)
	assert.Equal(t, "Solar Roofs", cm.DisplayName())
	assert.Equal(t, "CEO", cm.Team[0].Role)
	assert.Equal(t, "@solar", cm.Socials["twitter"])

	m := NewResolver[MilestoneMetadata](l)
	m.Resolve(context.Background(), "ipfs://milestone")
	mm, found := m.Get()
	require.True(t, found)
	assert.Equal(t, Loose("1500"), mm.Budget)
	assert.Equal(t, Loose("2025-01-01"), mm.TargetDate)
	assert.Equal(t, []string{"design", "pcb"}, mm.Deliverables)
	assert.Empty(t, mm.Status)
}

func TestResolverSkipsMistypedFields(t *testing.T) {
	f := newGatedFetcher(map[string]string{
		"ipfs://campaign":  `{"name":"Solar Roofs","image":{"src":"x.png"},"team":[{"name":"Ada","role":["CEO"]}]}`,
		"ipfs://milestone": `{"title":"Prototype","status":3,"deliverables":{"a":1},"description":"pcb"}`,
	})
	l := NewLoader(f, nil, nil)

	c := NewResolver[CampaignMetadata](l)
	c.Resolve(context.Background(), "ipfs://campaign")
	cm, found := c.Get()
	require.True(t, found)
	assert.Equal(t, "Solar Roofs", cm.DisplayName())
	assert.Empty(t, cm.Image)
	require.Len(t, cm.Team, 1)
	assert.Equal(t, "Ada", cm.Team[0].Name)
	assert.Empty(t, cm.Team[0].Role)

	m := NewResolver[MilestoneMetadata](l)
	m.Resolve(context.Background(), "ipfs://milestone")
	mm, found := m.Get()
	require.True(t, found)
	assert.Equal(t, "Prototype", mm.Title)
	assert.Equal(t, "3", mm.Status)
	assert.Equal(t, "pcb", mm.Description)
}
