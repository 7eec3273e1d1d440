package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/raise3/raise3/util/logger"
	"github.com/raise3/raise3/util/metrics"
)

// Store is an optional second level cache shared between processes,
// e.g. cache.RedisStore.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Loader fetches every distinct uri at most once per process. Documents
// are content addressed so a fetched document is kept forever.
type Loader struct {
	fetcher Fetcher
	store   Store
	log     *zap.Logger

	group singleflight.Group
	mu    sync.RWMutex
	docs  map[string][]byte
}

// NewLoader accepts a nil store.
func NewLoader(fetcher Fetcher, store Store, log *zap.Logger) *Loader {
	return &Loader{
		fetcher: fetcher,
		store:   store,
		log:     logger.OrNop(log).Named("metadata"),
		docs:    map[string][]byte{},
	}
}

func storeKey(uri string) string {
	return "metadata:" + crypto.Keccak256Hash([]byte(uri)).Hex()
}

func (self *Loader) cached(uri string) ([]byte, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()
	doc, found := self.docs[uri]
	return doc, found
}

// Load returns the document behind uri. Concurrent callers for the same
// uri share one fetch, which runs detached from any single caller's
// context so one caller going away doesn't fail the others. Fetches are
// bounded by the fetcher's own timeout.
func (self *Loader) Load(ctx context.Context, uri string) ([]byte, error) {
	if doc, found := self.cached(uri); found {
		metrics.MetadataFetches.WithLabelValues("hit").Inc()
		return doc, nil
	}
	flight := context.WithoutCancel(ctx)
	ch := self.group.DoChan(uri, func() (interface{}, error) {
		return self.load(flight, uri)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (self *Loader) load(ctx context.Context, uri string) ([]byte, error) {
	if doc, found := self.cached(uri); found {
		return doc, nil
	}
	if self.store != nil {
		if value, found := self.store.Get(storeKey(uri)); found && json.Valid([]byte(value)) {
			metrics.MetadataFetches.WithLabelValues("hit").Inc()
			doc := []byte(value)
			self.remember(uri, doc)
			return doc, nil
		}
	}
	metrics.MetadataFetches.WithLabelValues("miss").Inc()
	doc, err := self.fetcher.Fetch(ctx, uri)
	if err != nil {
		metrics.MetadataFetches.WithLabelValues("error").Inc()
		return nil, err
	}
	if !json.Valid(doc) {
		metrics.MetadataFetches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%s is not a json document", uri)
	}
	self.remember(uri, doc)
	if self.store != nil {
		if err := self.store.Set(storeKey(uri), string(doc)); err != nil {
			self.log.Warn("couldn't store metadata", zap.String("uri", uri), zap.Error(err))
		}
	}
	return doc, nil
}

func (self *Loader) remember(uri string, doc []byte) {
	self.mu.Lock()
	defer self.mu.Unlock()
	self.docs[uri] = doc
}
