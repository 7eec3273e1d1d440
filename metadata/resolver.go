package metadata

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/raise3/raise3/util/metrics"
)

// Resolver holds the metadata document of one on-chain record. The result
// of a fetch is applied only if its uri is still the one being tracked,
// so a slow fetch for an old uri never overwrites a newer one.
type Resolver[T any] struct {
	loader *Loader

	mu    sync.Mutex
	uri   string
	value *T
}

func NewResolver[T any](loader *Loader) *Resolver[T] {
	return &Resolver[T]{loader: loader}
}

// Resolve never fails. An empty uri is ignored. Fields of the wrong type
// are skipped. Failures are logged and leave the resolver without a value.
// A cancelled ctx changes nothing.
func (self *Resolver[T]) Resolve(ctx context.Context, uri string) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return
	}
	self.mu.Lock()
	prev := self.uri
	self.uri = uri
	self.mu.Unlock()

	var value *T
	doc, err := self.loader.Load(ctx, uri)
	if err != nil && ctx.Err() != nil {
		self.mu.Lock()
		if self.uri == uri {
			self.uri = prev
		}
		self.mu.Unlock()
		return
	}
	if err == nil {
		var v T
		var partial error
		if partial, err = Decode(doc, &v); err == nil {
			value = &v
			if partial != nil {
				self.loader.log.Debug("skipped metadata fields", zap.String("uri", uri), zap.Error(partial))
			}
		}
	}

	self.mu.Lock()
	defer self.mu.Unlock()
	if self.uri != uri {
		metrics.MetadataFetches.WithLabelValues("stale").Inc()
		return
	}
	if err != nil {
		self.loader.log.Warn("couldn't resolve metadata", zap.String("uri", uri), zap.Error(err))
	}
	self.value = value
}

// Get returns the metadata of the tracked uri if it has been resolved.
func (self *Resolver[T]) Get() (T, bool) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.value == nil {
		var zero T
		return zero, false
	}
	return *self.value, true
}

func (self *Resolver[T]) URI() string {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.uri
}
