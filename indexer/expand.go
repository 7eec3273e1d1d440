package indexer

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/raise3/raise3/util/logger"
	"github.com/raise3/raise3/util/metrics"
)

// MAX_COUNT bounds the map size so a corrupted count can't exhaust memory.
const MAX_COUNT uint64 = 1 << 20

// Expand builds the index map for count. Invalid counts (nil, zero,
// negative, fractional, unparsable, too large or of an unsupported type)
// give an empty map.
func Expand(count any) *IndexMap {
	return ExpandWithLogger(count, nil)
}

func ExpandWithLogger(count any, log *zap.Logger) *IndexMap {
	n, err := toCount(count)
	if err != nil {
		logger.OrNop(log).Warn("invalid count", zap.Any("count", count), zap.Error(err))
		metrics.InvalidCounts.Inc()
		return newIndexMap(0)
	}
	return newIndexMap(n)
}

func toCount(count any) (uint64, error) {
	switch v := count.(type) {
	case nil:
		return 0, nil
	case int:
		return fromInt64(int64(v))
	case int8:
		return fromInt64(int64(v))
	case int16:
		return fromInt64(int64(v))
	case int32:
		return fromInt64(int64(v))
	case int64:
		return fromInt64(v)
	case uint:
		return bounded(uint64(v))
	case uint8:
		return bounded(uint64(v))
	case uint16:
		return bounded(uint64(v))
	case uint32:
		return bounded(uint64(v))
	case uint64:
		return bounded(v)
	case *big.Int:
		if v == nil {
			return 0, nil
		}
		if v.Sign() < 0 {
			return 0, fmt.Errorf("negative count %s", v.String())
		}
		if !v.IsUint64() {
			return 0, fmt.Errorf("count %s out of range", v.String())
		}
		return bounded(v.Uint64())
	case big.Int:
		return toCount(&v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, fmt.Errorf("non integral count %v", v)
		}
		if v < 0 {
			return 0, fmt.Errorf("negative count %v", v)
		}
		if v > float64(MAX_COUNT) {
			return 0, fmt.Errorf("count %v out of range", v)
		}
		return uint64(v), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, nil
		}
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return 0, fmt.Errorf("can't parse count %q", v)
		}
		return toCount(b)
	}
	return 0, fmt.Errorf("unsupported count type %T", count)
}

func fromInt64(v int64) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("negative count %d", v)
	}
	return bounded(uint64(v))
}

func bounded(v uint64) (uint64, error) {
	if v > MAX_COUNT {
		return 0, fmt.Errorf("count %d out of range", v)
	}
	return v, nil
}

// Expander keeps the map for the last count it saw and rebuilds it only
// when the count changes.
type Expander struct {
	log *zap.Logger

	mu      sync.Mutex
	last    uint64
	valid   bool
	current *IndexMap
}

func NewExpander(log *zap.Logger) *Expander {
	return &Expander{
		log:     logger.OrNop(log).Named("indexer"),
		current: newIndexMap(0),
	}
}

// Update returns the map for count. An invalid count, including a count
// that isn't known yet, resets it to the empty map.
func (self *Expander) Update(count any) *IndexMap {
	self.mu.Lock()
	defer self.mu.Unlock()
	n, err := toCount(count)
	if err != nil {
		self.log.Warn("invalid count", zap.Any("count", count), zap.Error(err))
		metrics.InvalidCounts.Inc()
		n = 0
	}
	if self.valid && n == self.last {
		return self.current
	}
	self.last = n
	self.valid = true
	self.current = newIndexMap(n)
	return self.current
}

func (self *Expander) Current() *IndexMap {
	self.mu.Lock()
	defer self.mu.Unlock()
	return self.current
}
