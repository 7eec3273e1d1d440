// Package indexer turns an on-chain item count into the ordered set of
// indexes used to address individual items.
package indexer

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IndexMap maps the decimal string of every index 0..n-1 to itself, in
// ascending order.
type IndexMap struct {
	m *orderedmap.OrderedMap[string, string]
}

func newIndexMap(n uint64) *IndexMap {
	m := orderedmap.New[string, string]()
	for i := uint64(0); i < n; i++ {
		k := strconv.FormatUint(i, 10)
		m.Set(k, k)
	}
	return &IndexMap{m: m}
}

func (self *IndexMap) Len() int {
	if self == nil {
		return 0
	}
	return self.m.Len()
}

func (self *IndexMap) Get(key string) (string, bool) {
	if self == nil {
		return "", false
	}
	return self.m.Get(key)
}

// Keys returns the keys in ascending index order.
func (self *IndexMap) Keys() []string {
	result := make([]string, 0, self.Len())
	if self == nil {
		return result
	}
	for pair := self.m.Oldest(); pair != nil; pair = pair.Next() {
		result = append(result, pair.Key)
	}
	return result
}

// Indexes is Keys as numbers.
func (self *IndexMap) Indexes() []uint64 {
	keys := self.Keys()
	result := make([]uint64, 0, len(keys))
	for _, k := range keys {
		i, _ := strconv.ParseUint(k, 10, 64)
		result = append(result, i)
	}
	return result
}

// Equal compares content and order.
func (self *IndexMap) Equal(other *IndexMap) bool {
	if self.Len() != other.Len() {
		return false
	}
	if self.Len() == 0 {
		return true
	}
	a, b := self.m.Oldest(), other.m.Oldest()
	for a != nil && b != nil {
		if a.Key != b.Key || a.Value != b.Value {
			return false
		}
		a, b = a.Next(), b.Next()
	}
	return a == nil && b == nil
}

// Page returns the indexes in [offset, offset+limit). A limit <= 0 means
// everything from offset on.
func (self *IndexMap) Page(offset, limit int) []uint64 {
	all := self.Indexes()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []uint64{}
	}
	end := len(all)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return all[offset:end]
}
