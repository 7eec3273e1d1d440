package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raise3/raise3/util/cache"
)

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	s, err := cache.NewFileStore(path)
	require.NoError(t, err)
	_, found := s.Get("userType-0xAbC")
	assert.False(t, found)

	require.NoError(t, s.Set("userType-0xAbC", "registered"))

	reloaded, err := cache.NewFileStore(path)
	require.NoError(t, err)
	v, found := reloaded.Get("USERTYPE-0xabc")
	assert.True(t, found)
	assert.Equal(t, "registered", v)

	require.NoError(t, reloaded.Delete("usertype-0xabc"))
	_, found = reloaded.Get("userType-0xAbC")
	assert.False(t, found)
}

func TestFileStoreRejectsCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := cache.NewFileStore(path)
	assert.Error(t, err)
}

func TestRedisStoreMissOnUnreachableServer(t *testing.T) {
	// nothing listens on port 1, every command fails fast
	s := cache.NewRedisStore(cache.NewRedisClient("127.0.0.1:1", 0), "raise3:", 0, nil)
	_, found := s.Get("userType-0xabc")
	assert.False(t, found)
	assert.Error(t, s.Set("userType-0xabc", "registered"))
}
