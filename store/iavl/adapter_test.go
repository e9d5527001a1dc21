package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSuite() *store.TestSuite {
	return store.NewTestSuite(func() (store.CacheableKVStore, func()) {
		commit := NewMemCommitStore()
		return commit.Adapter(), commit.Close
	})
}

func TestCacheGetSet(t *testing.T) {
	newSuite().GetSet(t)
}

func TestCacheConflicts(t *testing.T) {
	newSuite().CacheConflicts(t)
}

func TestFuzzIterator(t *testing.T) {
	newSuite().FuzzIterator(t)
}

func TestIteratorWithConflicts(t *testing.T) {
	newSuite().IteratorWithConflicts(t)
}

// TestCommitReload checks that committed versions survive a restart and
// that uncommitted writes do not.
func TestCommitReload(t *testing.T) {
	dir, err := ioutil.TempDir("", "iavl-adapter-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	commit, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	require.NoError(t, commit.LoadLatestVersion())

	id := commit.LatestVersion()
	assert.Equal(t, int64(0), id.Version)
	assert.Empty(t, id.Hash)

	k1, k2 := []byte("escrow"), []byte("account")

	cache := commit.CacheWrap()
	cache.Set(k1, []byte("open"))
	cache.Set(k2, []byte("funded"))
	// nothing reaches the tree before the cache is written
	assert.Nil(t, commit.Get(k1))
	cache.Write()

	first, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)
	assert.Equal(t, []byte("open"), commit.Get(k1))

	cache = commit.CacheWrap()
	cache.Delete(k1)
	cache.Set(k2, []byte("drained"))
	cache.Write()
	second, err := commit.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	// this write is never committed
	cache = commit.CacheWrap()
	cache.Set(k1, []byte("lost"))
	cache.Write()
	commit.Close()

	reloaded, err := NewCommitStore(dir, "state")
	require.NoError(t, err)
	defer reloaded.Close()
	require.NoError(t, reloaded.LoadLatestVersion())

	assert.Equal(t, second, reloaded.LatestVersion())
	assert.Nil(t, reloaded.Get(k1))
	assert.Equal(t, []byte("drained"), reloaded.Get(k2))
}
