package app

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis-")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(good, []byte(`{
		"chain_id": "relief-net",
		"validators": [],
		"app_state": {"escrow": {"zero_remainder": "elide"}}
	}`), 0600))
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, ioutil.WriteFile(bad, []byte(`{"chain_id": 42}`), 0600))

	gen, err := LoadGenesis(good)
	require.NoError(t, err)
	assert.Equal(t, "relief-net", gen.ChainID)
	var conf struct {
		ZeroRemainder string `json:"zero_remainder"`
	}
	require.NoError(t, gen.AppState.ReadOptions("escrow", &conf))
	assert.Equal(t, "elide", conf.ZeroRemainder)

	_, err = LoadGenesis(bad)
	assert.True(t, errors.ErrInvalidInput.Is(err))

	_, err = LoadGenesis(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

type setInit struct {
	key string
	err error
}

func (s setInit) FromGenesis(_ custody.Options, db custody.KVStore) error {
	if s.err != nil {
		return s.err
	}
	db.Set([]byte(s.key), []byte("ok"))
	return nil
}

func TestChainInitializers(t *testing.T) {
	db := store.MemStore()
	init := ChainInitializers(setInit{key: "cash"}, nil, setInit{key: "escrow"})
	require.NoError(t, init.FromGenesis(custody.Options{}, db))
	assert.True(t, db.Has([]byte("cash")))
	assert.True(t, db.Has([]byte("escrow")))

	db = store.MemStore()
	init = ChainInitializers(
		setInit{key: "cash"},
		setInit{err: errors.ErrInvalidInput},
		setInit{key: "escrow"},
	)
	assert.True(t, errors.ErrInvalidInput.Is(init.FromGenesis(custody.Options{}, db)))
	assert.True(t, db.Has([]byte("cash")))
	assert.False(t, db.Has([]byte("escrow")))
}

func TestSaveChainID(t *testing.T) {
	db := store.MemStore()
	assert.Equal(t, "", loadChainID(db))

	assert.True(t, errors.ErrInvalidInput.Is(saveChainID(db, "no")))
	assert.True(t, errors.ErrInvalidInput.Is(saveChainID(db, "spaces are bad")))

	require.NoError(t, saveChainID(db, "relief-net"))
	assert.Equal(t, "relief-net", loadChainID(db))
	assert.True(t, errors.ErrUnauthorized.Is(saveChainID(db, "other-net")))
}
