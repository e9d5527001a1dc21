package orm

import (
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawQuery(t *testing.T) {
	db := store.MemStore()
	db.Set([]byte("cash:a"), []byte("1"))
	db.Set([]byte("cash:b"), []byte("2"))
	db.Set([]byte("escrow:a"), []byte("3"))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)
	h := qr.Handler("/")
	require.NotNil(t, h)

	res, err := h.Query(db, custody.KeyQueryMod, []byte("cash:b"))
	require.NoError(t, err)
	assert.Equal(t, []custody.Model{custody.Pair([]byte("cash:b"), []byte("2"))}, res)

	res, err = h.Query(db, custody.KeyQueryMod, []byte("cash:c"))
	require.NoError(t, err)
	assert.Empty(t, res)

	res, err = h.Query(db, custody.PrefixQueryMod, []byte("cash:"))
	require.NoError(t, err)
	assert.Len(t, res, 2)

	res, err = h.Query(db, custody.PrefixQueryMod, nil)
	require.NoError(t, err)
	assert.Len(t, res, 3)

	_, err = h.Query(db, "range", nil)
	assert.True(t, errors.ErrInvalidInput.Is(err))
}

func TestQueryPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix     []byte
		start, end []byte
	}{
		"empty":    {nil, nil, nil},
		"simple":   {[]byte("ab"), []byte("ab"), []byte("ac")},
		"carry":    {[]byte{0x01, 0xff}, []byte{0x01, 0xff}, []byte{0x02, 0x00}},
		"no upper": {[]byte{0xff, 0xff}, []byte{0xff, 0xff}, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
