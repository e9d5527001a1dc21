package orm

import (
	"testing"

	"github.com/reppay/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiRef(t *testing.T) {
	m, err := NewMultiRef([]byte("c"), []byte("a"))
	require.NoError(t, err)
	require.NoError(t, m.Add([]byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b"), []byte("c")}, m.Refs)

	assert.True(t, errors.ErrDuplicate.Is(m.Add([]byte("a"))))
	assert.True(t, errors.ErrNotFound.Is(m.Remove([]byte("d"))))

	raw, err := m.Marshal()
	require.NoError(t, err)
	var got MultiRef
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, m.Refs, got.Refs)

	require.NoError(t, m.Remove([]byte("b")))
	require.NoError(t, m.Remove([]byte("a")))
	require.NoError(t, m.Remove([]byte("c")))
	assert.True(t, errors.ErrEmpty.Is(m.Validate()))
}

func TestPrefixRange(t *testing.T) {
	cases := map[string]struct {
		prefix     []byte
		start, end []byte
	}{
		"empty":    {nil, nil, nil},
		"simple":   {[]byte{5, 7}, []byte{5, 7}, []byte{5, 8}},
		"overflow": {[]byte{5, 0xff}, []byte{5, 0xff}, []byte{6, 0}},
		"no end":   {[]byte{0xff, 0xff}, []byte{0xff, 0xff}, nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			start, end := prefixRange(tc.prefix)
			assert.Equal(t, tc.start, start)
			assert.Equal(t, tc.end, end)
		})
	}
}
