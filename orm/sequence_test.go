package orm

import (
	"bytes"
	"testing"

	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	db := store.MemStore()

	cases := map[string]struct {
		seq        Sequence
		init       uint64
		increments uint64
	}{
		"fresh sequence": {NewSequence("escrow", "id"), 0, 22},
		"other bucket":   {NewSequence("cash", "id"), 0, 11},
		"continued":      {NewSequence("escrow", "id"), 22, 18},
		"keyed":          {NewSequence("escrow", "gen").Keyed([]byte("pair-a")), 0, 3},
		"other key":      {NewSequence("escrow", "gen").Keyed([]byte("pair-b")), 0, 5},
	}

	for _, name := range []string{"fresh sequence", "other bucket", "continued", "keyed", "other key"} {
		tc := cases[name]
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.init, tc.seq.Latest(db))
			orig := EncodeSequence(tc.seq.Latest(db))

			var val uint64
			for i := uint64(0); i < tc.increments; i++ {
				val = tc.seq.NextInt(db)
			}
			// expect the final value to be this
			assert.Equal(t, tc.init+tc.increments, val)
			assert.Equal(t, val, tc.seq.Latest(db))

			// make sure final value is bigger than original value
			// if we use the raw bytes to index stuff
			last := tc.seq.NextVal(db)
			assert.Equal(t, 1, bytes.Compare(last, orig))
			assert.NoError(t, ValidateSequence(last))
		})
	}
}

func TestValidateSequence(t *testing.T) {
	assert.True(t, errors.ErrEmpty.Is(ValidateSequence(nil)))
	assert.True(t, errors.ErrInvalidInput.Is(ValidateSequence([]byte{1, 2})))
}
