package app

import (
	"encoding/json"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/reppay/custody/x/cash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenInitOptions(t *testing.T) {
	owner := "0102030405060708090A0B0C0D0E0F1011121314"

	cases := map[string]struct {
		args       []string
		wantTicker string
		wantErr    *errors.Error
	}{
		"explicit ticker and owner": {
			args:       []string{"EUR", owner},
			wantTicker: "EUR",
		},
		"generated key": {
			args:       nil,
			wantTicker: DefaultTicker,
		},
		"bad ticker": {
			args:    []string{"euro"},
			wantErr: errors.ErrInvalidInput,
		},
		"bad address": {
			args:    []string{"EUR", "zz"},
			wantErr: errors.ErrInvalidInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := GenInitOptions(tc.args)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %v", err)
				return
			}
			require.NoError(t, err)

			var opts custody.Options
			require.NoError(t, json.Unmarshal(raw, &opts))

			// the generated state is accepted by the node
			db := store.MemStore()
			require.NoError(t, Initializers().FromGenesis(opts, db))

			var accts []cash.GenesisAccount
			require.NoError(t, opts.ReadOptions("cash", &accts))
			require.Len(t, accts, 1)
			require.Len(t, accts[0].Coins, 1)
			assert.Equal(t, tc.wantTicker, accts[0].Coins[0].Ticker)
			if len(tc.args) > 1 {
				assert.Equal(t, owner, accts[0].Owner.String())
			}

			bal, err := CashController().Balance(db, cash.AccountAddress(accts[0].Owner, tc.wantTicker))
			require.NoError(t, err)
			assert.Equal(t, uint64(genesisSupply), bal.Amount)
		})
	}
}

func TestCommitKVStore(t *testing.T) {
	kv, err := CommitKVStore("")
	require.NoError(t, err)
	defer kv.Close()
	require.NoError(t, kv.LoadLatestVersion())
	assert.Equal(t, int64(0), kv.LatestVersion().Version)
}
