package cash

import (
	"context"
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/app"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	alice := custodytest.NewCondition()
	bob := custodytest.NewCondition()
	// vault owns itself, the way escrow custody accounts do
	vault := custodytest.RandomAddr(t)

	cases := map[string]struct {
		signer         custody.Condition
		msg            func(src, dst custody.Address) *SendMsg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantSrc        uint64
		wantDst        uint64
	}{
		"owner sends": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: dst,
					Amount:      coin.NewCoinp(40, "USDC"),
					Memo:        "rent",
				}
			},
			wantSrc: 60,
			wantDst: 40,
		},
		"not signed by the owner": {
			signer: bob,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: dst,
					Amount:      coin.NewCoinp(40, "USDC"),
				}
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantSrc:        100,
		},
		"more than the balance": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: dst,
					Amount:      coin.NewCoinp(101, "USDC"),
				}
			},
			wantDeliverErr: errors.ErrInsufficientFunds,
			wantSrc:        100,
		},
		"wrong ticker": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: dst,
					Amount:      coin.NewCoinp(1, "EUR"),
				}
			},
			wantDeliverErr: errors.ErrMintMismatch,
			wantSrc:        100,
		},
		"missing source account": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      AccountAddress(alice.Address(), "EUR"),
					Destination: dst,
					Amount:      coin.NewCoinp(1, "EUR"),
				}
			},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrNotFound,
			wantSrc:        100,
		},
		"custody account accepts no deposits": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: vault,
					Amount:      coin.NewCoinp(10, "USDC"),
				}
			},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantSrc:        100,
		},
		"missing destination account": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: AccountAddress(bob.Address(), "EUR"),
					Amount:      coin.NewCoinp(1, "USDC"),
				}
			},
			wantDeliverErr: errors.ErrNotFound,
			wantSrc:        100,
		},
		"zero amount is not a valid message": {
			signer: alice,
			msg: func(src, dst custody.Address) *SendMsg {
				return &SendMsg{
					Metadata:    &custody.Metadata{Schema: 1},
					Source:      src,
					Destination: dst,
					Amount:      coin.NewCoinp(0, "USDC"),
				}
			},
			wantCheckErr:   errors.ErrInvalidAmount,
			wantDeliverErr: errors.ErrInvalidAmount,
			wantSrc:        100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			src := fund(t, db, alice.Address(), coin.NewCoin(100, "USDC"))
			dst := fund(t, db, bob.Address(), coin.NewCoin(0, "USDC"))

			auth := &custodytest.Auth{Signer: tc.signer}
			control := NewController(auth)
			_, err := control.CreateAccount(db, vault, vault, "USDC")
			require.NoError(t, err)
			rt := app.NewRouter()
			RegisterRoutes(rt, auth, control)

			tx := &custodytest.Tx{Msg: tc.msg(src, dst)}
			ctx := context.Background()

			cache := db.CacheWrap()
			res, err := rt.Check(ctx, cache, tx)
			if tc.wantCheckErr != nil {
				assert.True(t, tc.wantCheckErr.Is(err), "got %+v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, sendTxCost, res.GasAllocated)
			}
			cache.Discard()

			cache = db.CacheWrap()
			if _, err := rt.Deliver(ctx, cache, tx); tc.wantDeliverErr != nil {
				assert.True(t, tc.wantDeliverErr.Is(err), "got %+v", err)
				cache.Discard()
			} else {
				require.NoError(t, err)
				cache.Write()
			}

			bal, err := control.Balance(db, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, bal.Amount)
			bal, err = control.Balance(db, dst)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDst, bal.Amount)
			bal, err = control.Balance(db, vault)
			require.NoError(t, err)
			assert.True(t, bal.IsZero())
		})
	}
}

func TestCreateAccountHandler(t *testing.T) {
	payer := custodytest.NewCondition()
	owner := custodytest.RandomAddr(t)
	db := store.MemStore()
	control := NewController(nil)
	msg := &CreateAccountMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   "USDC",
	}
	tx := &custodytest.Tx{Msg: msg}
	ctx := context.Background()

	unsigned := NewCreateAccountHandler(&custodytest.Auth{}, control)
	_, err := unsigned.Check(ctx, db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	h := NewCreateAccountHandler(&custodytest.Auth{Signer: payer}, control)
	cres, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, createAccountTxCost, cres.GasAllocated)

	dres, err := h.Deliver(ctx, db, tx)
	require.NoError(t, err)
	want := AccountAddress(owner, "USDC")
	assert.Equal(t, []byte(want), dres.Data)

	acct, err := control.Account(db, want)
	require.NoError(t, err)
	assert.Equal(t, owner, acct.Owner)
	assert.Equal(t, "USDC", acct.Ticker)

	_, err = h.Check(ctx, db, tx)
	assert.True(t, errors.ErrDuplicate.Is(err))
	_, err = h.Deliver(ctx, db, tx)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestQueryAccounts(t *testing.T) {
	owner := custodytest.RandomAddr(t)
	db := store.MemStore()
	usdc := fund(t, db, owner, coin.NewCoin(3, "USDC"))
	fund(t, db, owner, coin.NewCoin(4, "EUR"))

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/accounts").Query(db, custody.KeyQueryMod, usdc)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var acct Account
	require.NoError(t, acct.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(3), acct.Balance)

	res, err = qr.Handler("/accounts/owner").Query(db, custody.KeyQueryMod, owner)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}
