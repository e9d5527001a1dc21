package escrow

import (
	"testing"

	"github.com/reppay/custody"
	"github.com/reppay/custody/app"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/custodytest"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/gconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deliver runs tx through check and deliver, keeping the writes of a
// successful delivery only.
func (f *fixture) deliver(t testing.TB, rt custody.Handler, ctx custody.Context, tx custody.Tx) (*custody.DeliverResult, error) {
	t.Helper()
	check := f.db.CacheWrap()
	_, err := rt.Check(ctx, check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	cache := f.db.CacheWrap()
	res, err := rt.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	cache.Write()
	return res, nil
}

func TestHandlersLifecycle(t *testing.T) {
	f := newFixture(t)
	sponsorAcct := f.fund(t, f.sponsor.Address(), coin.NewCoin(1000, "USDC"))
	merchantAcct := f.fund(t, f.merchant.Address(), coin.NewCoin(0, "USDC"))

	rt := app.NewRouter()
	RegisterRoutes(rt, f.signers, f.cash)

	open := &custodytest.Tx{Msg: &OpenMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Sponsor:  f.sponsor.Address(),
		Merchant: f.merchant.Address(),
		Amount:   coin.NewCoinp(1000, "USDC"),
	}}
	_, err := f.deliver(t, rt, f.as(f.merchant), open)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	cres, err := rt.Check(f.as(f.sponsor), f.db.CacheWrap(), open)
	require.NoError(t, err)
	assert.Equal(t, openEscrowCost, cres.GasAllocated)

	res, err := f.deliver(t, rt, f.as(f.sponsor), open)
	require.NoError(t, err)
	id := custody.Address(res.Data)
	assert.Equal(t, uint64(0), f.balance(t, sponsorAcct))
	assert.Equal(t, uint64(1000), f.balance(t, id))

	_, err = f.deliver(t, rt, f.as(f.sponsor), open)
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	claim := func(amount uint64) *custodytest.Tx {
		return &custodytest.Tx{Msg: &ClaimMsg{
			Metadata: &custody.Metadata{Schema: 1},
			EscrowID: id,
			Amount:   amount,
		}}
	}

	res, err = f.deliver(t, rt, f.as(f.merchant), claim(400))
	require.NoError(t, err)
	assert.Equal(t, uint64(400), f.balance(t, merchantAcct))

	var receipt Receipt
	require.NoError(t, receipt.Unmarshal(res.Data))
	assert.Equal(t, uint64(600), receipt.Remaining)
	assert.Equal(t, coin.NewCoin(400, "USDC"), receipt.Amount)

	require.Len(t, res.Events, 1)
	event, ok := res.Events[0].(*ClaimEvent)
	require.True(t, ok)
	assert.Equal(t, ClaimEventKind, event.EventKind())
	assert.Equal(t, []byte(id), event.EventKey())
	assert.Equal(t, f.sponsor.Address(), event.Sponsor)
	assert.Equal(t, f.merchant.Address(), event.Merchant)
	assert.Equal(t, coin.NewCoin(400, "USDC"), event.Amount)
	assert.Equal(t, custody.AsUnixTime(blockNow), event.ClaimedAt)

	require.Len(t, res.Tags, 2)
	assert.Equal(t, "escrow.claim", string(res.Tags[0].Key))
	assert.Equal(t, id.String(), string(res.Tags[0].Value))
	assert.Equal(t, f.merchant.Address().String(), string(res.Tags[1].Value))

	// check already refuses the over claim
	_, err = rt.Check(f.as(f.merchant), f.db.CacheWrap(), claim(700))
	assert.True(t, ErrOverClaim.Is(err), "got %+v", err)
	_, err = f.deliver(t, rt, f.as(f.sponsor), claim(10))
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	cancel := &custodytest.Tx{Msg: &CancelMsg{
		Metadata: &custody.Metadata{Schema: 1},
		EscrowID: id,
	}}
	_, err = f.deliver(t, rt, f.as(f.merchant), cancel)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	res, err = f.deliver(t, rt, f.as(f.sponsor), cancel)
	require.NoError(t, err)
	assert.Equal(t, []byte(id), res.Data)
	assert.Equal(t, uint64(600), f.balance(t, sponsorAcct))

	_, err = f.deliver(t, rt, f.as(f.merchant), claim(1))
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
	_, err = f.deliver(t, rt, f.as(f.sponsor), cancel)
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestClaimHandlerExplicitDestination(t *testing.T) {
	f := newFixture(t)
	f.fund(t, f.sponsor.Address(), coin.NewCoin(100, "USDC"))
	escrow := f.open(t, 100)

	// the merchant may route the claim to any account it owns
	dst := custodytest.RandomAddr(t)
	_, err := f.cash.CreateAccount(f.db, dst, f.merchant.Address(), "USDC")
	require.NoError(t, err)

	rt := app.NewRouter()
	RegisterRoutes(rt, f.signers, f.cash)
	tx := &custodytest.Tx{Msg: &ClaimMsg{
		Metadata:    &custody.Metadata{Schema: 1},
		EscrowID:    escrow.Custody,
		Amount:      60,
		Destination: dst,
	}}
	_, err = f.deliver(t, rt, f.as(f.merchant), tx)
	require.NoError(t, err)
	assert.Equal(t, uint64(60), f.balance(t, dst))
}

func TestUpdateConfigurationHandler(t *testing.T) {
	f := newFixture(t)
	owner := custodytest.NewCondition()
	require.NoError(t, gconf.Save(f.db, confPkg, &Configuration{
		Metadata:      &custody.Metadata{Schema: 1},
		Owner:         owner.Address(),
		ZeroRemainder: ZeroRemainderTransfer,
	}))

	rt := app.NewRouter()
	RegisterRoutes(rt, f.signers, f.cash)
	update := func(policy string) *custodytest.Tx {
		return &custodytest.Tx{Msg: &UpdateConfigurationMsg{
			Metadata: &custody.Metadata{Schema: 1},
			Patch:    &Configuration{ZeroRemainder: policy},
		}}
	}

	_, err := f.deliver(t, rt, f.as(f.sponsor), update(ZeroRemainderElide))
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)

	_, err = f.deliver(t, rt, f.as(owner), update("burn"))
	assert.True(t, errors.ErrInvalidInput.Is(err), "got %+v", err)

	_, err = f.deliver(t, rt, f.as(owner), update(ZeroRemainderElide))
	require.NoError(t, err)
	conf, err := loadConfig(f.db)
	require.NoError(t, err)
	assert.True(t, conf.elideZero())
	assert.Equal(t, owner.Address(), conf.Owner)

	_, err = f.deliver(t, rt, f.as(owner), update(ZeroRemainderTransfer))
	require.NoError(t, err)
	conf, err = loadConfig(f.db)
	require.NoError(t, err)
	assert.False(t, conf.elideZero())
}

func TestUpdateConfigurationWithoutGenesis(t *testing.T) {
	f := newFixture(t)
	h := NewConfigHandler(f.signers)
	tx := &custodytest.Tx{Msg: &UpdateConfigurationMsg{
		Metadata: &custody.Metadata{Schema: 1},
		Patch:    &Configuration{ZeroRemainder: ZeroRemainderElide},
	}}
	_, err := h.Deliver(f.as(f.sponsor), f.db, tx)
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
}

func TestQueryEscrows(t *testing.T) {
	f := newFixture(t)
	f.fund(t, f.sponsor.Address(), coin.NewCoin(100, "USDC"))
	escrow := f.open(t, 100)

	qr := custody.NewQueryRouter()
	RegisterQuery(qr)

	h := qr.Handler("/escrows")
	require.NotNil(t, h)
	res, err := h.Query(f.db, custody.KeyQueryMod, escrow.Custody)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var got Escrow
	require.NoError(t, got.Unmarshal(res[0].Value))
	assert.Equal(t, escrow, &got)

	for _, idx := range []struct {
		path string
		key  []byte
	}{
		{"/escrows/sponsor", f.sponsor.Address()},
		{"/escrows/merchant", f.merchant.Address()},
		{"/escrows/pair", pairKey(f.sponsor.Address(), f.merchant.Address())},
	} {
		h := qr.Handler(idx.path)
		require.NotNil(t, h, idx.path)
		res, err := h.Query(f.db, custody.KeyQueryMod, idx.key)
		require.NoError(t, err)
		assert.Len(t, res, 1, idx.path)
	}
}
