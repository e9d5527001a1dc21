package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x"
	"github.com/reppay/custody/x/cash"
)

// Controller runs the escrow lifecycle. Every method must run inside a
// savepoint: on error some writes may already be done and the caller is
// expected to discard them.
type Controller interface {
	Open(ctx custody.Context, db custody.KVStore, sponsor, merchant, source custody.Address, amount coin.Coin) (*Escrow, error)
	Claim(ctx custody.Context, db custody.KVStore, id custody.Address, amount uint64, destination custody.Address) (*Receipt, error)
	Cancel(ctx custody.Context, db custody.KVStore, id custody.Address, destination custody.Address) (*Escrow, error)
	DirectTransfer(ctx custody.Context, db custody.KVStore, from, to custody.Address, amount coin.Coin) error
}

// Receipt describes a successful claim.
type Receipt struct {
	Escrow        custody.Address  `json:"escrow"`
	Amount        coin.Coin        `json:"amount"`
	AmountClaimed uint64           `json:"amount_claimed"`
	Remaining     uint64           `json:"remaining"`
	ClaimedAt     custody.UnixTime `json:"claimed_at"`
}

func (r *Receipt) Marshal() ([]byte, error) {
	return custody.MarshalBinary(r)
}

func (r *Receipt) Unmarshal(raw []byte) error {
	*r = Receipt{}
	return custody.UnmarshalBinary(raw, r)
}

// Event returns the claim event matching this receipt.
func (r *Receipt) Event(e *Escrow) *ClaimEvent {
	return &ClaimEvent{
		Escrow:    r.Escrow,
		Sponsor:   e.Sponsor,
		Merchant:  e.Merchant,
		Amount:    r.Amount,
		ClaimedAt: r.ClaimedAt,
	}
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
	// auth authenticates the sponsor and the merchant.
	auth x.Authenticator
	cash cash.Controller
}

var _ Controller = BaseController{}

// NewController returns a controller that moves value with the given cash
// controller. The cash controller must accept the escrow Authenticate for
// custody debits.
func NewController(auth x.Authenticator, cashctrl cash.Controller) BaseController {
	return BaseController{
		bucket: NewBucket(),
		auth:   auth,
		cash:   cashctrl,
	}
}

// Open locks amount taken from the source account of the sponsor in a new
// custody account and records the escrow.
func (c BaseController) Open(ctx custody.Context, db custody.KVStore, sponsor, merchant, source custody.Address, amount coin.Coin) (*Escrow, error) {
	if !amount.IsPositive() {
		return nil, errors.Wrapf(errors.ErrInvalidAmount, "cannot open with %s", amount)
	}
	if !c.auth.HasAddress(ctx, sponsor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sponsor signature missing")
	}
	switch open, err := c.bucket.ByPair(db, sponsor, merchant); {
	case err != nil:
		return nil, errors.Wrap(err, "pair index")
	case open != nil:
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s is still open for this pair", open.Custody)
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}

	gen := c.bucket.generation(sponsor, merchant).NextInt(db)
	authority, err := DeriveAuthority(sponsor, merchant, gen)
	if err != nil {
		return nil, err
	}
	addr := authority.Address()
	if _, err := c.cash.CreateAccount(db, addr, addr, amount.Ticker); err != nil {
		return nil, errors.Wrap(err, "custody account")
	}
	if err := c.cash.Transfer(ctx, db, source, addr, sponsor, amount); err != nil {
		return nil, err
	}

	escrow := &Escrow{
		Metadata:        &custody.Metadata{Schema: 1},
		Sponsor:         sponsor,
		Merchant:        merchant,
		Ticker:          amount.Ticker,
		AmountAllocated: amount.Amount,
		CreatedAt:       now,
		Generation:      gen,
		Bump:            uint32(authority.Bump),
		Custody:         addr,
	}
	if err := c.bucket.Save(db, NewEscrow(escrow)); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	custody.GetLogger(ctx).Debug("escrow opened",
		"escrow", addr, "generation", gen, "amount", amount.String())
	return escrow, nil
}

// Claim moves amount from custody to a destination account owned by the
// merchant. The transfer is authorized by the derived authority only.
func (c BaseController) Claim(ctx custody.Context, db custody.KVStore, id custody.Address, amount uint64, destination custody.Address) (*Receipt, error) {
	if amount == 0 {
		return nil, errors.Wrap(errors.ErrInvalidAmount, "cannot claim zero")
	}
	escrow, err := c.bucket.GetEscrow(db, id)
	if err != nil {
		return nil, err
	}
	if !c.auth.HasAddress(ctx, escrow.Merchant) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "merchant signature missing")
	}
	claimed := escrow.AmountClaimed + amount
	if claimed < escrow.AmountClaimed || claimed > escrow.AmountAllocated {
		return nil, errors.Wrapf(ErrOverClaim, "%d claimed, %d allocated, %d requested",
			escrow.AmountClaimed, escrow.AmountAllocated, amount)
	}
	dst, err := c.cash.Account(db, destination)
	if err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	if dst.Ticker != escrow.Ticker {
		return nil, errors.Wrapf(errors.ErrMintMismatch, "custody holds %s, destination holds %s", escrow.Ticker, dst.Ticker)
	}
	if !dst.Owner.Equals(escrow.Merchant) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "destination is not owned by the merchant")
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}

	value := coin.NewCoin(amount, escrow.Ticker)
	if err := c.release(ctx, db, escrow, destination, value); err != nil {
		return nil, err
	}

	escrow.AmountClaimed = claimed
	escrow.LastClaimedAt = now.Ptr()
	if err := c.bucket.Save(db, NewEscrow(escrow)); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	return &Receipt{
		Escrow:        escrow.Custody,
		Amount:        value,
		AmountClaimed: escrow.AmountClaimed,
		Remaining:     escrow.Remaining(),
		ClaimedAt:     now,
	}, nil
}

// Cancel returns what is left in custody to a sponsor account, closes the
// custody account and removes the escrow.
func (c BaseController) Cancel(ctx custody.Context, db custody.KVStore, id custody.Address, destination custody.Address) (*Escrow, error) {
	escrow, err := c.bucket.GetEscrow(db, id)
	if err != nil {
		return nil, err
	}
	if !c.auth.HasAddress(ctx, escrow.Sponsor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sponsor signature missing")
	}
	dst, err := c.cash.Account(db, destination)
	if err != nil {
		return nil, errors.Wrap(err, "destination")
	}
	if dst.Ticker != escrow.Ticker {
		return nil, errors.Wrapf(errors.ErrMintMismatch, "custody holds %s, destination holds %s", escrow.Ticker, dst.Ticker)
	}
	if !dst.Owner.Equals(escrow.Sponsor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "destination is not owned by the sponsor")
	}

	// Custody accounts refuse deposits, so the balance is always the
	// unclaimed remainder.
	balance, err := c.cash.Balance(db, escrow.Custody)
	if err != nil {
		return nil, errors.Wrap(err, "custody")
	}
	remainder := coin.NewCoin(escrow.Remaining(), escrow.Ticker)
	if balance.Amount != remainder.Amount {
		return nil, errors.Wrapf(errors.ErrInvalidState, "custody holds %s, %s expected", balance, remainder)
	}
	conf, err := loadConfig(db)
	if err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	if !remainder.IsZero() || !conf.elideZero() {
		if err := c.release(ctx, db, escrow, destination, remainder); err != nil {
			return nil, err
		}
	}

	if err := c.cash.CloseAccount(db, escrow.Custody); err != nil {
		return nil, errors.Wrap(err, "custody account")
	}
	if err := c.bucket.Delete(db, escrow.Custody); err != nil {
		return nil, errors.Wrap(err, "cannot delete escrow")
	}
	custody.GetLogger(ctx).Debug("escrow cancelled",
		"escrow", escrow.Custody, "returned", remainder.String())
	return escrow, nil
}

// DirectTransfer moves value between accounts without any escrow. The
// owner of the source account must sign. Custody accounts cannot be
// credited this way.
func (c BaseController) DirectTransfer(ctx custody.Context, db custody.KVStore, from, to custody.Address, amount coin.Coin) error {
	src, err := c.cash.Account(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dst, err := c.cash.Account(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if dst.IsCustody(to) {
		return errors.Wrap(errors.ErrUnauthorized, "custody accounts accept no deposits")
	}
	return c.cash.Transfer(ctx, db, from, to, src.Owner, amount)
}

// release moves value out of custody. The authority is rebuilt from the
// stored record. If the record was tampered with, the authority does not
// own the custody account and the transfer is refused.
func (c BaseController) release(ctx custody.Context, db custody.KVStore, escrow *Escrow, to custody.Address, amount coin.Coin) error {
	if escrow.Bump > maxBump {
		return errors.Wrapf(errors.ErrUnauthorized, "bump %d out of range", escrow.Bump)
	}
	authority, err := AuthorityAt(escrow.Sponsor, escrow.Merchant, escrow.Generation, uint8(escrow.Bump))
	if err != nil {
		return err
	}
	ctx = withAuthority(ctx, authority)
	return c.cash.Transfer(ctx, db, escrow.Custody, to, authority.Address(), amount)
}
