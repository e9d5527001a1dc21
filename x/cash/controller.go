package cash

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x"
)

// Controller is the only way other extensions may touch account balances.
type Controller interface {
	// Transfer moves amount from one account to another. The authority
	// must be the owner of the source account and must be authenticated
	// in the context.
	Transfer(ctx custody.Context, db custody.KVStore, from, to, authority custody.Address, amount coin.Coin) error
	CreateAccount(db custody.KVStore, addr, owner custody.Address, ticker string) (*Account, error)
	CloseAccount(db custody.KVStore, addr custody.Address) error
	Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error)
	Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coin, error)
	Issue(db custody.KVStore, addr custody.Address, amount coin.Coin) error
}

// BaseController is the default Controller implementation.
type BaseController struct {
	bucket Bucket
	auth   x.Authenticator
}

var _ Controller = BaseController{}

// NewController returns a controller that checks debit authority with
// the given authenticator.
func NewController(auth x.Authenticator) BaseController {
	return BaseController{
		bucket: NewBucket(),
		auth:   auth,
	}
}

// Transfer moves the given amount between two existing accounts of the
// same ticker. Nothing is written unless every check passes. Moving a
// zero amount is allowed and changes no balance.
func (c BaseController) Transfer(ctx custody.Context, db custody.KVStore, from, to, authority custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	src, err := c.mustAccount(db, from)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	if !src.Owner.Equals(authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s is not the owner of %s", authority, from)
	}
	if !c.auth.HasAddress(ctx, authority) {
		return errors.Wrapf(errors.ErrUnauthorized, "%s did not authorize the transfer", authority)
	}
	dst, err := c.mustAccount(db, to)
	if err != nil {
		return errors.Wrap(err, "destination")
	}
	if src.Ticker != amount.Ticker || dst.Ticker != amount.Ticker {
		return errors.Wrapf(errors.ErrMintMismatch, "cannot move %s from %s to %s account",
			amount.Ticker, src.Ticker, dst.Ticker)
	}

	remaining, err := src.Coin().Subtract(amount)
	if err != nil {
		return errors.Wrap(err, "source balance")
	}
	if from.Equals(to) || amount.IsZero() {
		return nil
	}
	credited, err := dst.Coin().Add(amount)
	if err != nil {
		return errors.Wrap(err, "destination balance")
	}

	src.Balance = remaining.Amount
	dst.Balance = credited.Amount
	if err := c.save(db, from, src); err != nil {
		return err
	}
	if err := c.save(db, to, dst); err != nil {
		return err
	}
	custody.GetLogger(ctx).Debug("transfer", "from", from, "to", to, "amount", amount.String())
	return nil
}

// CreateAccount stores a new empty account under addr.
func (c BaseController) CreateAccount(db custody.KVStore, addr, owner custody.Address, ticker string) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account address")
	}
	if c.bucket.Has(db, addr) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	obj := NewAccount(addr, owner, ticker)
	if err := c.bucket.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "save account")
	}
	return AsAccount(obj), nil
}

// CloseAccount removes an account. Only an empty account can be closed.
func (c BaseController) CloseAccount(db custody.KVStore, addr custody.Address) error {
	acct, err := c.mustAccount(db, addr)
	if err != nil {
		return err
	}
	if acct.Balance != 0 {
		return errors.Wrapf(errors.ErrInvalidState, "account %s still holds %s", addr, acct.Coin())
	}
	return c.bucket.Delete(db, addr)
}

// Account returns the account stored under addr or ErrNotFound.
func (c BaseController) Account(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	return c.mustAccount(db, addr)
}

// Balance returns the account balance or ErrNotFound.
func (c BaseController) Balance(db custody.ReadOnlyKVStore, addr custody.Address) (coin.Coin, error) {
	acct, err := c.mustAccount(db, addr)
	if err != nil {
		return coin.Coin{}, err
	}
	return acct.Coin(), nil
}

// Issue credits an existing account with newly created value. It is meant
// for genesis only. No handler exposes it.
func (c BaseController) Issue(db custody.KVStore, addr custody.Address, amount coin.Coin) error {
	if err := amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	acct, err := c.mustAccount(db, addr)
	if err != nil {
		return err
	}
	if acct.Ticker != amount.Ticker {
		return errors.Wrapf(errors.ErrMintMismatch, "cannot issue %s to %s account", amount.Ticker, acct.Ticker)
	}
	total, err := acct.Coin().Add(amount)
	if err != nil {
		return err
	}
	acct.Balance = total.Amount
	return c.save(db, addr, acct)
}

func (c BaseController) mustAccount(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	acct, err := c.bucket.GetAccount(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load account")
	}
	if acct == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return acct, nil
}

func (c BaseController) save(db custody.KVStore, addr custody.Address, acct *Account) error {
	if err := c.bucket.Save(db, NewAccountObj(addr, acct)); err != nil {
		return errors.Wrap(err, "save account")
	}
	return nil
}
