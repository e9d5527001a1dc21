package cash

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/orm"
)

// BucketName is where we store the accounts
const BucketName = "cash"

// Account is a balance of a single ticker that can be debited only with
// the authorization of the owner.
type Account struct {
	Metadata *custody.Metadata `json:"metadata"`
	Owner    custody.Address   `json:"owner"`
	Ticker   string            `json:"ticker"`
	Balance  uint64            `json:"balance"`
}

var _ orm.CloneableData = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) {
	return custody.MarshalBinary(a)
}

func (a *Account) Unmarshal(raw []byte) error {
	*a = Account{}
	return custody.UnmarshalBinary(raw, a)
}

// Validate requires a known owner and a well formed ticker.
func (a *Account) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", a.Metadata.Validate())
	err = errors.AppendField(err, "Owner", a.Owner.Validate())
	if !coin.IsCC(a.Ticker) {
		err = errors.AppendField(err, "Ticker",
			errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", a.Ticker))
	}
	return err
}

// Copy makes a new Account with the same content
func (a *Account) Copy() orm.CloneableData {
	return &Account{
		Metadata: a.Metadata.Copy(),
		Owner:    a.Owner.Clone(),
		Ticker:   a.Ticker,
		Balance:  a.Balance,
	}
}

// Coin returns the balance as a coin of the account ticker.
func (a *Account) Coin() coin.Coin {
	return coin.NewCoin(a.Balance, a.Ticker)
}

// IsCustody reports whether the account stored under addr owns itself.
// Only escrow custody accounts are created that way.
func (a *Account) IsCustody(addr custody.Address) bool {
	return a.Owner.Equals(addr)
}

// AccountAddress returns the address of the associated account of an owner
// for the given ticker. There is exactly one such account per pair.
func AccountAddress(owner custody.Address, ticker string) custody.Address {
	data := make([]byte, 0, len(owner)+len(ticker))
	data = append(data, owner...)
	data = append(data, ticker...)
	return custody.NewCondition("cash", "acct", data).Address()
}

// NewAccount creates an empty account object stored under addr.
func NewAccount(addr, owner custody.Address, ticker string) orm.Object {
	return orm.NewSimpleObj(addr, &Account{
		Metadata: &custody.Metadata{Schema: 1},
		Owner:    owner,
		Ticker:   ticker,
	})
}

// NewAccountObj wraps an existing account for storage under addr.
func NewAccountObj(addr custody.Address, acct *Account) orm.Object {
	return orm.NewSimpleObj(addr, acct)
}

// AsAccount will safely type-cast any value from Bucket to an Account
func AsAccount(obj orm.Object) *Account {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Account)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with the owner index.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, NewAccount(nil, nil, "")).
		WithIndex("owner", ownerIndex, false)
	return Bucket{Bucket: b}
}

// GetAccount loads the account stored under addr. It returns nil without
// an error when no such account exists.
func (b Bucket) GetAccount(db custody.ReadOnlyKVStore, addr custody.Address) (*Account, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, err
	}
	return AsAccount(obj), nil
}

// ByOwner returns all accounts owned by the given address.
func (b Bucket) ByOwner(db custody.ReadOnlyKVStore, owner custody.Address) ([]orm.Object, error) {
	return b.GetIndexed(db, "owner", owner)
}

func ownerIndex(obj orm.Object) ([]byte, error) {
	acct, ok := obj.Value().(*Account)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return acct.Owner, nil
}
