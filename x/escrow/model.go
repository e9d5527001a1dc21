package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/orm"
)

// BucketName is where we store the escrows
const BucketName = "esc"

// Escrow tracks the allocation locked in one custody account and how much
// of it the merchant has claimed so far.
type Escrow struct {
	Metadata *custody.Metadata `json:"metadata"`
	Sponsor  custody.Address   `json:"sponsor"`
	Merchant custody.Address   `json:"merchant"`
	// Ticker is the asset held by the custody account.
	Ticker          string            `json:"ticker"`
	AmountAllocated uint64            `json:"amount_allocated"`
	AmountClaimed   uint64            `json:"amount_claimed"`
	CreatedAt       custody.UnixTime  `json:"created_at"`
	LastClaimedAt   *custody.UnixTime `json:"last_claimed_at,omitempty"`
	// Generation counts the escrows opened for this pair, starting at 1.
	Generation uint64 `json:"generation"`
	Bump       uint32 `json:"bump"`
	// Custody is the address of the custody account and the escrow id.
	Custody custody.Address `json:"custody"`
}

var _ orm.CloneableData = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return custody.MarshalBinary(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	*e = Escrow{}
	return custody.UnmarshalBinary(raw, e)
}

// Validate ensures the escrow is consistent
func (e *Escrow) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", e.Metadata.Validate())
	err = errors.AppendField(err, "Sponsor", e.Sponsor.Validate())
	err = errors.AppendField(err, "Merchant", e.Merchant.Validate())
	if e.Sponsor.Equals(e.Merchant) {
		err = errors.AppendField(err, "Merchant",
			errors.Wrap(errors.ErrInvalidInput, "sponsor cannot be the merchant"))
	}
	if !coin.IsCC(e.Ticker) {
		err = errors.AppendField(err, "Ticker",
			errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", e.Ticker))
	}
	if e.AmountAllocated == 0 {
		err = errors.AppendField(err, "AmountAllocated",
			errors.Wrap(errors.ErrInvalidAmount, "allocation must be positive"))
	}
	if e.AmountClaimed > e.AmountAllocated {
		err = errors.AppendField(err, "AmountClaimed",
			errors.Wrapf(ErrOverClaim, "claimed %d of %d", e.AmountClaimed, e.AmountAllocated))
	}
	err = errors.AppendField(err, "CreatedAt", e.CreatedAt.Validate())
	if e.LastClaimedAt != nil && *e.LastClaimedAt < e.CreatedAt {
		err = errors.AppendField(err, "LastClaimedAt",
			errors.Wrap(errors.ErrInvalidState, "claimed before creation"))
	}
	if e.Generation == 0 {
		err = errors.AppendField(err, "Generation",
			errors.Wrap(errors.ErrInvalidInput, "generation starts at 1"))
	}
	if e.Bump > maxBump {
		err = errors.AppendField(err, "Bump",
			errors.Wrapf(errors.ErrInvalidInput, "bump %d out of range", e.Bump))
	}
	err = errors.AppendField(err, "Custody", e.Custody.Validate())
	return err
}

// Copy makes a deep copy of the escrow
func (e *Escrow) Copy() orm.CloneableData {
	var last *custody.UnixTime
	if e.LastClaimedAt != nil {
		last = e.LastClaimedAt.Ptr()
	}
	return &Escrow{
		Metadata:        e.Metadata.Copy(),
		Sponsor:         e.Sponsor.Clone(),
		Merchant:        e.Merchant.Clone(),
		Ticker:          e.Ticker,
		AmountAllocated: e.AmountAllocated,
		AmountClaimed:   e.AmountClaimed,
		CreatedAt:       e.CreatedAt,
		LastClaimedAt:   last,
		Generation:      e.Generation,
		Bump:            e.Bump,
		Custody:         e.Custody.Clone(),
	}
}

// Remaining is the part of the allocation that was not claimed yet.
func (e *Escrow) Remaining() uint64 {
	return e.AmountAllocated - e.AmountClaimed
}

// NewEscrow creates an escrow orm.Object stored under its custody address.
func NewEscrow(e *Escrow) orm.Object {
	return orm.NewSimpleObj(e.Custody, e)
}

// AsEscrow extracts an *Escrow value or nil from the object
// Must be called on a Bucket result that is an *Escrow,
// will panic on bad type.
func AsEscrow(obj orm.Object) *Escrow {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Escrow)
}

// Bucket is a type-safe wrapper around orm.Bucket
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a Bucket with the sponsor, merchant and pair
// indexes. The pair index is unique, so a pair has at most one open escrow.
func NewBucket() Bucket {
	b := orm.NewBucket(BucketName, orm.NewSimpleObj(nil, new(Escrow))).
		WithIndex("sponsor", idxSponsor, false).
		WithIndex("merchant", idxMerchant, false).
		WithIndex("pair", idxPair, true)
	return Bucket{Bucket: b}
}

// GetEscrow loads the escrow with the given custody address. It returns
// ErrNotFound if there is none.
func (b Bucket) GetEscrow(db custody.ReadOnlyKVStore, id custody.Address) (*Escrow, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load escrow")
	}
	e := AsEscrow(obj)
	if e == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", id)
	}
	return e, nil
}

// ByPair returns the open escrow of the pair or nil.
func (b Bucket) ByPair(db custody.ReadOnlyKVStore, sponsor, merchant custody.Address) (*Escrow, error) {
	objs, err := b.GetIndexed(db, "pair", pairKey(sponsor, merchant))
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}
	return AsEscrow(objs[0]), nil
}

// generation counts escrows opened for a pair. It is never reset, so a
// pair never reuses a custody address.
func (b Bucket) generation(sponsor, merchant custody.Address) orm.Sequence {
	return b.Sequence("gen").Keyed(pairKey(sponsor, merchant))
}

func pairKey(sponsor, merchant custody.Address) []byte {
	key := make([]byte, 0, len(sponsor)+len(merchant))
	key = append(key, sponsor...)
	return append(key, merchant...)
}

func toEscrow(obj orm.Object) (*Escrow, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	esc, ok := obj.Value().(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return esc, nil
}

func idxSponsor(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Sponsor, nil
}

func idxMerchant(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return esc.Merchant, nil
}

func idxPair(obj orm.Object) ([]byte, error) {
	esc, err := toEscrow(obj)
	if err != nil {
		return nil, err
	}
	return pairKey(esc.Sponsor, esc.Merchant), nil
}
