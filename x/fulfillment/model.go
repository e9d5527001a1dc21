package fulfillment

import (
	"unicode/utf8"

	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/orm"
)

const (
	maxResourceTypeLen = 64
	maxDescriptionLen  = 128
	maxDonorTypeLen    = 64
)

// Fulfillment records a delivery of some resource to a station.
type Fulfillment struct {
	Metadata         *custody.Metadata `json:"metadata"`
	ResourceType     string            `json:"resource_type"`
	Quantity         uint64            `json:"quantity"`
	RecipientStation custody.Address   `json:"recipient_station"`
	FulfilledBy      custody.Address   `json:"fulfilled_by"`
	Description      string            `json:"description"`
	IsVolunteer      bool              `json:"is_volunteer"`
	Submitter        custody.Address   `json:"submitter"`
	Timestamp        custody.UnixTime  `json:"timestamp"`
}

var _ orm.CloneableData = (*Fulfillment)(nil)

func (f *Fulfillment) Marshal() ([]byte, error) {
	return custody.MarshalBinary(f)
}

func (f *Fulfillment) Unmarshal(raw []byte) error {
	*f = Fulfillment{}
	return custody.UnmarshalBinary(raw, f)
}

func (f *Fulfillment) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", f.Metadata.Validate())
	err = errors.AppendField(err, "ResourceType", validText(f.ResourceType, maxResourceTypeLen, true))
	if f.Quantity == 0 {
		err = errors.AppendField(err, "Quantity",
			errors.Wrap(errors.ErrInvalidInput, "quantity must be positive"))
	}
	err = errors.AppendField(err, "RecipientStation", f.RecipientStation.Validate())
	err = errors.AppendField(err, "FulfilledBy", f.FulfilledBy.Validate())
	err = errors.AppendField(err, "Description", validText(f.Description, maxDescriptionLen, false))
	err = errors.AppendField(err, "Submitter", f.Submitter.Validate())
	err = errors.AppendField(err, "Timestamp", f.Timestamp.Validate())
	return err
}

func (f *Fulfillment) Copy() orm.CloneableData {
	return &Fulfillment{
		Metadata:         f.Metadata.Copy(),
		ResourceType:     f.ResourceType,
		Quantity:         f.Quantity,
		RecipientStation: f.RecipientStation.Clone(),
		FulfilledBy:      f.FulfilledBy.Clone(),
		Description:      f.Description,
		IsVolunteer:      f.IsVolunteer,
		Submitter:        f.Submitter.Clone(),
		Timestamp:        f.Timestamp,
	}
}

// Donation records value pledged to a station. It does not move any
// funds.
type Donation struct {
	Metadata  *custody.Metadata `json:"metadata"`
	Amount    *coin.Coin        `json:"amount"`
	ToStation custody.Address   `json:"to_station"`
	From      custody.Address   `json:"from"`
	DonorType string            `json:"donor_type"`
	Timestamp custody.UnixTime  `json:"timestamp"`
}

var _ orm.CloneableData = (*Donation)(nil)

func (d *Donation) Marshal() ([]byte, error) {
	return custody.MarshalBinary(d)
}

func (d *Donation) Unmarshal(raw []byte) error {
	*d = Donation{}
	return custody.UnmarshalBinary(raw, d)
}

func (d *Donation) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", d.Metadata.Validate())
	err = errors.AppendField(err, "Amount", validDonation(d.Amount))
	err = errors.AppendField(err, "ToStation", d.ToStation.Validate())
	err = errors.AppendField(err, "From", d.From.Validate())
	err = errors.AppendField(err, "DonorType", validText(d.DonorType, maxDonorTypeLen, true))
	err = errors.AppendField(err, "Timestamp", d.Timestamp.Validate())
	return err
}

func (d *Donation) Copy() orm.CloneableData {
	var amount *coin.Coin
	if d.Amount != nil {
		amount = coin.NewCoinp(d.Amount.Amount, d.Amount.Ticker)
	}
	return &Donation{
		Metadata:  d.Metadata.Copy(),
		Amount:    amount,
		ToStation: d.ToStation.Clone(),
		From:      d.From.Clone(),
		DonorType: d.DonorType,
		Timestamp: d.Timestamp,
	}
}

func validDonation(c *coin.Coin) error {
	if coin.IsEmpty(c) || !c.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive donation: %v", c)
	}
	return c.Validate()
}

// validText limits s to max characters.
func validText(s string, max int, required bool) error {
	if required && s == "" {
		return errors.Wrap(errors.ErrEmpty, "required")
	}
	if !utf8.ValidString(s) {
		return errors.Wrap(errors.ErrInvalidInput, "not valid utf8")
	}
	if n := utf8.RuneCountInString(s); n > max {
		return errors.Wrapf(errors.ErrInvalidInput, "%d characters, at most %d allowed", n, max)
	}
	return nil
}

// FulfillmentBucket stores fulfillments under sequence keys, indexed by
// the recipient station.
type FulfillmentBucket struct {
	orm.Bucket
	ids orm.Sequence
}

func NewFulfillmentBucket() FulfillmentBucket {
	b := orm.NewBucket("fulfil", orm.NewSimpleObj(nil, new(Fulfillment))).
		WithIndex("station", fulfillmentStation, false)
	return FulfillmentBucket{Bucket: b, ids: b.Sequence("id")}
}

// Create stores f under the next id and returns the id.
func (b FulfillmentBucket) Create(db custody.KVStore, f *Fulfillment) ([]byte, error) {
	key := b.ids.NextVal(db)
	if err := b.Save(db, orm.NewSimpleObj(key, f)); err != nil {
		return nil, errors.Wrap(err, "cannot store fulfillment")
	}
	return key, nil
}

// ByStation returns all fulfillments received by station.
func (b FulfillmentBucket) ByStation(db custody.ReadOnlyKVStore, station custody.Address) ([]*Fulfillment, error) {
	objs, err := b.GetIndexed(db, "station", station)
	if err != nil {
		return nil, err
	}
	res := make([]*Fulfillment, 0, len(objs))
	for _, o := range objs {
		res = append(res, o.Value().(*Fulfillment))
	}
	return res, nil
}

func fulfillmentStation(obj orm.Object) ([]byte, error) {
	f, ok := obj.Value().(*Fulfillment)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return f.RecipientStation, nil
}

// DonationBucket stores donations under sequence keys, indexed by the
// receiving station.
type DonationBucket struct {
	orm.Bucket
	ids orm.Sequence
}

func NewDonationBucket() DonationBucket {
	b := orm.NewBucket("donation", orm.NewSimpleObj(nil, new(Donation))).
		WithIndex("station", donationStation, false)
	return DonationBucket{Bucket: b, ids: b.Sequence("id")}
}

// Create stores d under the next id and returns the id.
func (b DonationBucket) Create(db custody.KVStore, d *Donation) ([]byte, error) {
	key := b.ids.NextVal(db)
	if err := b.Save(db, orm.NewSimpleObj(key, d)); err != nil {
		return nil, errors.Wrap(err, "cannot store donation")
	}
	return key, nil
}

// ByStation returns all donations made to station.
func (b DonationBucket) ByStation(db custody.ReadOnlyKVStore, station custody.Address) ([]*Donation, error) {
	objs, err := b.GetIndexed(db, "station", station)
	if err != nil {
		return nil, err
	}
	res := make([]*Donation, 0, len(objs))
	for _, o := range objs {
		res = append(res, o.Value().(*Donation))
	}
	return res, nil
}

func donationStation(obj orm.Object) ([]byte, error) {
	d, ok := obj.Value().(*Donation)
	if !ok {
		return nil, errors.WithType(errors.ErrType, obj.Value())
	}
	return d.ToStation, nil
}
