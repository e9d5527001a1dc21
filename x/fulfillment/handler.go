package fulfillment

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x"
)

const (
	logFulfillmentCost int64 = 20
	logDonationCost    int64 = 20
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator) {
	r.Handle(pathLogFulfillmentMsg, LogFulfillmentHandler{auth: auth, bucket: NewFulfillmentBucket()})
	r.Handle(pathLogDonationMsg, LogDonationHandler{auth: auth, bucket: NewDonationBucket()})
}

// RegisterQuery registers the "/fulfillments" and "/donations" buckets.
func RegisterQuery(qr custody.QueryRouter) {
	NewFulfillmentBucket().Register("fulfillments", qr)
	NewDonationBucket().Register("donations", qr)
}

// LogFulfillmentHandler records fulfillments. No value moves.
type LogFulfillmentHandler struct {
	auth   x.Authenticator
	bucket FulfillmentBucket
}

var _ custody.Handler = LogFulfillmentHandler{}

// Check validates the message and returns the cost of storing it.
func (h LogFulfillmentHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: logFulfillmentCost}, nil
}

// Deliver stores the fulfillment and returns its id as data.
func (h LogFulfillmentHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	f, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	key, err := h.bucket.Create(db, f)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: key}, nil
}

// validate builds the record from the message, the signer and the block
// time.
func (h LogFulfillmentHandler) validate(ctx custody.Context, tx custody.Tx) (*Fulfillment, error) {
	var msg LogFulfillmentMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	submitter := x.MainSigner(ctx, h.auth)
	if submitter == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "a submitter must sign")
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	fulfilledBy := msg.FulfilledBy
	if len(fulfilledBy) == 0 {
		fulfilledBy = submitter.Address()
	}
	return &Fulfillment{
		Metadata:         &custody.Metadata{Schema: 1},
		ResourceType:     msg.ResourceType,
		Quantity:         msg.Quantity,
		RecipientStation: msg.RecipientStation,
		FulfilledBy:      fulfilledBy,
		Description:      msg.Description,
		IsVolunteer:      msg.IsVolunteer,
		Submitter:        submitter.Address(),
		Timestamp:        now,
	}, nil
}

// LogDonationHandler records donations made outside the chain.
type LogDonationHandler struct {
	auth   x.Authenticator
	bucket DonationBucket
}

var _ custody.Handler = LogDonationHandler{}

// Check validates the message and returns the cost of storing it.
func (h LogDonationHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: logDonationCost}, nil
}

// Deliver stores the donation and returns its id as data.
func (h LogDonationHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	d, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	key, err := h.bucket.Create(db, d)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: key}, nil
}

func (h LogDonationHandler) validate(ctx custody.Context, tx custody.Tx) (*Donation, error) {
	var msg LogDonationMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	donor := x.MainSigner(ctx, h.auth)
	if donor == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "the donor must sign")
	}
	now, err := custody.BlockUnixTime(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "block time")
	}
	return &Donation{
		Metadata:  &custody.Metadata{Schema: 1},
		Amount:    msg.Amount,
		ToStation: msg.ToStation,
		From:      donor.Address(),
		DonorType: msg.DonorType,
		Timestamp: now,
	}, nil
}
