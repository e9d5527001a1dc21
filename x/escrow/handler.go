package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/gconf"
	"github.com/reppay/custody/x"
	"github.com/reppay/custody/x/cash"
)

const (
	// pay escrow cost up-front
	openEscrowCost   int64 = 300
	claimEscrowCost  int64 = 100
	cancelEscrowCost int64 = 50
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, cashctrl cash.Controller) {
	bucket := NewBucket()
	ctrl := NewController(auth, cashctrl)

	r.Handle(pathOpenMsg, OpenHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathClaimMsg, ClaimHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathCancelMsg, CancelHandler{auth: auth, bucket: bucket, ctrl: ctrl})
	r.Handle(pathUpdateConfigurationMsg, NewConfigHandler(auth))
}

// RegisterQuery will register this bucket as "/escrows"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// NewConfigHandler returns the handler of configuration updates.
func NewConfigHandler(auth x.Authenticator) custody.Handler {
	var conf Configuration
	return gconf.NewUpdateConfigurationHandler(confPkg, &conf, auth, nil)
}

// OpenHandler creates escrows.
type OpenHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   Controller
}

var _ custody.Handler = OpenHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h OpenHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: openEscrowCost}, nil
}

// Deliver moves the allocation into custody and stores the escrow. The
// custody address is returned as data.
func (h OpenHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	escrow, err := h.ctrl.Open(ctx, db, msg.Sponsor, msg.Merchant, msg.source(), *msg.Amount)
	if err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: escrow.Custody}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h OpenHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*OpenMsg, error) {
	var msg OpenMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Sponsor) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "sponsor signature missing")
	}
	open, err := h.bucket.ByPair(db, msg.Sponsor, msg.Merchant)
	if err != nil {
		return nil, errors.Wrap(err, "pair index")
	}
	if open != nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s is still open for this pair", open.Custody)
	}
	return &msg, nil
}

// ClaimHandler pays the merchant out of custody.
type ClaimHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   Controller
}

var _ custody.Handler = ClaimHandler{}

// Check verifies the caller and the allocation bounds without moving any
// value.
func (h ClaimHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if claimed := escrow.AmountClaimed + msg.Amount; claimed < escrow.AmountClaimed || claimed > escrow.AmountAllocated {
		return nil, errors.Wrapf(ErrOverClaim, "%d of %d left", escrow.Remaining(), escrow.AmountAllocated)
	}
	return &custody.CheckResult{GasAllocated: claimEscrowCost}, nil
}

// Deliver pays the claim and emits a ClaimEvent. The receipt is returned
// as data.
func (h ClaimHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	dst := msg.Destination
	if len(dst) == 0 {
		dst = cash.AccountAddress(escrow.Merchant, escrow.Ticker)
	}
	receipt, err := h.ctrl.Claim(ctx, db, msg.EscrowID, msg.Amount, dst)
	if err != nil {
		return nil, err
	}
	raw, err := receipt.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "receipt")
	}
	event := receipt.Event(escrow)
	return &custody.DeliverResult{
		Data:   raw,
		Tags:   claimTags(event),
		Events: []custody.Event{event},
	}, nil
}

func (h ClaimHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*ClaimMsg, *Escrow, error) {
	var msg ClaimMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.bucket.GetEscrow(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, escrow.Merchant) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "merchant signature missing")
	}
	return &msg, escrow, nil
}

// CancelHandler closes escrows on behalf of the sponsor.
type CancelHandler struct {
	auth   x.Authenticator
	bucket Bucket
	ctrl   Controller
}

var _ custody.Handler = CancelHandler{}

// Check verifies the sponsor and the escrow without moving any value.
func (h CancelHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: cancelEscrowCost}, nil
}

// Deliver returns the remainder to the sponsor and removes the escrow.
func (h CancelHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	dst := msg.Destination
	if len(dst) == 0 {
		dst = cash.AccountAddress(escrow.Sponsor, escrow.Ticker)
	}
	if _, err := h.ctrl.Cancel(ctx, db, msg.EscrowID, dst); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: msg.EscrowID}, nil
}

func (h CancelHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*CancelMsg, *Escrow, error) {
	var msg CancelMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := h.bucket.GetEscrow(db, msg.EscrowID)
	if err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, escrow.Sponsor) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "sponsor signature missing")
	}
	return &msg, escrow, nil
}
