package cash

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custody.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, NewSendHandler(auth, control))
	r.Handle(pathCreateAccountMsg, NewCreateAccountHandler(auth, control))
}

// RegisterQuery will register this bucket as "/accounts"
func RegisterQuery(qr custody.QueryRouter) {
	NewBucket().Register("accounts", qr)
}

// SendHandler moves value between accounts on behalf of the source owner.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = SendHandler{}

// NewSendHandler creates a handler for SendMsg
func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{
		auth:    auth,
		control: control,
	}
}

// Check verifies the message and the source owner signature and returns
// the cost of executing it
func (h SendHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &custody.CheckResult{GasAllocated: sendTxCost}, nil
}

// Deliver moves the tokens from source to destination if
// all preconditions are met
func (h SendHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, src, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.Transfer(ctx, db, msg.Source, msg.Destination, src.Owner, *msg.Amount); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{}, nil
}

func (h SendHandler) validate(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*SendMsg, *Account, error) {
	var msg SendMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	src, err := h.control.Account(db, msg.Source)
	if err != nil {
		return nil, nil, errors.Wrap(err, "source")
	}
	if !h.auth.HasAddress(ctx, src.Owner) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "account owner signature missing")
	}
	dst, err := h.control.Account(db, msg.Destination)
	if err != nil {
		return nil, nil, errors.Wrap(err, "destination")
	}
	if dst.IsCustody(msg.Destination) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "custody accounts accept no deposits")
	}
	return &msg, src, nil
}

// CreateAccountHandler creates associated accounts.
type CreateAccountHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ custody.Handler = CreateAccountHandler{}

// NewCreateAccountHandler creates a handler for CreateAccountMsg
func NewCreateAccountHandler(auth x.Authenticator, control Controller) CreateAccountHandler {
	return CreateAccountHandler{
		auth:    auth,
		control: control,
	}
}

func (h CreateAccountHandler) Check(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr := AccountAddress(msg.Owner, msg.Ticker)
	if _, err := h.control.Account(db, addr); err == nil {
		return nil, errors.Wrapf(errors.ErrDuplicate, "account %s", addr)
	}
	return &custody.CheckResult{GasAllocated: createAccountTxCost}, nil
}

// Deliver creates the account and returns its address as data.
func (h CreateAccountHandler) Deliver(ctx custody.Context, db custody.KVStore, tx custody.Tx) (*custody.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	addr := AccountAddress(msg.Owner, msg.Ticker)
	if _, err := h.control.CreateAccount(db, addr, msg.Owner, msg.Ticker); err != nil {
		return nil, err
	}
	return &custody.DeliverResult{Data: addr}, nil
}

func (h CreateAccountHandler) validate(ctx custody.Context, tx custody.Tx) (*CreateAccountMsg, error) {
	var msg CreateAccountMsg
	if err := custody.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "a payer must sign")
	}
	return &msg, nil
}
