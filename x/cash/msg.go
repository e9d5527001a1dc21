package cash

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
)

const (
	pathSendMsg          = "cash/send"
	pathCreateAccountMsg = "cash/create_account"

	sendTxCost          int64 = 100
	createAccountTxCost int64 = 50

	maxMemoSize int = 128
)

func init() {
	custody.RegisterMsg(&SendMsg{}, pathSendMsg)
	custody.RegisterMsg(&CreateAccountMsg{}, pathCreateAccountMsg)
}

// SendMsg moves value directly between two accounts. It is authorized by
// the owner of the source account.
type SendMsg struct {
	Metadata    *custody.Metadata `json:"metadata"`
	Source      custody.Address   `json:"source"`
	Destination custody.Address   `json:"destination"`
	Amount      *coin.Coin        `json:"amount"`
	Memo        string            `json:"memo,omitempty"`
}

var _ custody.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return pathSendMsg
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		err = errors.AppendField(err, "Amount",
			errors.Wrapf(errors.ErrInvalidAmount, "non-positive send: %v", m.Amount))
	} else {
		err = errors.AppendField(err, "Amount", m.Amount.Validate())
	}
	err = errors.AppendField(err, "Source", m.Source.Validate())
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo",
			errors.Wrapf(errors.ErrInvalidInput, "memo longer than %d", maxMemoSize))
	}
	return err
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	*m = SendMsg{}
	return custody.UnmarshalBinary(raw, m)
}

// CreateAccountMsg creates the associated account of an owner for the
// given ticker. Anyone may pay for it.
type CreateAccountMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Owner    custody.Address   `json:"owner"`
	Ticker   string            `json:"ticker"`
}

var _ custody.Msg = (*CreateAccountMsg)(nil)

func (CreateAccountMsg) Path() string {
	return pathCreateAccountMsg
}

func (m *CreateAccountMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "Owner", m.Owner.Validate())
	if !coin.IsCC(m.Ticker) {
		err = errors.AppendField(err, "Ticker",
			errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", m.Ticker))
	}
	return err
}

func (m *CreateAccountMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *CreateAccountMsg) Unmarshal(raw []byte) error {
	*m = CreateAccountMsg{}
	return custody.UnmarshalBinary(raw, m)
}
