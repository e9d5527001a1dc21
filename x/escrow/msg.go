package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x/cash"
)

const (
	pathOpenMsg                = "escrow/open"
	pathClaimMsg               = "escrow/claim"
	pathCancelMsg              = "escrow/cancel"
	pathUpdateConfigurationMsg = "escrow/update_configuration"
)

func init() {
	custody.RegisterMsg(&OpenMsg{}, pathOpenMsg)
	custody.RegisterMsg(&ClaimMsg{}, pathClaimMsg)
	custody.RegisterMsg(&CancelMsg{}, pathCancelMsg)
	custody.RegisterMsg(&UpdateConfigurationMsg{}, pathUpdateConfigurationMsg)
}

// OpenMsg locks Amount for the merchant. Source defaults to the associated
// account of the sponsor for the amount ticker.
type OpenMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Sponsor  custody.Address   `json:"sponsor"`
	Merchant custody.Address   `json:"merchant"`
	Source   custody.Address   `json:"source,omitempty"`
	Amount   *coin.Coin        `json:"amount"`
}

var _ custody.Msg = (*OpenMsg)(nil)

func (OpenMsg) Path() string {
	return pathOpenMsg
}

func (m *OpenMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "Sponsor", m.Sponsor.Validate())
	err = errors.AppendField(err, "Merchant", m.Merchant.Validate())
	if m.Sponsor.Equals(m.Merchant) {
		err = errors.AppendField(err, "Merchant",
			errors.Wrap(errors.ErrInvalidInput, "sponsor cannot be the merchant"))
	}
	if len(m.Source) != 0 {
		err = errors.AppendField(err, "Source", m.Source.Validate())
	}
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		err = errors.AppendField(err, "Amount",
			errors.Wrapf(errors.ErrInvalidAmount, "non-positive allocation: %v", m.Amount))
	} else {
		err = errors.AppendField(err, "Amount", m.Amount.Validate())
	}
	return err
}

// source returns the account the allocation is taken from.
func (m *OpenMsg) source() custody.Address {
	if len(m.Source) != 0 {
		return m.Source
	}
	return cash.AccountAddress(m.Sponsor, m.Amount.Ticker)
}

func (m *OpenMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *OpenMsg) Unmarshal(raw []byte) error {
	*m = OpenMsg{}
	return custody.UnmarshalBinary(raw, m)
}

// ClaimMsg withdraws Amount from an escrow. Destination defaults to the
// associated account of the merchant.
type ClaimMsg struct {
	Metadata    *custody.Metadata `json:"metadata"`
	EscrowID    custody.Address   `json:"escrow_id"`
	Amount      uint64            `json:"amount"`
	Destination custody.Address   `json:"destination,omitempty"`
}

var _ custody.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return pathClaimMsg
}

func (m *ClaimMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "EscrowID", m.EscrowID.Validate())
	if m.Amount == 0 {
		err = errors.AppendField(err, "Amount",
			errors.Wrap(errors.ErrInvalidAmount, "cannot claim zero"))
	}
	if len(m.Destination) != 0 {
		err = errors.AppendField(err, "Destination", m.Destination.Validate())
	}
	return err
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	*m = ClaimMsg{}
	return custody.UnmarshalBinary(raw, m)
}

// CancelMsg closes an escrow. Destination defaults to the associated
// account of the sponsor.
type CancelMsg struct {
	Metadata    *custody.Metadata `json:"metadata"`
	EscrowID    custody.Address   `json:"escrow_id"`
	Destination custody.Address   `json:"destination,omitempty"`
}

var _ custody.Msg = (*CancelMsg)(nil)

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "EscrowID", m.EscrowID.Validate())
	if len(m.Destination) != 0 {
		err = errors.AppendField(err, "Destination", m.Destination.Validate())
	}
	return err
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	*m = CancelMsg{}
	return custody.UnmarshalBinary(raw, m)
}

// UpdateConfigurationMsg patches the escrow configuration. Zero fields of
// the patch are ignored.
type UpdateConfigurationMsg struct {
	Metadata *custody.Metadata `json:"metadata"`
	Patch    *Configuration    `json:"patch"`
}

var _ custody.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

// Validate will skip any zero fields and validate the set ones
func (m *UpdateConfigurationMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	if m.Patch == nil {
		return errors.AppendField(err, "Patch", errors.Wrap(errors.ErrEmpty, "patch required"))
	}
	if m.Patch.Metadata != nil {
		err = errors.AppendField(err, "Patch.Metadata", m.Patch.Metadata.Validate())
	}
	if len(m.Patch.Owner) != 0 {
		err = errors.AppendField(err, "Patch.Owner", m.Patch.Owner.Validate())
	}
	err = errors.AppendField(err, "Patch.ZeroRemainder", validPolicy(m.Patch.ZeroRemainder))
	return err
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	return custody.UnmarshalBinary(raw, m)
}
