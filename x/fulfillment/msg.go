package fulfillment

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
)

const (
	pathLogFulfillmentMsg = "fulfillment/log"
	pathLogDonationMsg    = "fulfillment/donate"
)

func init() {
	custody.RegisterMsg(&LogFulfillmentMsg{}, pathLogFulfillmentMsg)
	custody.RegisterMsg(&LogDonationMsg{}, pathLogDonationMsg)
}

// LogFulfillmentMsg appends a fulfillment. FulfilledBy defaults to the
// submitter.
type LogFulfillmentMsg struct {
	Metadata         *custody.Metadata `json:"metadata"`
	ResourceType     string            `json:"resource_type"`
	Quantity         uint64            `json:"quantity"`
	RecipientStation custody.Address   `json:"recipient_station"`
	FulfilledBy      custody.Address   `json:"fulfilled_by,omitempty"`
	Description      string            `json:"description"`
	IsVolunteer      bool              `json:"is_volunteer"`
}

var _ custody.Msg = (*LogFulfillmentMsg)(nil)

func (LogFulfillmentMsg) Path() string {
	return pathLogFulfillmentMsg
}

func (m *LogFulfillmentMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "ResourceType", validText(m.ResourceType, maxResourceTypeLen, true))
	if m.Quantity == 0 {
		err = errors.AppendField(err, "Quantity",
			errors.Wrap(errors.ErrInvalidInput, "quantity must be positive"))
	}
	err = errors.AppendField(err, "RecipientStation", m.RecipientStation.Validate())
	if len(m.FulfilledBy) != 0 {
		err = errors.AppendField(err, "FulfilledBy", m.FulfilledBy.Validate())
	}
	err = errors.AppendField(err, "Description", validText(m.Description, maxDescriptionLen, false))
	return err
}

func (m *LogFulfillmentMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *LogFulfillmentMsg) Unmarshal(raw []byte) error {
	*m = LogFulfillmentMsg{}
	return custody.UnmarshalBinary(raw, m)
}

// LogDonationMsg appends a donation made by the submitter.
type LogDonationMsg struct {
	Metadata  *custody.Metadata `json:"metadata"`
	Amount    *coin.Coin        `json:"amount"`
	ToStation custody.Address   `json:"to_station"`
	DonorType string            `json:"donor_type"`
}

var _ custody.Msg = (*LogDonationMsg)(nil)

func (LogDonationMsg) Path() string {
	return pathLogDonationMsg
}

func (m *LogDonationMsg) Validate() error {
	var err error
	err = errors.AppendField(err, "Metadata", m.Metadata.Validate())
	err = errors.AppendField(err, "Amount", validDonation(m.Amount))
	err = errors.AppendField(err, "ToStation", m.ToStation.Validate())
	err = errors.AppendField(err, "DonorType", validText(m.DonorType, maxDonorTypeLen, true))
	return err
}

func (m *LogDonationMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(m)
}

func (m *LogDonationMsg) Unmarshal(raw []byte) error {
	*m = LogDonationMsg{}
	return custody.UnmarshalBinary(raw, m)
}
