package sigs

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

func init() {
	custody.RegisterMsg(&BumpSequenceMsg{}, pathBumpSequenceMsg)
}

// BumpSequenceMsg increments the sequence of the signer by the given value.
// It allows a client to invalidate signatures it handed out but that were
// never submitted.
type BumpSequenceMsg struct {
	Metadata  *custody.Metadata `json:"metadata"`
	Increment uint32            `json:"increment"`
}

var _ custody.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if err := msg.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return custody.MarshalBinary(msg)
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	*msg = BumpSequenceMsg{}
	return custody.UnmarshalBinary(raw, msg)
}
