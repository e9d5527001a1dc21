package app

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/crypto"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x/sigs"
)

// Tx is the transaction format of the node: one message plus the
// signatures authorizing it.
type Tx struct {
	Msg        custody.Msg          `json:"msg"`
	Signatures []*sigs.StdSignature `json:"signatures"`
}

var _ custody.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// NewTx wraps a message into an unsigned transaction.
func NewTx(msg custody.Msg) *Tx {
	return &Tx{Msg: msg}
}

// GetMsg implements custody.Tx
func (tx *Tx) GetMsg() (custody.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "transaction has no message")
	}
	return tx.Msg, nil
}

// GetSignatures implements sigs.SignedTx
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes implements sigs.SignedTx. The signatures are not part of
// the signed payload.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	unsigned := Tx{Msg: tx.Msg}
	return unsigned.Marshal()
}

// Sign appends a signature of signer made for the given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Marshal implements custody.Persistent
func (tx *Tx) Marshal() ([]byte, error) {
	return custody.MarshalBinary(tx)
}

// Unmarshal implements custody.Persistent
func (tx *Tx) Unmarshal(raw []byte) error {
	*tx = Tx{}
	return custody.UnmarshalBinary(raw, tx)
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (custody.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return tx, nil
}
