/*
Package crypto provides the ed25519 keys that sign transactions and the
conditions those keys grant once a signature is verified.
*/
package crypto

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() custody.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// Address is a convenience method to get the address of the condition
// that a valid signature of this key grants.
func (p *PublicKey) Address() custody.Address {
	cond := p.Condition()
	if cond == nil {
		return nil
	}
	return cond.Address()
}

// Validate makes sure the key has the size of an ed25519 public key.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != PublicKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "public key length %d", len(p.Ed25519))
	}
	return nil
}

// Marshal serializes the key.
func (p *PublicKey) Marshal() ([]byte, error) {
	return custody.MarshalBinary(p)
}

// Unmarshal deserializes the key.
func (p *PublicKey) Unmarshal(raw []byte) error {
	*p = PublicKey{}
	return custody.UnmarshalBinary(raw, p)
}

// Marshal serializes the signature.
func (s *Signature) Marshal() ([]byte, error) {
	return custody.MarshalBinary(s)
}

// Unmarshal deserializes the signature.
func (s *Signature) Unmarshal(raw []byte) error {
	*s = Signature{}
	return custody.UnmarshalBinary(raw, s)
}
