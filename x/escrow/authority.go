package escrow

import (
	"crypto/sha256"
	"encoding/binary"

	"filippo.io/edwards25519"
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

const (
	// authorityDomain separates authority derivation from any other use
	// of the same hash inputs.
	authorityDomain = "custody/escrow"
	// authorityMarker closes every preimage.
	authorityMarker = "DerivedAuthority"

	maxBump = 255
)

// Authority is a signing identity for one custody account. It is computed
// from public data, so anyone can reproduce it, but its key is chosen off
// the ed25519 curve so no private key can ever sign for it.
type Authority struct {
	Sponsor    custody.Address
	Merchant   custody.Address
	Generation uint64
	Bump       uint8
	Key        []byte
}

// DeriveAuthority returns the canonical authority of the given pair and
// generation. The highest bump that yields an off-curve key wins.
func DeriveAuthority(sponsor, merchant custody.Address, generation uint64) (*Authority, error) {
	if err := sponsor.Validate(); err != nil {
		return nil, errors.Wrap(err, "sponsor")
	}
	if err := merchant.Validate(); err != nil {
		return nil, errors.Wrap(err, "merchant")
	}
	for bump := maxBump; bump >= 0; bump-- {
		key := authorityKey(sponsor, merchant, generation, uint8(bump))
		if onCurve(key) {
			continue
		}
		return &Authority{
			Sponsor:    sponsor,
			Merchant:   merchant,
			Generation: generation,
			Bump:       uint8(bump),
			Key:        key,
		}, nil
	}
	return nil, errors.Wrap(errors.ErrHuman, "no valid bump for the authority")
}

// AuthorityAt rebuilds an authority from stored parameters without
// searching for the bump. It fails if the resulting key lies on the curve.
func AuthorityAt(sponsor, merchant custody.Address, generation uint64, bump uint8) (*Authority, error) {
	key := authorityKey(sponsor, merchant, generation, bump)
	if onCurve(key) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "bump %d does not produce an authority", bump)
	}
	return &Authority{
		Sponsor:    sponsor,
		Merchant:   merchant,
		Generation: generation,
		Bump:       bump,
		Key:        key,
	}, nil
}

// VerifyAuthority recomputes the authority of an escrow and makes sure it
// owns the custody address stored in the record.
func VerifyAuthority(e *Escrow) (*Authority, error) {
	if e.Bump > maxBump {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "bump %d out of range", e.Bump)
	}
	a, err := AuthorityAt(e.Sponsor, e.Merchant, e.Generation, uint8(e.Bump))
	if err != nil {
		return nil, err
	}
	if !a.Address().Equals(e.Custody) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "authority %s does not own custody %s", a.Address(), e.Custody)
	}
	return a, nil
}

// Condition is what the authority grants in a context.
func (a *Authority) Condition() custody.Condition {
	return custody.NewCondition("escrow", "pda", a.Key)
}

// Address is the custody account address and the owner of that account.
func (a *Authority) Address() custody.Address {
	return a.Condition().Address()
}

func authorityKey(sponsor, merchant custody.Address, generation uint64, bump uint8) []byte {
	h := sha256.New()
	h.Write([]byte(authorityDomain))
	h.Write(sponsor)
	h.Write(merchant)
	var gen [8]byte
	binary.BigEndian.PutUint64(gen[:], generation)
	h.Write(gen[:])
	h.Write([]byte{bump})
	h.Write([]byte(authorityMarker))
	return h.Sum(nil)
}

// onCurve reports whether the bytes decode to an ed25519 point.
func onCurve(key []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(key)
	return err == nil
}
