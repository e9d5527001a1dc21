package orm

import (
	"encoding/binary"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// Keyed returns a sequence derived from this one that counts independently
// for each given key, ie. one counter per (sponsor, merchant) pair.
func (s Sequence) Keyed(key []byte) Sequence {
	id := make([]byte, 0, len(s.id)+1+len(key))
	id = append(id, s.id...)
	id = append(id, '/')
	id = append(id, key...)
	return Sequence{id: id}
}

// NextVal increments the sequence and returns its state as 8 bytes.
func (s Sequence) NextVal(db custody.KVStore) []byte {
	_, bz := s.increment(db, 1)
	return bz
}

// NextInt increments the sequence and returns its state as uint64.
func (s Sequence) NextInt(db custody.KVStore) uint64 {
	val, _ := s.increment(db, 1)
	return val
}

// Latest returns the recently returned value of the sequence. This method does
// not modify the sequence state. Use NextVal or NextInt to acquire a sequence
// value that was not given to anyone else.
func (s Sequence) Latest(db custody.ReadOnlyKVStore) uint64 {
	return DecodeSequence(db.Get(s.id))
}

func (s Sequence) increment(db custody.KVStore, inc uint64) (uint64, []byte) {
	val := DecodeSequence(db.Get(s.id)) + inc
	raw := EncodeSequence(val)
	db.Set(s.id, raw)
	return val, raw
}

// DecodeSequence reads the value of a sequence. Missing value is zero.
func DecodeSequence(bz []byte) uint64 {
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

// EncodeSequence returns the 8 byte big endian representation of val.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// ValidateSequence returns an error if this is not an 8-byte
// value as produced by a Sequence
func ValidateSequence(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	}
	if len(id) != 8 {
		return errors.Wrap(errors.ErrInvalidInput, "sequence is invalid length (expect 8 bytes)")
	}
	return nil
}
