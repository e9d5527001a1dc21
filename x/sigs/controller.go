package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/reppay/custody"
	"github.com/reppay/custody/crypto"
	"github.com/reppay/custody/errors"
)

// signPrefix versions the layout of the signed bytes.
var signPrefix = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures verifies every signature of tx and bumps the sequence
// of each signer. It returns the conditions granted by the signatures, or
// the first verification failure.
func VerifyTxSignatures(db custody.KVStore, tx SignedTx, chainID string) ([]custody.Condition, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	sigs := tx.GetSignatures()
	conds := make([]custody.Condition, 0, len(sigs))
	for _, sig := range sigs {
		cond, err := VerifySignature(db, sig, signBytes, chainID)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// VerifySignature checks a single signature over signBytes. The sequence
// must match the one stored for the key, which is then incremented.
func VerifySignature(db custody.KVStore, sig *StdSignature, signBytes []byte, chainID string) (custody.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	user := AsUser(obj)
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the digest a key signs for a transaction. It is
// the sha512 of
//
//	prefix (4 bytes) | len(chainID) (1 byte) | chainID | seq (8 bytes, big endian) | signBytes
//
// Binding the chain id and the sequence keeps a signature from being
// replayed on another chain or twice on the same one.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !custody.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %v", chainID)
	}

	raw := make([]byte, 0, len(signPrefix)+1+len(chainID)+8+len(signBytes))
	raw = append(raw, signPrefix...)
	raw = append(raw, byte(len(chainID)))
	raw = append(raw, chainID...)
	raw = binary.BigEndian.AppendUint64(raw, uint64(seq))
	raw = append(raw, signBytes...)

	digest := sha512.Sum512(raw)
	return digest[:], nil
}

// BuildSignBytesTx is BuildSignBytes over the sign bytes of tx.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx signs tx for the given chain and sequence.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
