package custodytest

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() custody.Condition {
	return NewKey().PublicKey().Condition()
}
