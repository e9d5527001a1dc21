package custody

import (
	"github.com/reppay/custody/errors"
	amino "github.com/tendermint/go-amino"
)

// Codec is the binary codec shared by all models, messages and transactions.
// Extensions register their concrete messages in init.
var Codec = amino.NewCodec()

func init() {
	Codec.RegisterInterface((*Msg)(nil), nil)
}

// RegisterMsg declares a concrete message type under given name, so that
// it can travel inside of a transaction. The name is usually the message
// path.
func RegisterMsg(msg Msg, name string) {
	Codec.RegisterConcrete(msg, name, nil)
}

// MarshalBinary serializes given object using the shared codec.
func MarshalBinary(o interface{}) ([]byte, error) {
	bz, err := Codec.MarshalBinaryBare(o)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrType, "marshal %T: %s", o, err)
	}
	return bz, nil
}

// UnmarshalBinary deserializes given bytes into ptr using the shared codec.
func UnmarshalBinary(raw []byte, ptr interface{}) error {
	if err := Codec.UnmarshalBinaryBare(raw, ptr); err != nil {
		return errors.Wrapf(errors.ErrType, "unmarshal %T: %s", ptr, err)
	}
	return nil
}
