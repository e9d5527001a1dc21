package custody

import "github.com/reppay/custody/errors"

// Metadata is carried by every stored model and message. The schema version
// allows the binary representation to evolve.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrEmpty, "metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrInvalidModel, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.CloneableData interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
