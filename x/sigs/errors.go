package sigs

import "github.com/reppay/custody/errors"

// ErrInvalidSequence is returned when a signature carries a sequence that
// does not match the signer's next expected value.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
