package escrow

import "github.com/reppay/custody/errors"

// ErrOverClaim is returned when a claim would take more than what is left
// of the allocation.
var ErrOverClaim = errors.Register(1001, "over claim")
