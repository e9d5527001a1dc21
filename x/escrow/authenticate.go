package escrow

import (
	"context"

	"github.com/reppay/custody"
	"github.com/reppay/custody/x"
)

type contextKey int // local to the escrow module

const (
	contextKeyAuthority contextKey = iota
)

// withAuthority grants the authority for the rest of the call. It is
// private so that only escrow handlers can grant it.
func withAuthority(ctx custody.Context, a *Authority) custody.Context {
	return context.WithValue(ctx, contextKeyAuthority, a.Condition())
}

// Authenticate exposes the derived authority granted by this package.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the granted authority condition, if any.
func (Authenticate) GetConditions(ctx custody.Context) []custody.Condition {
	cond, ok := ctx.Value(contextKeyAuthority).(custody.Condition)
	if !ok {
		return nil
	}
	return []custody.Condition{cond}
}

// HasAddress returns true if the granted authority has the given address.
func (a Authenticate) HasAddress(ctx custody.Context, addr custody.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
