/*
Package errors implements the error model shared by every custody extension.

Root errors are declared once with Register(code, description) and carry an
ABCI code, so clients can tell an over-claim from a missing account without
parsing messages. Reuse the root errors declared here whenever possible and
register a package specific one only when no existing kind fits (see
x/escrow for ErrOverClaim).

Create errors at the point of failure with ErrXyz.New("...") or
errors.Wrap(err, "..."). The first wrap attaches a stack trace, later wraps
only add context.

	%s   is just the error message
	%+v  is the full stack trace
	%v   appends a compressed [filename:line] where the error was created

Test for a kind with ErrXyz.Is(err), which unwraps all layers.
*/
package errors
