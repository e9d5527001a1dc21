/*
Package x contains the shared pieces of the extensions: the authentication
helpers every handler is built with.

All sub-packages are extensions. Each one owns its models, messages and
handlers, and they are combined together into an application by the app
package.

Exported names are prefixed by the package, so follow standard go naming
conventions and avoid stutter. Use eg. `escrow.OpenMsg` in place of
`escrow.EscrowOpenMsg`.
*/
package x
