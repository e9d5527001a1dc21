/*
Package custody defines the interfaces shared by every part of the custody
application: storage, transactions, handlers and their results. It also
holds helpers to work with conditions and addresses, the request context and
the binary codec.

Extensions (see the x/ directory) build on these interfaces. The escrow
extension is the heart of the application, the rest provide accounts,
signatures and logging.
*/
package custody
