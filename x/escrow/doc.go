/*
Package escrow lets a sponsor lock value for a merchant, who then draws it
down in partial claims until the sponsor cancels and takes back the rest.

The locked value sits in a custody account that is owned by a derived
authority. The authority is computed from the sponsor and merchant
addresses and a per-pair generation, and no private key exists for it.
Only the handlers of this package grant it, and only for the account of
the escrow they operate on.

Every successful claim produces a ClaimEvent that the application
publishes after the block is committed.
*/
package escrow
