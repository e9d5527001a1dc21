/*
Package cash keeps single-asset token accounts and moves value between
them.

Every account holds a balance of exactly one ticker and names an owner.
Only a context in which the owner is authenticated may debit the
account. Owners are usually signers, but any authenticator can vouch for
an address, which is how custody accounts owned by a derived authority
are debited by the escrow extension.

There is no logic in the tokens themselves, except that a balance may
never go below zero or overflow.
*/
package cash
