package cash

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file.
// Each coin funds the associated account of the owner for that ticker.
type GenesisAccount struct {
	Owner custody.Address `json:"owner"`
	Coins []coin.Coin     `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return err
	}
	// Issue never consults the authenticator.
	control := NewController(nil)
	for i, acct := range accts {
		if err := acct.Owner.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		for _, c := range acct.Coins {
			addr := AccountAddress(acct.Owner, c.Ticker)
			if _, err := control.Account(db, addr); errors.ErrNotFound.Is(err) {
				if _, err := control.CreateAccount(db, addr, acct.Owner, c.Ticker); err != nil {
					return errors.Wrapf(err, "account %d", i)
				}
			}
			if err := control.Issue(db, addr, c); err != nil {
				return errors.Wrapf(err, "account %d", i)
			}
		}
	}
	return nil
}
