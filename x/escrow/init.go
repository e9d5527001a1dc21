package escrow

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/gconf"
)

// Initializer fulfils the Initializer interface to load the escrow
// configuration from the genesis file
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the "conf.escrow" section of the genesis. The section
// is optional, defaults apply without it.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, confPkg, &conf)
	if errors.ErrNotFound.Is(err) {
		return nil
	}
	return err
}
