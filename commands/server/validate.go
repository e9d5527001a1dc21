package server

import (
	"github.com/reppay/custody"
	"github.com/reppay/custody/app"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/store"
)

// ValidateGenesis loads the app_state of every given genesis file into a
// throw-away store and reports the first file the initializer rejects.
func ValidateGenesis(ini custody.Initializer, genesisPaths []string) error {
	if len(genesisPaths) == 0 {
		return errors.Wrap(errors.ErrEmpty, "usage: validate <genesis.json>...")
	}
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini custody.Initializer, genesisPath string) error {
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if len(gen.AppState) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app_state")
	}
	// Use in memory store because we want to discard the result.
	db := store.MemStore()
	if err := ini.FromGenesis(gen.AppState, db); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
