package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/reppay/custody"
	"github.com/reppay/custody/errors"
)

// Genesis is the part of a tendermint genesis file the application reads.
type Genesis struct {
	ChainID  string          `json:"chain_id"`
	AppState custody.Options `json:"app_state"`
}

// LoadGenesis reads a tendermint genesis file.
func LoadGenesis(filePath string) (Genesis, error) {
	var gen Genesis
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "read genesis file: %s", err)
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		return gen, errors.Wrapf(errors.ErrInvalidInput, "parse genesis file: %s", err)
	}
	return gen, nil
}

// ChainInitializers lets you initialize many extensions with one function.
// Nil entries are skipped.
func ChainInitializers(inits ...custody.Initializer) custody.Initializer {
	res := make(custody.GenesisInitializer, 0, len(inits))
	for _, i := range inits {
		if i != nil {
			res = append(res, i)
		}
	}
	return res
}
