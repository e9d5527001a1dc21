package server

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/reppay/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

// InitCmd adds the app_state to the genesis file that `tendermint init`
// created in home. An existing app_state is only replaced with -f.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("f", false, "overwrite an existing app_state")
	if err := fs.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}

	genFile := filepath.Join(home, "config", "genesis.json")
	doc, err := readGenesis(genFile)
	if err != nil {
		return err
	}
	if state, ok := doc["app_state"]; ok && len(state) > 0 && string(state) != "null" && !*force {
		return errors.Wrapf(errors.ErrDuplicate, "app_state already set in %s, use -f to overwrite", genFile)
	}

	options, err := gen(fs.Args())
	if err != nil {
		return err
	}
	doc["app_state"] = options
	if err := writeGenesis(genFile, doc); err != nil {
		return err
	}
	logger.Info("App state written", "path", genFile)
	return nil
}

func readGenesis(filename string) (GenesisDoc, error) {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "genesis file, run tendermint init first: %s", err)
	}
	var doc GenesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "parse %s: %s", filename, err)
	}
	return doc, nil
}

func writeGenesis(filename string, doc GenesisDoc) error {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrType, err.Error())
	}
	if err := ioutil.WriteFile(filename, out, 0600); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write %s: %s", filename, err)
	}
	return nil
}
