package app

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/reppay/custody"
	"github.com/reppay/custody/coin"
	"github.com/reppay/custody/commands/server"
	"github.com/reppay/custody/crypto"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/x/cash"
	"github.com/reppay/custody/x/escrow"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DefaultTicker is the token funded by GenInitOptions.
const DefaultTicker = "USDC"

const genesisSupply = 1000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode. The account also owns the escrow
// configuration.
//
// Arguments are an optional ticker and an optional hex address. Without
// an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	ticker := DefaultTicker
	if len(args) > 0 {
		ticker = args[0]
		if !coin.IsCC(ticker) {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "ticker %q", ticker)
		}
	}

	var addr custody.Address
	if len(args) > 1 {
		raw, err := hex.DecodeString(args[1])
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "address %q", args[1])
		}
		addr = raw
		if err := addr.Validate(); err != nil {
			return nil, err
		}
	} else {
		bz, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = bz
		fmt.Println(keys)
	}

	state := struct {
		Cash []cash.GenesisAccount `json:"cash"`
		Conf struct {
			Escrow escrow.Configuration `json:"escrow"`
		} `json:"conf"`
	}{
		Cash: []cash.GenesisAccount{{
			Owner: addr,
			Coins: []coin.Coin{coin.NewCoin(genesisSupply, ticker)},
		}},
	}
	state.Conf.Escrow = escrow.Configuration{
		Metadata:      &custody.Metadata{Schema: 1},
		Owner:         addr,
		ZeroRemainder: escrow.ZeroRemainderTransfer,
	}
	return json.MarshalIndent(state, "", "  ")
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, svc server.Services) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "custody.db")
	}
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, err
	}

	application := Application("custodyd", Stack(svc.Metrics), TxDecoder, kv, svc.Debug)
	application.WithLogger(logger)
	application.WithPublisher(svc.Publisher, svc.PublishTimeout).WithMetrics(svc.Metrics)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// import the keys in a client to use them
func GenerateCoinKey() (custody.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrType, err.Error())
	}
	return addr, string(keys), nil
}
