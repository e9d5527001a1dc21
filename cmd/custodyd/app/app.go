/*
Package app links together all the various components
to construct the custodyd node.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/reppay/custody"
	"github.com/reppay/custody/app"
	"github.com/reppay/custody/errors"
	"github.com/reppay/custody/metrics"
	"github.com/reppay/custody/orm"
	"github.com/reppay/custody/store/iavl"
	"github.com/reppay/custody/x"
	"github.com/reppay/custody/x/cash"
	"github.com/reppay/custody/x/escrow"
	"github.com/reppay/custody/x/fulfillment"
	"github.com/reppay/custody/x/sigs"
	"github.com/reppay/custody/x/utils"
)

// Authenticator returns the authentication of user transactions, just
// public key signatures.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// CashController returns the transfer primitive. Custody accounts are
// owned by derived authorities, so the escrow authenticator is accepted
// next to signatures.
func CashController() cash.BaseController {
	return cash.NewController(x.ChainAuth(sigs.Authenticate{}, escrow.Authenticate{}))
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(m *metrics.Metrics) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(m),
		sigs.NewDecorator(),
		utils.NewActionTagger(),
		// message effects are all or nothing, while the signer
		// sequence stays bumped for a failed message
		utils.NewSavepoint().OnCheck().OnDeliver(),
	)
}

// Router returns a router dispatching to all extensions.
func Router(authFn x.Authenticator, ctrl cash.Controller) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, ctrl)
	escrow.RegisterRoutes(r, authFn, ctrl)
	fulfillment.RegisterRoutes(r, authFn)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a query router, allowing access to "/", "/accounts",
// "/escrows", "/fulfillments", "/donations" and "/auth" with their indexes.
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		orm.RegisterQuery,
		cash.RegisterQuery,
		escrow.RegisterQuery,
		fulfillment.RegisterQuery,
		sigs.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(m *metrics.Metrics) custody.Handler {
	return Chain(m).WithHandler(Router(Authenticator(), CashController()))
}

// Initializers loads every extension from the genesis app_state.
func Initializers() custody.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(name string, h custody.Handler, tx custody.TxDecoder,
	kv custody.CommitKVStore, debug bool) *app.BaseApp {

	store := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	store.WithInit(Initializers())
	return app.NewBaseApp(store, tx, h, debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path. An empty path keeps everything in memory.
func CommitKVStore(dbPath string) (iavl.CommitStore, error) {
	if dbPath == "" {
		return iavl.NewMemCommitStore(), nil
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return iavl.CommitStore{}, errors.Wrapf(errors.ErrInvalidInput, "database path %q", dbPath)
	}
	// some callers add a ".db" suffix, the backend adds it again
	path = strings.TrimSuffix(path, filepath.Ext(path))
	return iavl.NewCommitStore(filepath.Dir(path), filepath.Base(path))
}
