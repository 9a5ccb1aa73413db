/*
Package app wires together all the components of the covault
application: the authentication middleware stack, the message
router, the query router, and the backing store.
*/
package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/covault/covault"
	"github.com/covault/covault/app"
	"github.com/covault/covault/orm"
	"github.com/covault/covault/store/iavl"
	"github.com/covault/covault/x"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/sigs"
	"github.com/covault/covault/x/utils"
	"github.com/covault/covault/x/vault"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// CashControl returns a controller for wallet functions
func CashControl() cash.Controller {
	return cash.NewController(cash.NewBucket())
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain(authFn x.Authenticator) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the deposit,
// fund release and sequence handlers
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	cash.RegisterRoutes(r, authFn, CashControl(), vault.PoolAddress)
	vault.RegisterRoutes(r, authFn, CashControl())
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router, allowing access
// to "/wallets", "/owners", "/requests", "/auth", and "/"
func QueryRouter() covault.QueryRouter {
	r := covault.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		vault.RegisterQuery,
		sigs.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() covault.Handler {
	authFn := Authenticator()
	return Chain(authFn).
		WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h covault.Handler,
	tx covault.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (covault.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("invalid database name: %s", path)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
