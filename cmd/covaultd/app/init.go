package app

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/covault/covault"
	"github.com/covault/covault/app"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/vault"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// GenInitOptions will produce some basic options for a three owner
// vault with one rich depositor account, to use for dev mode.
//
// The first argument is the coin ticker, the following arguments are
// hex addresses for the vault owners. Missing owners are generated
// along with a printout of their keys.
func GenInitOptions(args []string) (json.RawMessage, error) {
	code := "VLT"
	if len(args) > 0 {
		code = args[0]
	}

	owners := make([]covault.Address, vault.AgreementThreshold)
	for i := range owners {
		if len(args) > i+1 {
			addr, err := covault.ParseAddress(args[i+1])
			if err != nil {
				return nil, err
			}
			owners[i] = addr
		} else {
			// if no address provided, auto-generate one
			// and print out a recovery phrase
			addr, phrase, err := GenerateCoinKey()
			if err != nil {
				return nil, err
			}
			owners[i] = addr
			fmt.Println(phrase)
		}
	}

	type (
		dict  map[string]interface{}
		array []interface{}
	)
	accounts := make(array, 0, len(owners))
	for _, addr := range owners {
		accounts = append(accounts, dict{
			"address": addr,
			"coins": array{
				dict{
					"whole":  123456789,
					"ticker": code,
				},
			},
		})
	}
	return json.Marshal(dict{
		"cash": accounts,
		"vault": dict{
			"owners": owners,
		},
	})
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(home string, logger log.Logger, debug bool) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if home != "" {
		dbPath = filepath.Join(home, "abci.db")
	}

	stack := Stack()
	application, err := Application("covault", stack, TxDecoder, dbPath, debug)
	if err != nil {
		return nil, err
	}

	return DecorateApp(application, logger), nil
}

// DecorateApp adds initializers and Logger to a BaseApp
func DecorateApp(application app.BaseApp, logger log.Logger) app.BaseApp {
	application.WithInit(app.ChainInitializers(
		cash.Initializer{},
		vault.Initializer{},
	))
	application.WithLogger(logger)
	return application
}

// InlineApp will take an initialized database and return a
// wired-up application for replaying blocks against it
func InlineApp(kv covault.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	stack := Stack()
	store := app.NewStoreApp("covault", kv, QueryRouter(), context.Background())
	base := app.NewBaseApp(store, TxDecoder, stack, debug)
	return DecorateApp(base, logger)
}

// GenerateCoinKey returns the address of a public key,
// along with the secret phrase to recover the private key.
// You can give coins to this address and return the recovery
// phrase to the user to access them.
func GenerateCoinKey() (covault.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	addr := privKey.PublicKey().Address()
	return addr, "TODO: add a recovery phrase", nil
}
