package server

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	"github.com/tendermint/tendermint/libs/log"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"

	"github.com/covault/covault/errors"
)

const flagHeight = "height"

var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInput,
			"usage: cmd getblock <path to blockstore.db> [-height=H]")
	}
	var height int
	getBlockFlags := flag.NewFlagSet("getblock", flag.ExitOnError)
	getBlockFlags.IntVar(&height, flagHeight, 0, "height of the block to extract (default latest)")
	err := getBlockFlags.Parse(args[1:])
	return args[0], int64(height), err
}

// GetBlockCmd extracts one block from a blockstore.db and prints it
// as json to stdout. Without -height it takes the last block. The
// output feeds the retry command to replay that block against the
// application state.
func GetBlockCmd(logger log.Logger, home string, args []string) error {
	dbPath, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	store := blockchain.NewBlockStore(db)
	if height == 0 {
		height = store.Height()
	}
	return printBlock(store, height)
}

// openDb opens a goleveldb directory like ".../blockstore.db",
// splitting the path into the parent directory and the database name
// the way the db backend expects them
func openDb(dir string) (dbm.DB, error) {
	dir = filepath.Clean(dir)
	if !strings.HasSuffix(dir, ".db") {
		return nil, errors.Wrapf(errors.ErrInput, "database directory must end with .db: %s", dir)
	}
	dir = strings.TrimSuffix(dir, ".db")
	name := filepath.Base(dir)
	if name == "." || name == string(filepath.Separator) {
		return nil, errors.Wrapf(errors.ErrInput, "cannot derive database name from %s", dir)
	}
	return dbm.NewGoLevelDB(name, filepath.Dir(dir))
}

func printBlock(store *blockchain.BlockStore, height int64) error {
	block := store.LoadBlock(height)
	if block == nil {
		return errors.Wrapf(errors.ErrNotFound, "no block for height %d", height)
	}
	js, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(js))
	return nil
}
