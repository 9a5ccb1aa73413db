package covtest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db covault.CommitKVStore, cleanup func()) {
	dbpath, err := ioutil.TempDir("", "covault-db")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}

	db = iavl.NewCommitStore(dbpath, "db")
	return db, func() { os.RemoveAll(dbpath) }
}
