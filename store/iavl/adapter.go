package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

// DefaultCacheSize is the size of node cache we keep in the tree
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
	// numHistory is how many old versions we hold on to.
	// A zero value means everything is kept.
	numHistory int64
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing.
// The data is placed in a leveldb named <name>.db under the
// given directory.
func NewCommitStore(dir, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	return CommitStore{tree: tree}
}

// NewCommitStoreFromTree wraps an already loaded tree.
// Used by debug tooling that rolls back and replays blocks.
func NewCommitStoreFromTree(tree *iavl.MutableTree) CommitStore {
	return CommitStore{tree: tree}
}

// MockCommitStore returns a db-backed store that will not
// persist, for testing
func MockCommitStore() CommitStore {
	db := dbm.NewMemDB()
	tree := iavl.NewMutableTree(db, DefaultCacheSize)
	return CommitStore{tree: tree}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist.
func (s CommitStore) Get(key []byte) ([]byte, error) {
	_, value := s.tree.Get(key)
	return value, nil
}

// Has checks if a key exists at last committed state.
func (s CommitStore) Has(key []byte) (bool, error) {
	return s.tree.Has(key), nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (s CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	iter := newLazyIterator()
	go func() {
		s.tree.IterateRange(start, end, true, iter.add)
		iter.finish()
	}()
	if err := iter.Next(); err != nil {
		return nil, err
	}
	return iter, nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (s CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	iter := newLazyIterator()
	go func() {
		s.tree.IterateRange(start, end, false, iter.add)
		iter.finish()
	}()
	if err := iter.Next(); err != nil {
		return nil, err
	}
	return iter, nil
}

// CacheWrap returns a cache that writes into the working tree
// when flushed. Nothing hits disk until Commit is called.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	batch := store.NewNonAtomicBatch(treeWriter{s.tree})
	return store.NewBTreeCacheWrap(s, batch, nil)
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(err, "cannot save version")
	}

	// release an old version we no longer need
	if s.numHistory > 0 && s.numHistory < version {
		expired := version - s.numHistory
		if s.tree.VersionExists(expired) {
			if err := s.tree.DeleteVersion(expired); err != nil {
				return store.CommitID{}, errors.Wrapf(err, "cannot delete version %d", expired)
			}
		}
	}

	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	if err != nil {
		return errors.Wrap(err, "cannot load latest version")
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() (store.CommitID, error) {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Adapter returns a CacheableKVStore around the working tree,
// so callers can write it directly without going through Commit.
func (s CommitStore) Adapter() store.CacheableKVStore {
	return adapter{s}
}

type adapter struct {
	CommitStore
}

var _ store.CacheableKVStore = adapter{}

// Set updates the key in the working tree
func (a adapter) Set(key, value []byte) error {
	return treeWriter{a.tree}.Set(key, value)
}

// Delete removes the key from the working tree
func (a adapter) Delete(key []byte) error {
	return treeWriter{a.tree}.Delete(key)
}

// NewBatch collects writes to be applied to the tree in one pass
func (a adapter) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(treeWriter{a.tree})
}

// CacheWrap layers a scratch btree over the working tree
func (a adapter) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(a, a.NewBatch(), nil)
}

// treeWriter applies writes directly to the working tree.
// It is given to the cache wrap batch, so all checked-in
// changes land in the tree in one pass.
type treeWriter struct {
	tree *iavl.MutableTree
}

var _ store.SetDeleter = treeWriter{}

// Set updates the key in the working tree
func (t treeWriter) Set(key, value []byte) error {
	t.tree.Set(key, value)
	return nil
}

// Delete removes the key from the working tree
func (t treeWriter) Delete(key []byte) error {
	t.tree.Remove(key)
	return nil
}
