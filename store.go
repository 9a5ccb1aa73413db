package covault

// The store interfaces every layer of the system agrees on. KVStore
// and Iterator are the working set, the cache and commit variants
// extend them for the app lifecycle.

// ReadOnlyKVStore is the query side of a store
type ReadOnlyKVStore interface {
	// Get returns nil iff key doesn't exist. Panics on nil key.
	Get(key []byte) ([]byte, error)

	// Has checks if a key exists. Panics on nil key.
	Has(key []byte) (bool, error)

	// Iterator walks keys in ascending order, end exclusive. Start
	// must be below end or the iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator walks keys in descending order, end exclusive.
	// Start must be above end or the iterator is invalid.
	// CONTRACT: No writes may happen within a domain while an iterator exists over it.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the minimal write interface
type SetDeleter interface {
	Set(key, value []byte) error // CONTRACT: key, value readonly []byte
	Delete(key []byte) error     // CONTRACT: key readonly []byte
}

// KVStore is what every backing store must implement. Backends may
// offer more, code written against this interface runs on all of
// them.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch groups multiple writes into one atomic apply
	NewBatch() Batch
}

// Batch applies a group of writes atomically on Write
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator is a cursor over a key range, preloaded or lazy.
//
//	var itr Iterator = ...
//	defer itr.Close()
//
//	for ; itr.Valid(); itr.Next() {
//	  k, v := itr.Key(), itr.Value()
//	  // ...
//	}
type Iterator interface {
	// Valid reports whether the cursor points at an entry. Once
	// invalid, always invalid.
	Valid() bool

	// Next advances the cursor in iteration order, panics when
	// already invalid
	Next() error

	// Key returns the key under the cursor, panics when invalid.
	// CONTRACT: key readonly []byte
	Key() (key []byte)

	// Value returns the value under the cursor, panics when invalid.
	// CONTRACT: value readonly []byte
	Value() (value []byte)

	// Close releases the Iterator
	Close()
}

// CacheableKVStore can spawn a scratch layer for conditional writes,
// the same idea as a sql SAVEPOINT. CacheWrap deliberately does not
// return a Committer, committing a cache layer makes no sense.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch-pad of uncommitted writes visible to all
// reads through it. Finish with Write to keep them or Discard to
// drop them.
type KVCacheWrap interface {
	// caches nest, a wrap can be wrapped again
	CacheableKVStore

	// Write syncs with the underlying store
	Write() error

	// Discard invalidates this layer and releases its data
	Discard()
}

// CommitKVStore persists state to disk, versioned
type CommitKVStore interface {
	ReadOnlyKVStore

	// CacheWrap returns a working layer over the committed state
	CacheWrap() KVCacheWrap

	// Commit writes the next version to disk and describes it
	Commit() (CommitID, error)

	// LoadLatestVersion loads the newest persisted version. After a
	// crash mid-commit this still yields a stable state, possibly an
	// older one.
	LoadLatestVersion() error

	// LatestVersion describes the newest version on disk
	LatestVersion() (CommitID, error)
}

// CommitID pairs a tree version with its merkle root
type CommitID struct {
	Version int64
	Hash    []byte
}

// Model is one key with its stored value, the unit queries return
type Model struct {
	Key   []byte
	Value []byte
}
