package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// CommitStore wraps a persistent store with the two working caches
// an abci app needs, one for deliver and one for check.
type CommitStore struct {
	committed covault.CommitKVStore
	deliver   covault.KVCacheWrap
	check     covault.KVCacheWrap
}

// NewCommitStore loads the latest committed version and prepares
// fresh deliver and check caches. Panics when the store cannot be
// loaded, without state there is nothing to run.
func NewCommitStore(store covault.CommitKVStore) *CommitStore {
	if err := store.LoadLatestVersion(); err != nil {
		panic(err)
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
		check:     store.CacheWrap(),
	}
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (covault.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit flushes the deliver cache into the persistent store, writes
// it to disk, and resets both caches on top of the new state. The
// check cache is discarded, recheck will rebuild it.
func (cs *CommitStore) Commit() (covault.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return covault.CommitID{}, err
	}
	cs.check.Discard()

	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}

	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
	return res, nil
}

// CheckStore is the state CheckTx runs against
func (cs *CommitStore) CheckStore() covault.CacheableKVStore {
	return cs.check
}

// DeliverStore is the state DeliverTx runs against
func (cs *CommitStore) DeliverStore() covault.CacheableKVStore {
	return cs.deliver
}

// CommittedStore returns a fresh read cache over the last committed
// state, untouched by any pending transaction
func (cs *CommitStore) CommittedStore() covault.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// the _cv: prefix marks framework internal keys
const chainIDKey = "_cv:chainID"

// mustLoadChainID reads the stored chain id, panicking on a db error
func mustLoadChainID(kv covault.KVStore) string {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		panic(err)
	}
	return string(v)
}

// saveChainID stores the chain id exactly once, at genesis
func saveChainID(kv covault.KVStore, chainID string) error {
	if !covault.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chainId")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chainId")
	}
	return nil
}
