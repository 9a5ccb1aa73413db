//nolint
package store

import "github.com/covault/covault"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = covault.ReadOnlyKVStore
type SetDeleter = covault.SetDeleter
type KVStore = covault.KVStore
type Batch = covault.Batch
type Iterator = covault.Iterator
type CacheableKVStore = covault.CacheableKVStore
type KVCacheWrap = covault.KVCacheWrap
type CommitKVStore = covault.CommitKVStore
type CommitID = covault.CommitID
type Model = covault.Model
