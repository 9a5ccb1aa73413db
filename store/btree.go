package store

import (
	"bytes"

	"github.com/google/btree"
)

// treeEntry is the single node type stored in the overlay btree. A
// write stores key and value, a delete stores a tombstone so that the
// backing value is hidden until the wrap is written or discarded.
//
// Entries with the before flag set are never stored. They exist only
// as range pivots and sort directly before a stored entry with the
// same key, which is how descending ranges keep the [start, end)
// bounds of the ascending ones.
type treeEntry struct {
	key     []byte
	value   []byte
	deleted bool
	before  bool
}

var _ btree.Item = (*treeEntry)(nil)

func (e *treeEntry) Less(item btree.Item) bool {
	o := item.(*treeEntry)
	if c := bytes.Compare(e.key, o.key); c != 0 {
		return c < 0
	}
	return e.before && !o.before
}

func pivotAt(key []byte) *treeEntry {
	return &treeEntry{key: key}
}

func pivotBefore(key []byte) *treeEntry {
	return &treeEntry{key: key, before: true}
}

// BTreeCacheable makes any KVStore cacheable by layering btree
// overlays on top of it.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns an overlay whose writes can later be flushed to
// this store in one batch, or rolled back.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, b.NewBatch(), nil)
}

// MemStore returns an in-memory store for tests. Nothing is ever
// persisted.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// BTreeCacheWrap buffers all writes in a btree overlay until Write
// flushes them through the batch, or Discard drops them.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap sets up an overlay in front of the given store.
// The backing store is read only here, all writes are recorded in the
// batch. A free list can be shared between wraps, pass nil to
// allocate a fresh one.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(btree.DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap stacks another overlay on top of this one, sharing the
// free list.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch that collects writes for this overlay.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes the recorded writes to the backing store and resets
// the overlay.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all overlay data, returning the nodes to the free
// list.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

// Set stores the pair in the overlay and records it in the batch.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(&treeEntry{key: key, value: value})
	return b.batch.Set(key, value)
}

// Delete stores a tombstone in the overlay and records the delete in
// the batch.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(&treeEntry{key: key, deleted: true})
	return b.batch.Delete(key)
}

// Get returns the overlay state of the key if present, the backing
// value otherwise.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	if item := b.bt.Get(pivotAt(key)); item != nil {
		e := item.(*treeEntry)
		if e.deleted {
			return nil, nil
		}
		return e.value, nil
	}
	return b.back.Get(key)
}

// Has returns the overlay state of the key if present, asking the
// backing store otherwise.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	if item := b.bt.Get(pivotAt(key)); item != nil {
		return !item.(*treeEntry).deleted, nil
	}
	return b.back.Has(key)
}

// Iterator walks keys in [start, end) in ascending order, merging the
// overlay with the backing store.
func (b BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return mergeIters(b.rangeEntries(start, end, false), parent, false)
}

// ReverseIterator walks keys in [start, end) in descending order,
// merging the overlay with the backing store.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := b.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	return mergeIters(b.rangeEntries(start, end, true), parent, true)
}

// rangeEntries snapshots the overlay entries within [start, end) in
// iteration order. Tombstones are included, the merge iterator needs
// them to mask backing keys.
func (b BTreeCacheWrap) rangeEntries(start, end []byte, reverse bool) []*treeEntry {
	var out []*treeEntry
	collect := func(item btree.Item) bool {
		out = append(out, item.(*treeEntry))
		return true
	}

	switch {
	case !reverse && start == nil && end == nil:
		b.bt.Ascend(collect)
	case !reverse && start == nil:
		b.bt.AscendLessThan(pivotAt(end), collect)
	case !reverse && end == nil:
		b.bt.AscendGreaterOrEqual(pivotAt(start), collect)
	case !reverse:
		b.bt.AscendRange(pivotAt(start), pivotAt(end), collect)
	case start == nil && end == nil:
		b.bt.Descend(collect)
	case start == nil:
		b.bt.DescendLessOrEqual(pivotBefore(end), collect)
	case end == nil:
		b.bt.DescendGreaterThan(pivotBefore(start), collect)
	default:
		b.bt.DescendRange(pivotBefore(end), pivotBefore(start), collect)
	}
	return out
}
