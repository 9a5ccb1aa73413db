package store

import "bytes"

// cacheIter merges an overlay snapshot with an iterator over the
// backing store. Both sides yield keys in the same order. On a key
// collision the overlay wins and tombstones hide backing entries.
type cacheIter struct {
	entries []*treeEntry
	parent  Iterator
	reverse bool
}

var _ Iterator = (*cacheIter)(nil)

func mergeIters(entries []*treeEntry, parent Iterator, reverse bool) (Iterator, error) {
	it := &cacheIter{
		entries: entries,
		parent:  parent,
		reverse: reverse,
	}
	if err := it.settle(); err != nil {
		it.Close()
		return nil, err
	}
	return it, nil
}

// Valid returns true while the cursor points at an entry.
func (i *cacheIter) Valid() bool {
	return i.overlayValid() || i.parentValid()
}

// Next advances the cursor. Calling it on an exhausted iterator
// panics.
func (i *cacheIter) Next() error {
	if err := i.advance(); err != nil {
		return err
	}
	return i.settle()
}

// Key returns the key under the cursor.
func (i *cacheIter) Key() []byte {
	if i.readOverlay() {
		return i.entries[0].key
	}
	return i.parent.Key()
}

// Value returns the value under the cursor.
func (i *cacheIter) Value() []byte {
	if i.readOverlay() {
		return i.entries[0].value
	}
	return i.parent.Value()
}

// Close releases both sides.
func (i *cacheIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.entries = nil
}

// advance moves past the current key on whichever sides hold it.
func (i *cacheIter) advance() error {
	if !i.Valid() {
		panic("advancing an exhausted iterator")
	}
	side := i.side()
	if side <= 0 {
		i.entries = i.entries[1:]
	}
	if side >= 0 {
		if err := i.parent.Next(); err != nil {
			return err
		}
	}
	return nil
}

// settle forwards the cursor over tombstones so that a valid iterator
// always points at readable data.
func (i *cacheIter) settle() error {
	for i.overlayValid() && i.side() <= 0 && i.entries[0].deleted {
		if err := i.advance(); err != nil {
			return err
		}
	}
	return nil
}

// side tells which side the cursor reads from: negative for the
// overlay, positive for the parent, zero when both hold the same key.
// At least one side must be valid.
func (i *cacheIter) side() int {
	if !i.parentValid() {
		return -1
	}
	if !i.overlayValid() {
		return 1
	}
	res := bytes.Compare(i.entries[0].key, i.parent.Key())
	if i.reverse {
		return -res
	}
	return res
}

func (i *cacheIter) readOverlay() bool {
	if !i.overlayValid() {
		if !i.parentValid() {
			panic("reading an exhausted iterator")
		}
		return false
	}
	return i.side() <= 0
}

func (i *cacheIter) overlayValid() bool {
	return len(i.entries) > 0
}

func (i *cacheIter) parentValid() bool {
	return i.parent != nil && i.parent.Valid()
}
