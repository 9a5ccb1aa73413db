package iavl

import (
	"sync"

	"github.com/covault/covault/store"
)

// lazyIterator pulls items out of a tree range scan running in
// its own goroutine. Close aborts the scan early.
type lazyIterator struct {
	data    store.Model
	hasMore bool
	read    chan store.Model
	stop    chan struct{}
	once    sync.Once
}

var _ store.Iterator = (*lazyIterator)(nil)

func newLazyIterator() *lazyIterator {
	return &lazyIterator{
		read: make(chan store.Model),
		stop: make(chan struct{}),
	}
}

// add is the IterateRange callback. Returns true to abort the scan.
func (i *lazyIterator) add(key []byte, value []byte) bool {
	m := store.Model{Key: key, Value: value}
	select {
	case i.read <- m:
		return false
	case <-i.stop:
		return true
	}
}

// finish must be called once the range scan returns, so readers
// see the end of data
func (i *lazyIterator) finish() {
	close(i.read)
}

func (i *lazyIterator) Next() error {
	i.data, i.hasMore = <-i.read
	return nil
}

func (i *lazyIterator) Close() {
	i.once.Do(func() {
		close(i.stop)
	})
}

func (i *lazyIterator) Valid() bool {
	return i.hasMore
}

func (i *lazyIterator) Key() []byte {
	if !i.hasMore {
		panic("read after end of iterator")
	}
	return i.data.Key
}

func (i *lazyIterator) Value() []byte {
	if !i.hasMore {
		panic("read after end of iterator")
	}
	return i.data.Value
}
