package store

import "fmt"

// SliceIterator walks a slice of models, used to return in-memory
// results through the Iterator interface
type SliceIterator struct {
	data []Model
	idx  int
}

var _ Iterator = (*SliceIterator)(nil)

// NewSliceIterator creates an Iterator over this slice
func NewSliceIterator(data []Model) *SliceIterator {
	return &SliceIterator{data: data}
}

// Valid returns true while there is an entry under the cursor
func (s *SliceIterator) Valid() bool {
	return s.idx < len(s.data)
}

// Next advances the cursor, panics when already past the end
func (s *SliceIterator) Next() error {
	s.assertValid()
	s.idx++
	return nil
}

func (s *SliceIterator) assertValid() {
	if s.idx >= len(s.data) {
		panic("Passed end of slice")
	}
}

// Key returns the key under the cursor
func (s *SliceIterator) Key() []byte {
	s.assertValid()
	return s.data[s.idx].Key
}

// Value returns the value under the cursor
func (s *SliceIterator) Value() []byte {
	s.assertValid()
	return s.data[s.idx].Value
}

// Close releases the iterator
func (s *SliceIterator) Close() {
	s.data = nil
}

// EmptyKVStore never holds data, used as the bottom layer when
// testing caches
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

// Get always returns nil
func (e EmptyKVStore) Get(key []byte) ([]byte, error) { return nil, nil }

// Has always returns false
func (e EmptyKVStore) Has(key []byte) (bool, error) { return false, nil }

// Set is a noop
func (e EmptyKVStore) Set(key, value []byte) error { return nil }

// Delete is a noop
func (e EmptyKVStore) Delete(key []byte) error { return nil }

// Iterator is always empty
func (e EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// ReverseIterator is always empty
func (e EmptyKVStore) ReverseIterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(nil), nil
}

// NewBatch returns a batch writing back into this store
func (e EmptyKVStore) NewBatch() Batch {
	return NewNonAtomicBatch(e)
}

type opKind int32

const (
	setKind opKind = iota + 1
	delKind
)

// Op is one recorded write, either a set or a delete
type Op struct {
	kind  opKind
	key   []byte
	value []byte // only for set
}

// SetOp records setting key to value
func SetOp(key, value []byte) Op {
	return Op{kind: setKind, key: key, value: value}
}

// DelOp records deleting key
func DelOp(key []byte) Op {
	return Op{kind: delKind, key: key}
}

// Apply performs the recorded operation on a writable store
func (o Op) Apply(out SetDeleter) error {
	switch o.kind {
	case setKind:
		return out.Set(o.key, o.value)
	case delKind:
		return out.Delete(o.key)
	default:
		return fmt.Errorf("Unknown kind: %d", o.kind)
	}
}

// IsSetOp returns true for a set, false implies delete
func (o Op) IsSetOp() bool {
	return o.kind == setKind
}

// Key returns the key the operation works on
func (o Op) Key() []byte {
	return o.key
}

// Pair builds a key/value model, shorter to write in tests
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// NonAtomicBatch records ops and plays them back one by one on
// Write. Fine for in-memory stores, never use it where a crash
// mid-write matters.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch writing into out
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

// Set records a set operation
func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

// Delete records a delete operation
func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, DelOp(key))
	return nil
}

// Write plays all recorded ops back into the underlying store and
// resets the batch
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns a copy of the pending operations, mainly to
// inspect what a handler wrote during tests
func (b *NonAtomicBatch) ShowOps() []Op {
	ops := make([]Op, len(b.ops))
	copy(ops, b.ops)
	return ops
}
