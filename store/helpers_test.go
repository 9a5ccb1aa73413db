package store

import (
	"testing"

	"github.com/covault/covault/covtest/assert"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	const size = 10

	ks := randKeys(size, 8)
	vs := randKeys(size, 40)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	// make sure proper iteration works
	for iter, i := NewSliceIterator(models), 0; iter.Valid(); iter.Next() {
		if i >= size {
			t.Fatalf("iterator step greater than the size: %d >= %d", i, size)
		}
		assert.Equal(t, ks[i], iter.Key())
		assert.Equal(t, vs[i], iter.Value())
		i++
	}

	it := NewSliceIterator(models)
	if !it.Valid() {
		t.Fatal("iterator expected to be valid")
	}
	it.Close()
	if it.Valid() {
		t.Fatal("closed iterator must be invalid")
	}
	assert.Panics(t, func() { it.Next() })
}

func TestNonAtomicBatchShowOps(t *testing.T) {
	batch := NewNonAtomicBatch(EmptyKVStore{})
	assert.Nil(t, batch.Set([]byte("a"), []byte("1")))
	assert.Nil(t, batch.Set([]byte("b"), []byte("2")))
	assert.Nil(t, batch.Delete([]byte("a")))

	ops := batch.ShowOps()
	assert.Equal(t, 3, len(ops))
	assert.Equal(t, true, ops[0].IsSetOp())
	assert.Equal(t, false, ops[2].IsSetOp())
	assert.Equal(t, []byte("a"), ops[2].Key())

	assert.Nil(t, batch.Write())
	assert.Equal(t, 0, len(batch.ShowOps()))
}
