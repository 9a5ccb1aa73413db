package vault

import (
	"bytes"
	"testing"

	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/store"
)

func TestRequestSeqMonotonic(t *testing.T) {
	db := store.MemStore()
	seq := newRequestSeq("requests", "id")

	latest, err := seq.Latest(db)
	assert.Nil(t, err)
	assert.Equal(t, make([]byte, RequestIDLength), latest)

	var prev []byte
	for n := uint64(1); n <= 10; n++ {
		val, err := seq.NextVal(db)
		assert.Nil(t, err)
		assert.Equal(t, RequestIDLength, len(val))
		assert.Equal(t, RequestID(n), val)
		if prev != nil && bytes.Compare(val, prev) <= 0 {
			t.Fatalf("id %X not after %X", val, prev)
		}
		prev = val

		latest, err := seq.Latest(db)
		assert.Nil(t, err)
		assert.Equal(t, val, latest)
	}
}

func TestRequestSeqCarry(t *testing.T) {
	db := store.MemStore()
	seq := newRequestSeq("requests", "id")

	// force the low 8 bytes to all ones
	start := make([]byte, RequestIDLength)
	for i := 8; i < RequestIDLength; i++ {
		start[i] = 0xff
	}
	assert.Nil(t, db.Set(seq.id, start))

	val, err := seq.NextVal(db)
	assert.Nil(t, err)

	want := make([]byte, RequestIDLength)
	want[7] = 1
	assert.Equal(t, want, val)
}

func TestRequestIDRendering(t *testing.T) {
	id := RequestID(0x0102)
	want := make([]byte, RequestIDLength)
	want[14] = 1
	want[15] = 2
	assert.Equal(t, want, id)
}
