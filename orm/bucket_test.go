package orm

import (
	"encoding/binary"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

// counter is a test value object, stored as 8 big-endian bytes
type counter struct {
	Count int64
}

var _ CloneableData = (*counter)(nil)

func (c *counter) Marshal() ([]byte, error) {
	return EncodeSequence(c.Count), nil
}

func (c *counter) Unmarshal(data []byte) error {
	if len(data) != 8 {
		return errors.Wrapf(errors.ErrInput, "expected 8 bytes, got %d", len(data))
	}
	c.Count = int64(binary.BigEndian.Uint64(data))
	return nil
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrState, "count must be non-negative")
	}
	return nil
}

func (c *counter) Copy() CloneableData {
	return &counter{Count: c.Count}
}

func counterBucket() Bucket {
	return NewBucket("cnts", NewSimpleObj(nil, new(counter)))
}

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() { NewBucket("l", NewSimpleObj(nil, new(counter))) })
	assert.Panics(t, func() { NewBucket("WHAT", NewSimpleObj(nil, new(counter))) })
	assert.Panics(t, func() { NewBucket("long_bucket_name", NewSimpleObj(nil, new(counter))) })
	b := NewBucket("good", NewSimpleObj(nil, new(counter)))
	assert.Equal(t, "good", b.Name())
}

func TestBucketSaveGetDelete(t *testing.T) {
	db := store.MemStore()
	b := counterBucket()

	key := []byte("accum")

	// missing entry returns nil, no error
	obj, err := b.Get(db, key)
	assert.Nil(t, err)
	assert.Nil(t, obj)

	// cannot save invalid data
	bad := NewSimpleObj(key, &counter{Count: -20})
	err = b.Save(db, bad)
	if !errors.ErrState.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}

	// save and load it back
	obj = NewSimpleObj(key, &counter{Count: 55})
	assert.Nil(t, b.Save(db, obj))

	loaded, err := b.Get(db, key)
	assert.Nil(t, err)
	assert.Equal(t, key, loaded.Key())
	assert.Equal(t, int64(55), loaded.Value().(*counter).Count)

	ok, err := b.Has(db, key)
	assert.Nil(t, err)
	assert.Equal(t, true, ok)

	// delete it and see it gone
	assert.Nil(t, b.Delete(db, key))
	obj, err = b.Get(db, key)
	assert.Nil(t, err)
	assert.Nil(t, obj)

	ok, err = b.Has(db, key)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
}

func TestBucketKeysDoNotCollide(t *testing.T) {
	db := store.MemStore()
	one := NewBucket("first", NewSimpleObj(nil, new(counter)))
	two := NewBucket("second", NewSimpleObj(nil, new(counter)))

	key := []byte("shared")
	assert.Nil(t, one.Save(db, NewSimpleObj(key, &counter{Count: 1})))
	assert.Nil(t, two.Save(db, NewSimpleObj(key, &counter{Count: 2})))

	o, err := one.Get(db, key)
	assert.Nil(t, err)
	assert.Equal(t, int64(1), o.Value().(*counter).Count)

	o, err = two.Get(db, key)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), o.Value().(*counter).Count)
}

func TestBucketQuery(t *testing.T) {
	db := store.MemStore()
	b := counterBucket()

	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("aa"), &counter{Count: 5})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("ab"), &counter{Count: 6})))
	assert.Nil(t, b.Save(db, NewSimpleObj([]byte("zz"), &counter{Count: 7})))

	qr := covault.NewQueryRouter()
	b.Register("counters", qr)
	h := qr.Handler("/counters")
	if h == nil {
		t.Fatal("no handler registered")
	}

	// exact key query
	res, err := h.Query(db, covault.KeyQueryMod, []byte("ab"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, b.DBKey([]byte("ab")), res[0].Key)

	// miss returns nothing
	res, err = h.Query(db, covault.KeyQueryMod, []byte("missing"))
	assert.Nil(t, err)
	assert.Equal(t, 0, len(res))

	// prefix query returns both a* entries
	res, err = h.Query(db, covault.PrefixQueryMod, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	// everything under the bucket
	res, err = h.Query(db, covault.PrefixQueryMod, nil)
	assert.Nil(t, err)
	assert.Equal(t, 3, len(res))

	// unknown modifier errors
	_, err = h.Query(db, "magic", nil)
	if !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}
