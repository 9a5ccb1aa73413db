/*
Package orm breaks the key/value state space into prefixed sections
called buckets. A bucket holds exactly one type of object under a
primary key, supports one-shot and prefix queries, and hands out
named sequences for id allocation.

Type safety comes from embedding Bucket in a small wrapper per stored
type, keeping everything compile-time static instead of reflective.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// SeqID is the conventional name of the default id sequence
const SeqID = "id"

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a prefixed subspace of the db. The proto object defines
// the stored type, every value read is parsed into a clone of it.
//
// Embed it in a type-safe wrapper so one bucket only ever sees one
// type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

var _ covault.QueryHandler = Bucket{}

// NewBucket creates a bucket with the given name prefix. The name is
// part of every stored key, short lowercase names only.
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey prepends the bucket prefix to the key. It always copies into
// a fresh slice, appending onto the prefix would let consecutive
// calls overwrite each other's bytes.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	n := copy(out, b.prefix)
	copy(out[n:], key)
	return out
}

// Get loads one object, or nil if the key holds nothing
func (b Bucket) Get(db covault.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse reconstructs an object from its key and stored bytes. Get
// uses it internally, tests use it to inspect raw writes.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "parsing %s bucket value: %v", b.name, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save validates and writes a model of the bucket's type
func (b Bucket) Save(db covault.KVStore, model Object) error {
	if err := model.Validate(); err != nil {
		return errors.Wrapf(err, "invalid %s bucket model", b.name)
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}
	return db.Set(b.DBKey(model.Key()), bz)
}

// Delete removes the value under the key
func (b Bucket) Delete(db covault.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}

// Has checks whether the key holds an object
func (b Bucket) Has(db covault.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Sequence returns a named sequence scoped to this bucket
func (b Bucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Register exposes this bucket to the query router, under the bucket
// name or an explicit alias
func (b Bucket) Register(name string, r covault.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query serves both lookup modes of the router: an exact key get and
// a prefix scan
func (b Bucket) Query(db covault.ReadOnlyKVStore, mod string, data []byte) ([]covault.Model, error) {
	switch mod {
	case covault.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			// a miss returns no models, not an error
			return nil, nil
		}
		return []covault.Model{{Key: key, Value: value}}, nil
	case covault.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier %q", mod)
	}
}
