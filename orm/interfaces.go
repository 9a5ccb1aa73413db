package orm

import (
	"github.com/covault/covault"
)

// Validater is any struct that can check its own consistency. Not a
// Validator, those vote on blocks.
type Validater interface {
	Validate() error
}

// Object is the unit a bucket stores. The key is joined with the
// bucket prefix to form the full db key, the value is usually a thin
// wrapper around a protobuf type.
type Object interface {
	Keyed
	Cloneable
	// Validate blocks saving an inconsistent object, a missing field
	// or an out of range value
	Validater
	Value() covault.Persistent
}

// Reader can load objects from the db
type Reader interface {
	Get(db covault.ReadOnlyKVStore, key []byte) (Object, error)
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable produces a fresh object to unmarshal into
type Cloneable interface {
	Clone() Object
}

// CloneableData is a value smart enough to embed in a SimpleObj
type CloneableData interface {
	Validater
	covault.Persistent
	Copy() CloneableData
}
