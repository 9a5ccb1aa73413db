package orm

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

var _ Object = (*SimpleObj)(nil)

// SimpleObj pairs a key with its value, the template for type-safe
// bucket objects
type SimpleObj struct {
	key   []byte
	value CloneableData
}

// NewSimpleObj combines a key and value into an object
func NewSimpleObj(key []byte, value CloneableData) *SimpleObj {
	return &SimpleObj{
		key:   key,
		value: value,
	}
}

// Value gets the value stored in the object
func (o SimpleObj) Value() covault.Persistent {
	return o.value
}

// Key returns the key to store the object under
func (o SimpleObj) Key() []byte {
	return o.key
}

// Validate requires both fields set and a valid value
func (o SimpleObj) Validate() error {
	if len(o.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if o.value == nil {
		return errors.Wrap(errors.ErrEmpty, "missing value")
	}
	return o.value.Validate()
}

// SetKey updates the key
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Clone copies the object deeply, the key bytes included so the
// original can be mutated safely
func (o *SimpleObj) Clone() Object {
	res := &SimpleObj{value: o.value.Copy()}
	if len(o.key) > 0 {
		res.key = append([]byte(nil), o.key...)
	}
	return res
}
