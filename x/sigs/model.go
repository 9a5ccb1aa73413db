package sigs

import (
	"github.com/covault/covault"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
)

// BucketName holds the signer accounts
const BucketName = "sigs"

var _ orm.CloneableData = (*UserData)(nil)

// Validate ensures the sequence and pubkey are consistent. A user
// with a sequence must have a key, otherwise nobody could ever have
// signed for it.
func (u *UserData) Validate() error {
	if u.Sequence < 0 {
		return errors.Wrap(ErrInvalidSequence, "negative")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Wrap(ErrInvalidSequence, "needs pubkey")
	}
	return nil
}

// Copy makes a new UserData with the same values
func (u *UserData) Copy() orm.CloneableData {
	return &UserData{
		Sequence: u.Sequence,
		Pubkey:   u.Pubkey,
	}
}

// maxSequenceValue caps the sequence at what a javascript client can
// represent exactly, Number.MAX_SAFE_INTEGER = 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

// CheckAndIncrementSequence advances the sequence by one, but only if
// the caller expected the current value. Any mismatch or overflow
// leaves the sequence untouched.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", expected, u.Sequence)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// SetPubkey binds the key to the user. A key can be set once, a reset
// would let an attacker take over the sequence, so that panics.
func (u *UserData) SetPubkey(pubkey *crypto.PublicKey) {
	if u.Pubkey != nil {
		panic("Cannot change pubkey for a user")
	}
	u.Pubkey = pubkey
}

// AsUser extracts the UserData from a bucket object, nil safe
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser wraps a fresh UserData for this pubkey, keyed by its
// address
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key covault.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket extends orm.Bucket with GetOrCreate
type Bucket struct {
	orm.Bucket
}

// NewBucket creates the account bucket
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewUser(nil)),
	}
}

// GetOrCreate loads the account for the pubkey, or returns a fresh
// one at sequence zero when the key was never seen
func (b Bucket) GetOrCreate(db covault.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, nil
}
