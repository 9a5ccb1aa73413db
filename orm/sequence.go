package orm

import (
	"encoding/binary"

	"github.com/covault/covault"
)

// Sequence is a durable 64-bit counter. Values grow both numerically
// and under bytes.Compare on the encoded form, so they can serve as
// ordered bucket keys.
type Sequence struct {
	id []byte
}

// NewSequence returns the counter stored under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{
		id: []byte("_s." + bucket + ":" + name),
	}
}

// NextVal increments the counter and returns the new value as 8
// big-endian bytes.
func (s *Sequence) NextVal(db covault.KVStore) ([]byte, error) {
	_, raw, err := s.next(db)
	return raw, err
}

// NextInt increments the counter and returns the new value as an int.
func (s *Sequence) NextInt(db covault.KVStore) (int64, error) {
	val, _, err := s.next(db)
	return val, err
}

// Latest returns the value handed out most recently without touching
// the counter. A fresh sequence reports zero.
func (s *Sequence) Latest(db covault.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	return DecodeSequence(raw), raw, nil
}

func (s *Sequence) next(db covault.KVStore) (int64, []byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, nil, err
	}
	val := DecodeSequence(raw) + 1
	raw = EncodeSequence(val)
	if err := db.Set(s.id, raw); err != nil {
		return 0, nil, err
	}
	return val, raw, nil
}

// DecodeSequence reads a counter value from its stored form. A nil
// value decodes as zero.
func DecodeSequence(bz []byte) int64 {
	if bz == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

// EncodeSequence renders a counter value as 8 big-endian bytes.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}
