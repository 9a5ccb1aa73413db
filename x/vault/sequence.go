package vault

import (
	"fmt"

	"github.com/covault/covault"
)

// requestSeq issues 128-bit request ids. It mirrors orm.Sequence but
// keeps the full 16-byte big-endian counter in the store, so ids are
// strictly increasing and never wrap in practice.
type requestSeq struct {
	id []byte
}

func newRequestSeq(bucket, name string) requestSeq {
	id := fmt.Sprintf("_s.%s:%s", bucket, name)
	return requestSeq{id: []byte(id)}
}

// NextVal increments the counter and returns the new value as a
// 16-byte big-endian integer
func (s requestSeq) NextVal(db covault.KVStore) ([]byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return nil, err
	}
	val := make([]byte, RequestIDLength)
	copy(val[RequestIDLength-len(raw):], raw)
	for i := RequestIDLength - 1; i >= 0; i-- {
		val[i]++
		if val[i] != 0 {
			break
		}
	}
	if err := db.Set(s.id, val); err != nil {
		return nil, err
	}
	return val, nil
}

// Latest returns the last value returned by NextVal, or 16 zero bytes
// if no id was issued yet
func (s requestSeq) Latest(db covault.ReadOnlyKVStore) ([]byte, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return nil, err
	}
	val := make([]byte, RequestIDLength)
	copy(val[RequestIDLength-len(raw):], raw)
	return val, nil
}

// RequestID renders a small integer as a request id, mainly a test
// and client convenience.
func RequestID(n uint64) []byte {
	val := make([]byte, RequestIDLength)
	for i := RequestIDLength - 1; n > 0; i-- {
		val[i] = byte(n)
		n >>= 8
	}
	return val
}
