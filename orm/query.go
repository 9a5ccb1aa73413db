package orm

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// RegisterQuery puts the raw key-value store at the root path,
// so clients can inspect any data in the database directly.
func RegisterQuery(qr covault.QueryRouter) {
	qr.Register("/", rawQueryHandler{})
}

type rawQueryHandler struct{}

var _ covault.QueryHandler = rawQueryHandler{}

func (rawQueryHandler) Query(db covault.ReadOnlyKVStore, mod string, data []byte) ([]covault.Model, error) {
	switch mod {
	case covault.KeyQueryMod:
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []covault.Model{{Key: data, Value: value}}, nil
	case covault.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown query modifier: %q", mod)
	}
}

// queryPrefix returns all models with this prefix in the key.
// The prefix is included in the returned keys, so they can be
// handed back raw to the client.
func queryPrefix(db covault.ReadOnlyKVStore, prefix []byte) ([]covault.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	defer itr.Close()

	var res []covault.Model
	for itr.Valid() {
		mod := covault.Model{
			Key:   append([]byte(nil), itr.Key()...),
			Value: append([]byte(nil), itr.Value()...),
		}
		res = append(res, mod)
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// prefixRange turns a prefix into (start, end) to create
// an iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed the last byte?
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
