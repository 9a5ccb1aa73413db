package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
	abci "github.com/tendermint/tendermint/abci/types"
)

// ABCIStore adapts the abci query interface to ReadOnlyKVStore, so
// bucket code can read through it unchanged.
type ABCIStore struct {
	app abci.Application
}

var _ covault.ReadOnlyKVStore = (*ABCIStore)(nil)

func NewABCIStore(app abci.Application) *ABCIStore {
	return &ABCIStore{app: app}
}

// Get queries exactly one raw key
func (a *ABCIStore) Get(key []byte) ([]byte, error) {
	query := a.app.Query(abci.RequestQuery{
		Path: "/",
		Data: key,
	})
	if query.Code != 0 {
		return nil, errors.Wrap(errors.ErrDatabase, query.Log)
	}
	var value ResultSet
	if err := value.Unmarshal(query.Value); err != nil {
		return nil, errors.Wrap(err, "unmarshal result set")
	}
	if len(value.Results) == 0 {
		return nil, nil
	}
	return value.Results[0], nil
}

// Has checks key presence through Get
func (a *ABCIStore) Has(key []byte) (bool, error) {
	got, err := a.Get(key)
	if err != nil {
		return false, err
	}
	return len(got) > 0, nil
}

// Iterator only supports the full range, the abci query layer has no
// general range semantics, just prefix matches.
func (a *ABCIStore) Iterator(start, end []byte) (covault.Iterator, error) {
	if start != nil || end != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "iterator only implemented for entire range")
	}

	query := a.app.Query(abci.RequestQuery{
		Path: "/?prefix",
		Data: nil,
	})
	if query.Code != 0 {
		return nil, errors.Wrap(errors.ErrDatabase, query.Log)
	}
	models, err := joinRawResults(query.Key, query.Value)
	if err != nil {
		return nil, errors.Wrap(err, "cannot convert to models")
	}
	return store.NewSliceIterator(models), nil
}

func (a *ABCIStore) ReverseIterator(start, end []byte) (covault.Iterator, error) {
	return nil, errors.Wrap(errors.ErrDatabase, "reverse iterator not implemented")
}

func joinRawResults(keys, values []byte) ([]covault.Model, error) {
	var k, v ResultSet
	if err := k.Unmarshal(keys); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := v.Unmarshal(values); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	return JoinResults(&k, &v)
}
