package utils

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Savepoint runs the rest of the stack inside a cache layer that is
// only written to the store when the call succeeds. A failing
// transaction leaves no trace.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ covault.Decorator = Savepoint{}

// NewSavepoint creates an inactive Savepoint decorator. Activate it
// with OnCheck or OnDeliver.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that triggers on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that triggers on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check isolates the check in a cache layer when active.
func (s Savepoint) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	cstore, ok := store.(covault.CacheableKVStore)
	if !s.onCheck || !ok {
		return next.Check(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Check(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}

// Deliver isolates the delivery in a cache layer when active.
func (s Savepoint) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	cstore, ok := store.(covault.CacheableKVStore)
	if !s.onDeliver || !ok {
		return next.Deliver(ctx, store, tx)
	}

	cache := cstore.CacheWrap()
	res, err := next.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
