package utils

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Recovery catches panics raised further down the stack and converts
// them into errors, so one broken handler cannot take down the node.
type Recovery struct{}

var _ covault.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Checker) (res *covault.CheckResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Check(ctx, store, tx)
	return res, err
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Deliverer) (res *covault.DeliverResult, err error) {
	defer errors.Recover(&err)
	res, err = next.Deliver(ctx, store, tx)
	return res, err
}
