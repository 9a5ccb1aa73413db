package covtest

import "github.com/covault/covault"

// Decorator is a mock implementing covault.Decorator interface.
// It counts the calls and passes them through to the next handler.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned instead of calling the next handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned instead of calling the next handler.
	DeliverErr error
}

var _ covault.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
