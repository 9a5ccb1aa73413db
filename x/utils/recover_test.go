package utils

import (
	"context"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	db := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { h.Check(ctx, db, nil) })
	assert.Panics(t, func() { h.Deliver(ctx, db, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, db, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)

	_, err = r.Deliver(ctx, db, nil, h)
	assert.IsErr(t, errors.ErrPanic, err)
}

type panicHandler struct{}

var _ covault.Handler = panicHandler{}

func (p panicHandler) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	panic("deliver panic")
}
