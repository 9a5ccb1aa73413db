package sigs

import (
	"context"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

// signersHandler records which conditions the decorator put
// into the context
type signersHandler struct {
	seen []covault.Condition
}

var _ covault.Handler = (*signersHandler)(nil)

func (h *signersHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	h.seen = Authenticate{}.GetConditions(ctx)
	return &covault.CheckResult{}, nil
}

func (h *signersHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	h.seen = Authenticate{}.GetConditions(ctx)
	return &covault.DeliverResult{}, nil
}

func TestDecoratorVerifies(t *testing.T) {
	db := store.MemStore()
	chainID := "deco-chain-1"
	ctx := covault.WithChainID(context.Background(), chainID)

	kp := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("art"))
	sig, err := SignTx(kp, tx, chainID, 0)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sig}

	next := &signersHandler{}
	d := NewDecorator()

	_, err = d.Check(ctx, db, tx, next)
	assert.Nil(t, err)
	assert.Equal(t, []covault.Condition{kp.PublicKey().Condition()}, next.seen)

	// the sequence moved, so delivery needs a fresh signature
	sig, err = SignTx(kp, tx, chainID, 1)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{sig}

	_, err = d.Deliver(ctx, db, tx, next)
	assert.Nil(t, err)
	assert.Equal(t, []covault.Condition{kp.PublicKey().Condition()}, next.seen)
}

func TestDecoratorMissingSignature(t *testing.T) {
	db := store.MemStore()
	ctx := covault.WithChainID(context.Background(), "deco-chain-1")
	tx := NewStdTx([]byte("unsigned"))

	next := &signersHandler{}

	_, err := NewDecorator().Check(ctx, db, tx, next)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// unless we explicitly allow unsigned transactions
	_, err = NewDecorator().AllowMissingSigs().Check(ctx, db, tx, next)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(next.seen))
}

func TestDecoratorBadSignature(t *testing.T) {
	db := store.MemStore()
	chainID := "deco-chain-1"
	ctx := covault.WithChainID(context.Background(), chainID)

	kp := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("original"))
	sig, err := SignTx(kp, tx, chainID, 0)
	assert.Nil(t, err)

	forged := NewStdTx([]byte("forged"))
	forged.Signatures = []*StdSignature{sig}

	_, err = NewDecorator().Deliver(ctx, db, forged, &signersHandler{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
}

func TestDecoratorPassthrough(t *testing.T) {
	// a tx without signature support skips verification entirely
	db := store.MemStore()
	ctx := covault.WithChainID(context.Background(), "deco-chain-1")
	tx := &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/any"}}

	next := &covtest.Handler{}
	_, err := NewDecorator().Check(ctx, db, tx, next)
	assert.Nil(t, err)
	assert.Equal(t, 1, next.CheckCallCount())
}
