package app

import (
	"context"
	"errors"
	"testing"

	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	covaulterr "github.com/covault/covault/errors"
)

func TestRouterSuccess(t *testing.T) {
	r := NewRouter()
	h := &covtest.Handler{}
	r.Handle("test/good", h)

	tx := &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/good"}}

	if _, err := r.Check(context.TODO(), nil, tx); err != nil {
		t.Fatalf("check failed: %+v", err)
	}
	if _, err := r.Deliver(context.TODO(), nil, tx); err != nil {
		t.Fatalf("deliver failed: %+v", err)
	}
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	tx := &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/secret"}}

	if _, err := r.Check(context.TODO(), nil, tx); !covaulterr.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
	if _, err := r.Deliver(context.TODO(), nil, tx); !covaulterr.ErrNotFound.Is(err) {
		t.Fatalf("expected not found, got %+v", err)
	}
}

func TestRouterHandlerError(t *testing.T) {
	r := NewRouter()
	broken := errors.New("do not want")
	r.Handle("test/bad", &covtest.Handler{CheckErr: broken, DeliverErr: broken})

	tx := &covtest.Tx{Msg: &covtest.Msg{RoutePath: "test/bad"}}

	if _, err := r.Check(context.TODO(), nil, tx); err != broken {
		t.Fatalf("want the handler error back, got %+v", err)
	}
	if _, err := r.Deliver(context.TODO(), nil, tx); err != broken {
		t.Fatalf("want the handler error back, got %+v", err)
	}
}

func TestRouterRegistration(t *testing.T) {
	r := NewRouter()
	r.Handle("test/good", &covtest.Handler{})

	// re-registering the same path must fail
	assert.Panics(t, func() { r.Handle("test/good", &covtest.Handler{}) })
	// as must a path with forbidden characters
	assert.Panics(t, func() { r.Handle("l:7", &covtest.Handler{}) })
	assert.Panics(t, func() { r.Handle("UpperCase", &covtest.Handler{}) })
}
