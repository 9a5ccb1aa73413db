package app

import (
	"reflect"

	"github.com/covault/covault"
)

// Decorators is a middleware chain waiting for its final Handler
type Decorators struct {
	chain []covault.Decorator
}

// ChainDecorators starts a decorator chain. Resolve it with
// WithHandler once the terminal handler is known:
//
//	app.ChainDecorators(
//	  utils.NewLogging(),
//	  utils.NewRecovery(),
//	  sigs.NewDecorator(),
//	  utils.NewSavepoint().OnDeliver(),
//	).WithHandler(
//	  app.NewRouter(),
//	)
func ChainDecorators(chain ...covault.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain appends more decorators, nils are dropped so callers can pass
// optional decorators unconditionally
func (d Decorators) Chain(chain ...covault.Decorator) Decorators {
	chain = withoutNil(chain)
	return Decorators{chain: append(d.chain, chain...)}
}

// withoutNil compacts the slice in place, removing nil decorators
// including typed nils hidden in the interface
func withoutNil(ds []covault.Decorator) []covault.Decorator {
	out := ds[:0]
	for _, dec := range ds {
		if dec == nil {
			continue
		}
		if v := reflect.ValueOf(dec); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		out = append(out, dec)
	}
	return out
}

// WithHandler terminates the chain. The first decorator added runs
// first, so wrapping starts from the end.
func (d Decorators) WithHandler(h covault.Handler) covault.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step binds one decorator to the rest of the resolved stack
type step struct {
	d    covault.Decorator
	next covault.Handler
}

var _ covault.Handler = step{}

func (s step) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

func (s step) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
