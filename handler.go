package covault

import (
	"encoding/json"
)

// Handler processes one family of messages, for instance depositing
// into the pool or supporting a release request
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction without changing committed state.
// Split out of Handler so decorators can type the next argument
// precisely.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction against the deliver state
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps handlers with cross-cutting behavior, like
// signature verification or logging
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is the setup side of a router
type Registry interface {
	Handle(path string, h Handler)
}

// Options holds the raw genesis app state, each extension parses its
// own key
type Options map[string]json.RawMessage

// ReadOptions parses the json under key into obj. A missing key is a
// noop, not an error.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer seeds an extension's state from the genesis file
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
