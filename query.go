package covault

import (
	"github.com/covault/covault/errors"
)

// Queries are mainly provided for raw state inspection by hosts and
// clients. Modifiers for the query request:
const (
	// KeyQueryMod means to query for an exact key match
	KeyQueryMod = ""
	// PrefixQueryMod means to query for anything with this prefix
	PrefixQueryMod = "prefix"
)

// QueryHandler is anything that can process ABCI queries
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter allows us to register many query handlers
// to different paths and dispatch to the proper one
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter initializes a QueryRouter with no routes
func NewQueryRouter() QueryRouter {
	return QueryRouter{
		routes: make(map[string]QueryHandler, 10),
	}
}

// RegisterAll registers a number of QueryRegister at once
func (r QueryRouter) RegisterAll(qr ...QueryRegister) {
	for _, q := range qr {
		q(r)
	}
}

// QueryRegister is a function to register many query handlers
// in one step (like weaving together various extensions)
type QueryRegister func(QueryRouter)

// Register adds a new Handler for the given path. Panics on duplicate
// registration to expose that setup error as early as possible.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r.routes[path]; ok {
		panic("Re-registering route: " + path)
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path, or nil
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Query dispatches the query to the proper handler, failing on
// unknown paths.
func (r QueryRouter) Query(db ReadOnlyKVStore, path, mod string, data []byte) ([]Model, error) {
	h := r.Handler(path)
	if h == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "query path %q", path)
	}
	return h.Query(db, mod, data)
}
