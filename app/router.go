package app

import (
	"regexp"

	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	handlers map[string]covault.Handler
}

var _ covault.Registry = (*Router)(nil)
var _ covault.Handler = (*Router)(nil)

// isPath constrains the message paths we accept, like "vault/submit"
var isPath = regexp.MustCompile(`^[a-z0-9_/]{4,32}$`).MatchString

// NewRouter initializes a router with no routes
func NewRouter() *Router {
	return &Router{
		handlers: make(map[string]covault.Handler, 10),
	}
}

// Handle implements covault.Registry interface. Path may not be
// registered twice and a broken path declaration ends with a panic.
// This is to ensure a proper setup before the application start.
func (r *Router) Handle(path string, h covault.Handler) {
	if !isPath(path) {
		panic("invalid path: " + path)
	}
	if _, ok := r.handlers[path]; ok {
		panic("re-registering route: " + path)
	}
	r.handlers[path] = h
}

// handler returns the registered Handler for this path, or a
// notFoundHandler when no handler was registered for that path.
func (r *Router) handler(path string) covault.Handler {
	if h, ok := r.handlers[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Deliver(ctx, store, tx)
}

// notFoundHandler always returns a not found error, naming the path
// it was asked to serve.
type notFoundHandler string

func (path notFoundHandler) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
