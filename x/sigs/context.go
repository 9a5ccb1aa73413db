package sigs

import (
	"context"

	"github.com/covault/covault"
	"github.com/covault/covault/x"
)

//------------------- Context --------
// Add context information specific to this package

type contextKey int // local to the sigs module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx covault.Context, signers []covault.Condition) covault.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator and provides
// authentication based on signatures that were verified
// by the decorator in this package
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (a Authenticate) GetConditions(ctx covault.Context) []covault.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]covault.Condition)
	return val
}

// HasAddress returns true if the given address
// had signed in the current Context.
func (a Authenticate) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
