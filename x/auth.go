package x

import (
	"github.com/covault/covault"
)

// Authenticator reveals the conditions the current call fulfils. It
// is passed into handler constructors so that the host decides how
// callers prove their identity, handlers only ask who is calling.
type Authenticator interface {
	// GetConditions returns all conditions the context fulfils
	GetConditions(covault.Context) []covault.Condition
	// HasAddress checks if any fulfilled condition matches this address
	HasAddress(covault.Context, covault.Address) bool
}

// MultiAuth merges several Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups a series of Authenticators, asked in order.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls: impls}
}

// GetConditions concatenates the conditions of all chained
// Authenticators.
func (m MultiAuth) GetConditions(ctx covault.Context) []covault.Condition {
	var res []covault.Condition
	for _, impl := range m.impls {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true if any chained Authenticator matches the
// address.
func (m MultiAuth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition, or nil when the
// call carries none. By convention the first signature on a
// transaction is its main author.
func MainSigner(ctx covault.Context, auth Authenticator) covault.Condition {
	signers := auth.GetConditions(ctx)
	if len(signers) == 0 {
		return nil
	}
	return signers[0]
}
