package covtest

import (
	"context"
	"fmt"

	"github.com/covault/covault"
)

// Auth is a stub x.Authenticator granting a fixed set of conditions.
// Fill Signer for the common single owner case, Signers when a test
// needs a quorum. Both are honored together.
type Auth struct {
	Signer  covault.Condition
	Signers []covault.Condition
}

func (a *Auth) GetConditions(covault.Context) []covault.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a stub x.Authenticator reading its conditions from the
// context, for tests that need per-call permissions rather than a
// fixed set.
type CtxAuth struct {
	// Key addresses the conditions within the context
	Key string
}

type ctxAuthKey string

func (a *CtxAuth) SetConditions(ctx covault.Context, permissions ...covault.Condition) covault.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx covault.Context) []covault.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]covault.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []covault.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx covault.Context, addr covault.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
