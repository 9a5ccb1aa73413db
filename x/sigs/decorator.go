/*
Package sigs verifies ed25519 transaction signatures and maintains
per-account nonces for replay protection.
*/
package sigs

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// gas charged per verified signature, validation dominates tx cost
const signatureVerifyCost = 500

// RegisterQuery will register this bucket as "/auth"
func RegisterQuery(qr covault.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator verifies the signatures on a transaction and exposes the
// verified signers to the handlers through the context.
type Decorator struct {
	allowMissingSigs bool
}

var _ covault.Decorator = Decorator{}

// NewDecorator returns the authentication decorator. By default a
// transaction without any valid signature is rejected.
func NewDecorator() Decorator {
	return Decorator{allowMissingSigs: false}
}

// AllowMissingSigs lets unsigned transactions pass down the stack.
func (d Decorator) AllowMissingSigs() Decorator {
	d.allowMissingSigs = true
	return d
}

// authenticate verifies all signatures against the current chain id
// and returns the context extended with the verified signers.
func (d Decorator) authenticate(ctx covault.Context, store covault.KVStore, stx SignedTx) (covault.Context, int, error) {
	chainID := covault.GetChainID(ctx)
	signers, err := VerifyTxSignatures(store, stx, chainID)
	if err != nil {
		return ctx, 0, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.allowMissingSigs {
		return ctx, 0, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), len(signers), nil
}

// Check verifies signatures before calling down the stack.
func (d Decorator) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Checker) (*covault.CheckResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Check(ctx, store, tx)
	}

	ctx, signers, err := d.authenticate(ctx, store, stx)
	if err != nil {
		return nil, err
	}

	res, err := next.Check(ctx, store, tx)
	if err != nil {
		return nil, err
	}
	// charge only for the signatures that verified
	res.GasPayment += int64(signers * signatureVerifyCost)
	return res, nil
}

// Deliver verifies signatures before calling down the stack.
func (d Decorator) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx, next covault.Deliverer) (*covault.DeliverResult, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return next.Deliver(ctx, store, tx)
	}

	ctx, _, err := d.authenticate(ctx, store, stx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}
