package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x"
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r covault.Registry, auth x.Authenticator, control Controller, pool covault.Address) {
	r.Handle(DepositMsg{}.Path(), NewDepositHandler(auth, control, pool))
}

// RegisterQuery will register this bucket as "/wallets"
func RegisterQuery(qr covault.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// DepositHandler moves funds from the depositing signer
// into the shared pool account.
type DepositHandler struct {
	auth    x.Authenticator
	control Controller
	pool    covault.Address
}

var _ covault.Handler = DepositHandler{}

// NewDepositHandler creates a handler for DepositMsg
func NewDepositHandler(auth x.Authenticator, control Controller, pool covault.Address) DepositHandler {
	return DepositHandler{
		auth:    auth,
		control: control,
		pool:    pool,
	}
}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h DepositHandler) Check(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{GasAllocated: depositTxCost}, nil
}

// Deliver moves the tokens from the depositor to the pool if
// all preconditions are met
func (h DepositHandler) Deliver(ctx covault.Context, store covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	sender := x.MainSigner(ctx, h.auth).Address()
	if err := h.control.MoveCoins(store, sender, h.pool, *msg.Amount); err != nil {
		return nil, err
	}
	return &covault.DeliverResult{}, nil
}

func (h DepositHandler) validate(ctx covault.Context, tx covault.Tx) (*DepositMsg, error) {
	var msg DepositMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if x.MainSigner(ctx, h.auth) == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "depositor signature missing")
	}
	return &msg, nil
}
