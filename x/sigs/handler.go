package sigs

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
	"github.com/covault/covault/x"
)

// RegisterRoutes attaches the extension's handlers to the router
func RegisterRoutes(r covault.Registry, auth x.Authenticator) {
	r.Handle(pathBumpSequenceMsg, &bumpSequenceHandler{
		b:    NewBucket(),
		auth: auth,
	})
}

// bumpSequenceHandler lets an account owner jump its own sequence
// forward, invalidating any signatures prepared for the skipped
// nonces.
type bumpSequenceHandler struct {
	auth x.Authenticator
	b    Bucket
}

var _ covault.Handler = (*bumpSequenceHandler)(nil)

func (h *bumpSequenceHandler) Check(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &covault.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*covault.DeliverResult, error) {
	user, msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// signature verification already advanced the sequence by one, so
	// the stored delta is one less than the requested increment
	incr := int64(msg.Increment) - 1
	if incr == 0 {
		return &covault.DeliverResult{}, nil
	}

	user.Sequence += incr
	obj := orm.NewSimpleObj(user.Pubkey.Address(), user)
	if err := h.b.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "save user")
	}
	return &covault.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) validate(ctx covault.Context, db covault.KVStore, tx covault.Tx) (*UserData, *BumpSequenceMsg, error) {
	var msg BumpSequenceMsg
	if err := covault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	obj, err := h.b.Get(db, signer.Address())
	if err != nil {
		return nil, nil, errors.Wrap(err, "bucket")
	}
	if obj == nil {
		return nil, nil, errors.Wrap(errors.ErrNotFound, "no sequence")
	}
	user := AsUser(obj)

	if user.Sequence+int64(msg.Increment) < user.Sequence {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "user sequence")
	}
	return user, &msg, nil
}
