package sigs

import (
	"context"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestBumpSequenceHandler(t *testing.T) {
	kp := crypto.GenPrivKeyEd25519()
	stranger := crypto.GenPrivKeyEd25519()

	cases := map[string]struct {
		increment    int32
		signer       covault.Condition
		initSequence int64
		wantErr      *errors.Error
		wantSequence int64
	}{
		"increment of one is a noop, the tx itself bumps": {
			increment:    1,
			signer:       kp.PublicKey().Condition(),
			initSequence: 4,
			wantSequence: 4,
		},
		"increment of many": {
			increment:    20,
			signer:       kp.PublicKey().Condition(),
			initSequence: 4,
			wantSequence: 23,
		},
		"no signer": {
			increment: 5,
			wantErr:   errors.ErrUnauthorized,
		},
		"unknown signer": {
			increment: 5,
			signer:    stranger.PublicKey().Condition(),
			wantErr:   errors.ErrNotFound,
		},
		"invalid message": {
			increment: 0,
			signer:    kp.PublicKey().Condition(),
			wantErr:   errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewBucket()

			user := NewUser(kp.PublicKey())
			AsUser(user).Sequence = tc.initSequence
			assert.Nil(t, bucket.Save(db, user))

			auth := &covtest.CtxAuth{Key: "auth"}
			ctx := context.Background()
			if tc.signer != nil {
				ctx = auth.SetConditions(ctx, tc.signer)
			}

			h := bumpSequenceHandler{b: bucket, auth: auth}
			tx := &covtest.Tx{Msg: &BumpSequenceMsg{Increment: tc.increment}}

			_, err := h.Check(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
			} else {
				assert.Nil(t, err)
			}

			_, err = h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			obj, err := bucket.Get(db, kp.PublicKey().Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSequence, AsUser(obj).Sequence)
		})
	}
}
