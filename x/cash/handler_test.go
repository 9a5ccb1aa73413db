package cash

import (
	"context"
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestDepositHandler(t *testing.T) {
	depositor := covtest.NewCondition()
	pool := covtest.NewCondition().Address()

	cases := map[string]struct {
		signers  []covault.Condition
		funded   coin.Coins
		msg      covault.Msg
		wantErr  *errors.Error
		wantPool coin.Coins
	}{
		"happy path": {
			signers:  []covault.Condition{depositor},
			funded:   coin.Coins{coin.NewCoinp(10, 0, "CCD")},
			msg:      &DepositMsg{Amount: coin.NewCoinp(4, 0, "CCD")},
			wantPool: coin.Coins{coin.NewCoinp(4, 0, "CCD")},
		},
		"no signature": {
			funded:  coin.Coins{coin.NewCoinp(10, 0, "CCD")},
			msg:     &DepositMsg{Amount: coin.NewCoinp(4, 0, "CCD")},
			wantErr: errors.ErrUnauthorized,
		},
		"invalid message": {
			signers: []covault.Condition{depositor},
			msg:     &DepositMsg{},
			wantErr: errors.ErrAmount,
		},
		"depositor broke": {
			signers: []covault.Condition{depositor},
			funded:  coin.Coins{coin.NewCoinp(1, 0, "CCD")},
			msg:     &DepositMsg{Amount: coin.NewCoinp(4, 0, "CCD")},
			wantErr: ErrInsufficientFunds,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewBucket()
			control := NewController(bucket)
			auth := &covtest.Auth{Signers: tc.signers}
			h := NewDepositHandler(auth, control, pool)

			if tc.funded != nil {
				w, err := WalletWith(depositor.Address(), tc.funded...)
				assert.Nil(t, err)
				assert.Nil(t, bucket.Save(db, w))
			}

			ctx := context.Background()
			tx := &covtest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, db, tx)
			if tc.wantErr != nil && !tc.wantErr.Is(err) {
				// insufficient funds surfaces on deliver only
				assert.Nil(t, err)
			}

			_, err = h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			balance, err := control.Balance(db, pool)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantPool, balance)
		})
	}
}

