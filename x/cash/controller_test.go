package cash

import (
	"testing"

	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestControllerMoveCoins(t *testing.T) {
	addr1 := covtest.NewCondition().Address()
	addr2 := covtest.NewCondition().Address()

	ccd := func(whole int64) coin.Coin { return coin.NewCoin(whole, 0, "CCD") }

	cases := map[string]struct {
		funded   coin.Coins
		amount   coin.Coin
		wantErr  *errors.Error
		wantSrc  coin.Coins
		wantDest coin.Coins
	}{
		"happy path": {
			funded:   coin.Coins{coin.NewCoinp(10, 0, "CCD")},
			amount:   ccd(3),
			wantSrc:  coin.Coins{coin.NewCoinp(7, 0, "CCD")},
			wantDest: coin.Coins{coin.NewCoinp(3, 0, "CCD")},
		},
		"insufficient funds": {
			funded:  coin.Coins{coin.NewCoinp(2, 0, "CCD")},
			amount:  ccd(3),
			wantErr: ErrInsufficientFunds,
		},
		"wrong currency": {
			funded:  coin.Coins{coin.NewCoinp(10, 0, "FOO")},
			amount:  ccd(3),
			wantErr: ErrInsufficientFunds,
		},
		"empty account": {
			amount:  ccd(3),
			wantErr: ErrEmptyAccount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			bucket := NewBucket()
			control := NewController(bucket)

			if tc.funded != nil {
				w, err := WalletWith(addr1, tc.funded...)
				assert.Nil(t, err)
				assert.Nil(t, bucket.Save(db, w))
			}

			err := control.MoveCoins(db, addr1, addr2, tc.amount)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			src, err := control.Balance(db, addr1)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSrc, src)

			dest, err := control.Balance(db, addr2)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, dest)
		})
	}
}

func TestControllerMoveRejectsNonPositive(t *testing.T) {
	addr1 := covtest.NewCondition().Address()
	addr2 := covtest.NewCondition().Address()

	db := store.MemStore()
	bucket := NewBucket()
	control := NewController(bucket)

	w, err := WalletWith(addr1, coin.NewCoinp(10, 0, "CCD"))
	assert.Nil(t, err)
	assert.Nil(t, bucket.Save(db, w))

	if err := control.MoveCoins(db, addr1, addr2, coin.NewCoin(0, 0, "CCD")); err == nil {
		t.Fatal("zero amount must be rejected")
	}
	if err := control.MoveCoins(db, addr1, addr2, coin.NewCoin(-1, 0, "CCD")); err == nil {
		t.Fatal("negative amount must be rejected")
	}
}

func TestControllerIssueCoins(t *testing.T) {
	addr := covtest.NewCondition().Address()

	db := store.MemStore()
	bucket := NewBucket()
	control := NewController(bucket)

	// issuing into a fresh account creates it
	assert.Nil(t, control.IssueCoins(db, addr, coin.NewCoin(5, 0, "CCD")))
	balance, err := control.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(5, 0, "CCD")}, balance)

	// the lord taketh away
	assert.Nil(t, control.IssueCoins(db, addr, coin.NewCoin(-2, 0, "CCD")))
	balance, err = control.Balance(db, addr)
	assert.Nil(t, err)
	assert.Equal(t, coin.Coins{coin.NewCoinp(3, 0, "CCD")}, balance)

	// but never below zero
	if err := control.IssueCoins(db, addr, coin.NewCoin(-10, 0, "CCD")); err == nil {
		t.Fatal("negative balance must be rejected")
	}
}
