package cash

import (
	"testing"

	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
)

func TestValidateDepositMsg(t *testing.T) {
	cases := map[string]struct {
		msg     *DepositMsg
		wantErr *errors.Error
	}{
		"happy path": {
			msg: &DepositMsg{Amount: coin.NewCoinp(10, 0, "CCD")},
		},
		"missing amount": {
			msg:     &DepositMsg{},
			wantErr: errors.ErrAmount,
		},
		"zero amount": {
			msg:     &DepositMsg{Amount: coin.NewCoinp(0, 0, "CCD")},
			wantErr: errors.ErrAmount,
		},
		"negative amount": {
			msg:     &DepositMsg{Amount: coin.NewCoinp(-3, 0, "CCD")},
			wantErr: errors.ErrAmount,
		},
		"invalid ticker": {
			msg:     &DepositMsg{Amount: coin.NewCoinp(10, 0, "this-is-not-a-ticker")},
			wantErr: errors.ErrCurrency,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestDepositMsgPath(t *testing.T) {
	assert.Equal(t, "cash/deposit", DepositMsg{}.Path())
}
