package vault

import (
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
)

func TestMsgPaths(t *testing.T) {
	assert.Equal(t, "vault/submit", SubmitRequestMsg{}.Path())
	assert.Equal(t, "vault/support", SupportRequestMsg{}.Path())
	assert.Equal(t, "vault/retract", RetractSupportMsg{}.Path())
	assert.Equal(t, "vault/execute", ExecuteRequestMsg{}.Path())
	assert.Equal(t, "vault/view", ViewRequestMsg{}.Path())
}

func TestValidateSubmitRequestMsg(t *testing.T) {
	target := covtest.NewCondition().Address()

	cases := map[string]struct {
		msg     *SubmitRequestMsg
		wantErr *errors.Error
	}{
		"happy path": {
			msg: &SubmitRequestMsg{Amount: coin.NewCoinp(10, 0, "CCD"), Target: target},
		},
		"missing amount": {
			msg:     &SubmitRequestMsg{Target: target},
			wantErr: ErrParseParams,
		},
		"zero amount": {
			msg:     &SubmitRequestMsg{Amount: coin.NewCoinp(0, 0, "CCD"), Target: target},
			wantErr: ErrParseParams,
		},
		"negative amount": {
			msg:     &SubmitRequestMsg{Amount: coin.NewCoinp(-4, 0, "CCD"), Target: target},
			wantErr: ErrParseParams,
		},
		"missing target": {
			msg:     &SubmitRequestMsg{Amount: coin.NewCoinp(10, 0, "CCD")},
			wantErr: errors.ErrInput,
		},
		"short target": {
			msg:     &SubmitRequestMsg{Amount: coin.NewCoinp(10, 0, "CCD"), Target: covault.Address{1, 2}},
			wantErr: errors.ErrInput,
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

func TestValidateRequestIDMsgs(t *testing.T) {
	good := RequestID(1)
	msgs := map[string]covault.Msg{
		"support": &SupportRequestMsg{RequestId: good},
		"retract": &RetractSupportMsg{RequestId: good},
		"execute": &ExecuteRequestMsg{RequestId: good},
		"view":    &ViewRequestMsg{RequestId: good},
	}
	for testName, msg := range msgs {
		t.Run(testName, func(t *testing.T) {
			assert.Nil(t, msg.Validate())
		})
	}

	bad := map[string]covault.Msg{
		"support": &SupportRequestMsg{RequestId: []byte{1}},
		"retract": &RetractSupportMsg{},
		"execute": &ExecuteRequestMsg{RequestId: make([]byte, 17)},
		"view":    &ViewRequestMsg{RequestId: []byte("short")},
	}
	for testName, msg := range bad {
		t.Run("malformed "+testName, func(t *testing.T) {
			assert.IsErr(t, ErrParseParams, msg.Validate())
		})
	}
}
