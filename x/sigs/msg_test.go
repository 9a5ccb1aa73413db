package sigs

import (
	"testing"

	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
)

func TestBumpSequenceMsgValidate(t *testing.T) {
	assert.Equal(t, "sigs/bump_sequence", BumpSequenceMsg{}.Path())

	cases := map[string]struct {
		msg     *BumpSequenceMsg
		wantErr *errors.Error
	}{
		"minimal increment": {
			msg: &BumpSequenceMsg{Increment: 1},
		},
		"maximal increment": {
			msg: &BumpSequenceMsg{Increment: 1000},
		},
		"zero increment": {
			msg:     &BumpSequenceMsg{Increment: 0},
			wantErr: errors.ErrMsg,
		},
		"negative increment": {
			msg:     &BumpSequenceMsg{Increment: -4},
			wantErr: errors.ErrMsg,
		},
		"too big increment": {
			msg:     &BumpSequenceMsg{Increment: 1001},
			wantErr: errors.ErrMsg,
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
