package vault

import (
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/errors"
)

func TestOwnerRegistryValidate(t *testing.T) {
	a := covtest.NewCondition().Address()
	b := covtest.NewCondition().Address()
	c := covtest.NewCondition().Address()
	d := covtest.NewCondition().Address()

	cases := map[string]struct {
		owners  []covault.Address
		wantErr *errors.Error
	}{
		"exactly three owners": {
			owners: []covault.Address{a, b, c},
		},
		"no owners": {
			owners:  nil,
			wantErr: ErrInsufficientOwners,
		},
		"two owners": {
			owners:  []covault.Address{a, b},
			wantErr: ErrInsufficientOwners,
		},
		"four owners": {
			owners:  []covault.Address{a, b, c, d},
			wantErr: ErrInsufficientOwners,
		},
		"duplicate owner": {
			owners:  []covault.Address{a, b, a},
			wantErr: ErrInsufficientOwners,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := (&OwnerRegistry{Owners: tc.owners}).Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestOwnerRegistryContains(t *testing.T) {
	a := covtest.NewCondition().Address()
	b := covtest.NewCondition().Address()
	registry := &OwnerRegistry{Owners: []covault.Address{a}}

	if !registry.Contains(a) {
		t.Fatal("registered owner not found")
	}
	if registry.Contains(b) {
		t.Fatal("stranger reported as owner")
	}
}

func TestTransferRequestValidate(t *testing.T) {
	target := covtest.NewCondition().Address()
	a := covtest.NewCondition().Address()
	b := covtest.NewCondition().Address()

	cases := map[string]struct {
		request *TransferRequest
		wantErr *errors.Error
	}{
		"valid request": {
			request: &TransferRequest{
				Amount:     coin.NewCoinp(10, 0, "CCD"),
				Target:     target,
				Supporters: []covault.Address{a, b},
			},
		},
		"missing amount": {
			request: &TransferRequest{
				Target:     target,
				Supporters: []covault.Address{a},
			},
			wantErr: ErrMismatchingRequestInformation,
		},
		"negative amount": {
			request: &TransferRequest{
				Amount:     coin.NewCoinp(-1, 0, "CCD"),
				Target:     target,
				Supporters: []covault.Address{a},
			},
			wantErr: ErrMismatchingRequestInformation,
		},
		"bad target": {
			request: &TransferRequest{
				Amount:     coin.NewCoinp(10, 0, "CCD"),
				Target:     covault.Address{1, 2, 3},
				Supporters: []covault.Address{a},
			},
			wantErr: errors.ErrInput,
		},
		"no supporters is allowed": {
			request: &TransferRequest{
				Amount: coin.NewCoinp(10, 0, "CCD"),
				Target: target,
			},
		},
		"duplicate supporter": {
			request: &TransferRequest{
				Amount:     coin.NewCoinp(10, 0, "CCD"),
				Target:     target,
				Supporters: []covault.Address{a, a},
			},
			wantErr: ErrMismatchingRequestInformation,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.request.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestTransferRequestSupporters(t *testing.T) {
	a := covtest.NewCondition().Address()
	b := covtest.NewCondition().Address()

	request := &TransferRequest{Supporters: []covault.Address{a}}
	if !request.SupportedBy(a) {
		t.Fatal("submitter must support the request")
	}
	if request.SupportedBy(b) {
		t.Fatal("unexpected supporter")
	}

	request.AddSupporter(b)
	if !request.SupportedBy(b) {
		t.Fatal("support not recorded")
	}

	request.RemoveSupporter(a)
	if request.SupportedBy(a) {
		t.Fatal("support not removed")
	}
	assert.Equal(t, []covault.Address{b}, request.Supporters)
}

func TestTransferRequestCopyIsDeep(t *testing.T) {
	a := covtest.NewCondition().Address()
	request := &TransferRequest{
		Amount:     coin.NewCoinp(10, 0, "CCD"),
		Target:     covtest.NewCondition().Address(),
		Supporters: []covault.Address{a},
	}

	clone := request.Copy().(*TransferRequest)
	clone.AddSupporter(covtest.NewCondition().Address())
	clone.Amount.Whole = 99

	assert.Equal(t, 1, len(request.Supporters))
	assert.Equal(t, int64(10), request.Amount.Whole)
}
