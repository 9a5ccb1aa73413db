package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
)

// Ensure we implement the Msg interface
var _ covault.Msg = (*DepositMsg)(nil)

const depositTxCost int64 = 100

// Path returns the routing path for this message
func (DepositMsg) Path() string {
	return "cash/deposit"
}

// Validate makes sure that this is sensible
func (m *DepositMsg) Validate() error {
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive deposit: %#v", m.Amount)
	}
	return errors.Wrap(m.Amount.Validate(), "amount")
}
