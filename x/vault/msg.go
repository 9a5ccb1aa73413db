package vault

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
)

// Ensure we implement the Msg interface
var (
	_ covault.Msg = (*SubmitRequestMsg)(nil)
	_ covault.Msg = (*SupportRequestMsg)(nil)
	_ covault.Msg = (*RetractSupportMsg)(nil)
	_ covault.Msg = (*ExecuteRequestMsg)(nil)
	_ covault.Msg = (*ViewRequestMsg)(nil)
)

// Path returns the routing path for this message
func (SubmitRequestMsg) Path() string {
	return "vault/submit"
}

// Validate makes sure that this is sensible
func (m *SubmitRequestMsg) Validate() error {
	if coin.IsEmpty(m.Amount) || !m.Amount.IsPositive() {
		return errors.Wrapf(ErrParseParams, "non-positive amount: %#v", m.Amount)
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	return errors.Wrap(m.Target.Validate(), "target")
}

// Path returns the routing path for this message
func (SupportRequestMsg) Path() string {
	return "vault/support"
}

// Validate makes sure that this is sensible
func (m *SupportRequestMsg) Validate() error {
	return validateRequestID(m.RequestId)
}

// Path returns the routing path for this message
func (RetractSupportMsg) Path() string {
	return "vault/retract"
}

// Validate makes sure that this is sensible
func (m *RetractSupportMsg) Validate() error {
	return validateRequestID(m.RequestId)
}

// Path returns the routing path for this message
func (ExecuteRequestMsg) Path() string {
	return "vault/execute"
}

// Validate makes sure that this is sensible
func (m *ExecuteRequestMsg) Validate() error {
	return validateRequestID(m.RequestId)
}

// Path returns the routing path for this message
func (ViewRequestMsg) Path() string {
	return "vault/view"
}

// Validate makes sure that this is sensible
func (m *ViewRequestMsg) Validate() error {
	return validateRequestID(m.RequestId)
}

func validateRequestID(id []byte) error {
	if len(id) != RequestIDLength {
		return errors.Wrapf(ErrParseParams, "request id must be %d bytes, got %d", RequestIDLength, len(id))
	}
	return nil
}
