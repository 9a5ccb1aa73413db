package cash

import (
	"github.com/covault/covault/errors"
)

var (
	// ErrInsufficientFunds is returned when the source wallet does
	// not hold enough coins to cover a transfer
	ErrInsufficientFunds = errors.Register(1020, "insufficient funds")

	// ErrEmptyAccount is returned when the source wallet was never
	// funded or was drained to nothing
	ErrEmptyAccount = errors.Register(1021, "empty account")
)
