package sigs

import (
	"github.com/covault/covault/errors"
)

// ErrInvalidSequence is returned when the sequence number of a
// signature does not match the state of the signer account.
var ErrInvalidSequence = errors.Register(1030, "invalid sequence")
