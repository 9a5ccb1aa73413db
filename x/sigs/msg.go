package sigs

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

var _ covault.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}
