package covtest

import (
	"github.com/covault/covault"
	"github.com/covault/covault/crypto"
)

// NewKey returns a newly generated ed25519 keypair
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the condition of a newly generated key
func NewCondition() covault.Condition {
	return NewKey().PublicKey().Condition()
}
