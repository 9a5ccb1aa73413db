package sigs

import (
	"github.com/covault/covault"
	"github.com/covault/covault/covtest"
)

//----- mock objects for testing...

// StdTx is a test transaction that carries signatures,
// so the full verification stack can be exercised.
type StdTx struct {
	covault.Tx
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ covault.Tx = (*StdTx)(nil)

// NewStdTx wraps a payload into a signable transaction
func NewStdTx(payload []byte) *StdTx {
	msg := &covtest.Msg{RoutePath: "test/std", Serialized: payload}
	return &StdTx{Tx: &covtest.Tx{Msg: msg}}
}

func (tx StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	// marshal self w/o sigs
	s := tx.Signatures
	tx.Signatures = nil
	defer func() { tx.Signatures = s }()

	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}
