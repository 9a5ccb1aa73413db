package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/x/sigs"
)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (covault.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// make sure tx fulfills all interfaces
var _ covault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// GetMsg switches over all types defined in the protobuf file
func (tx *Tx) GetMsg() (covault.Msg, error) {
	sum := tx.GetSum()
	if sum == nil {
		return nil, errors.Wrap(errors.ErrInput, "transaction without message")
	}

	// make sure to cover all messages defined in protobuf
	switch t := sum.(type) {
	case *Tx_DepositMsg:
		return t.DepositMsg, nil
	case *Tx_SubmitRequestMsg:
		return t.SubmitRequestMsg, nil
	case *Tx_SupportRequestMsg:
		return t.SupportRequestMsg, nil
	case *Tx_RetractSupportMsg:
		return t.RetractSupportMsg, nil
	case *Tx_ExecuteRequestMsg:
		return t.ExecuteRequestMsg, nil
	case *Tx_ViewRequestMsg:
		return t.ViewRequestMsg, nil
	case *Tx_BumpSequenceMsg:
		return t.BumpSequenceMsg, nil
	}

	return nil, errors.Wrapf(errors.ErrType, "unknown transaction type %T", sum)
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	sigs := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = sigs
	return bz, err
}
