package client

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/x/cash"
	"github.com/covault/covault/x/sigs"
	"github.com/covault/covault/x/vault"

	"github.com/covault/covault/cmd/covaultd/app"
)

// DepositTx builds an unsigned transaction paying amount into the
// shared pool
func DepositTx(amount *coin.Coin) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_DepositMsg{DepositMsg: &cash.DepositMsg{
			Amount: amount,
		}},
	}
}

// SubmitRequestTx builds an unsigned transaction proposing to release
// amount from the pool to target
func SubmitRequestTx(amount *coin.Coin, target covault.Address) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_SubmitRequestMsg{SubmitRequestMsg: &vault.SubmitRequestMsg{
			Amount: amount,
			Target: target,
		}},
	}
}

// SupportRequestTx builds an unsigned transaction backing the pending
// request with the signer's vote
func SupportRequestTx(requestID []byte) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_SupportRequestMsg{SupportRequestMsg: &vault.SupportRequestMsg{
			RequestId: requestID,
		}},
	}
}

// RetractSupportTx builds an unsigned transaction withdrawing support
// the signer gave earlier
func RetractSupportTx(requestID []byte) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_RetractSupportMsg{RetractSupportMsg: &vault.RetractSupportMsg{
			RequestId: requestID,
		}},
	}
}

// ExecuteRequestTx builds an unsigned transaction triggering the
// payout of a fully supported request
func ExecuteRequestTx(requestID []byte) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_ExecuteRequestMsg{ExecuteRequestMsg: &vault.ExecuteRequestMsg{
			RequestId: requestID,
		}},
	}
}

// ViewRequestTx builds an unsigned transaction reading the state of a
// pending request through the transaction path
func ViewRequestTx(requestID []byte) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_ViewRequestMsg{ViewRequestMsg: &vault.ViewRequestMsg{
			RequestId: requestID,
		}},
	}
}

// BumpSequenceTx builds an unsigned transaction moving the signer's
// sequence forward by increment, invalidating any transactions
// pre-signed with the skipped values
func BumpSequenceTx(increment int32) *app.Tx {
	return &app.Tx{
		Sum: &app.Tx_BumpSequenceMsg{BumpSequenceMsg: &sigs.BumpSequenceMsg{
			Increment: increment,
		}},
	}
}

// SignTx appends a signature over the transaction, bound to the chain
// id and the signer's sequence
func SignTx(tx *app.Tx, signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}
