package client

import (
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/x/sigs"

	"github.com/covault/covault/cmd/covaultd/app"
)

func TestRequestLifecycleTxs(t *testing.T) {
	target := crypto.GenPrivKeyEd25519().PublicKey().Address()
	id := []byte("0000000000000007")

	cases := map[string]struct {
		tx   *app.Tx
		path string
	}{
		"deposit": {
			tx:   DepositTx(coin.NewCoinp(50000, 0, "VLT")),
			path: "cash/deposit",
		},
		"submit": {
			tx:   SubmitRequestTx(coin.NewCoinp(9000, 0, "VLT"), target),
			path: "vault/submit",
		},
		"support": {
			tx:   SupportRequestTx(id),
			path: "vault/support",
		},
		"retract": {
			tx:   RetractSupportTx(id),
			path: "vault/retract",
		},
		"execute": {
			tx:   ExecuteRequestTx(id),
			path: "vault/execute",
		},
		"view": {
			tx:   ViewRequestTx(id),
			path: "vault/view",
		},
		"bump sequence": {
			tx:   BumpSequenceTx(20),
			path: "sigs/bump_sequence",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			msg, err := tc.tx.GetMsg()
			assert.Nil(t, err)
			assert.Equal(t, tc.path, msg.Path())
		})
	}
}

func TestSubmitRequestTxContent(t *testing.T) {
	target := crypto.GenPrivKeyEd25519().PublicKey().Address()
	amount := coin.NewCoinp(1234, 500000, "VLT")

	tx := SubmitRequestTx(amount, target)
	msg, err := tx.GetMsg()
	assert.Nil(t, err)

	submit := tx.GetSubmitRequestMsg()
	assert.Equal(t, covault.Msg(submit), msg)
	assert.Equal(t, true, amount.Equals(*submit.Amount))
	assert.Equal(t, true, target.Equals(submit.Target))
}

func TestSignTxBindsChainAndSequence(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519()
	tx := SupportRequestTx([]byte("0000000000000001"))

	assert.Nil(t, SignTx(tx, owner, "covault-test", 3))
	if len(tx.Signatures) != 1 {
		t.Fatalf("want 1 signature, got %d", len(tx.Signatures))
	}
	sig := tx.Signatures[0]
	assert.Equal(t, int64(3), sig.Sequence)
	assert.Equal(t, owner.PublicKey(), sig.Pubkey)

	// the signature covers the chain-bound sign bytes
	bz, err := sigs.BuildSignBytesTx(tx, "covault-test", 3)
	assert.Nil(t, err)
	assert.Equal(t, true, owner.PublicKey().Verify(bz, sig.Signature))

	// the same transaction signed for another chain differs
	bzOther, err := sigs.BuildSignBytesTx(tx, "covault-other", 3)
	assert.Nil(t, err)
	assert.Equal(t, false, owner.PublicKey().Verify(bzOther, sig.Signature))
}

func TestSignTxCollectsQuorum(t *testing.T) {
	tx := ExecuteRequestTx([]byte("0000000000000002"))

	for seq, owner := range []crypto.Signer{
		crypto.GenPrivKeyEd25519(),
		crypto.GenPrivKeyEd25519(),
		crypto.GenPrivKeyEd25519(),
	} {
		assert.Nil(t, SignTx(tx, owner, "covault-test", int64(seq)))
	}
	if len(tx.Signatures) != 3 {
		t.Fatalf("want 3 signatures, got %d", len(tx.Signatures))
	}
}
