package sigs

import (
	"bytes"
	"testing"

	"github.com/covault/covault/covtest/assert"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/store"
)

func TestBuildSignBytes(t *testing.T) {
	payload := []byte("some content")

	base, err := BuildSignBytes(payload, "chain-one-1", 0)
	assert.Nil(t, err)

	// any change in the input must change the output
	otherChain, err := BuildSignBytes(payload, "chain-two-2", 0)
	assert.Nil(t, err)
	if bytes.Equal(base, otherChain) {
		t.Fatal("sign bytes must depend on the chain id")
	}

	otherSeq, err := BuildSignBytes(payload, "chain-one-1", 1)
	assert.Nil(t, err)
	if bytes.Equal(base, otherSeq) {
		t.Fatal("sign bytes must depend on the sequence")
	}

	otherPayload, err := BuildSignBytes([]byte("other content"), "chain-one-1", 0)
	assert.Nil(t, err)
	if bytes.Equal(base, otherPayload) {
		t.Fatal("sign bytes must depend on the payload")
	}

	// malformed input is refused
	if _, err := BuildSignBytes(payload, "chain-one-1", -1); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected invalid sequence, got %+v", err)
	}
	if _, err := BuildSignBytes(payload, "no", 0); !errors.ErrInput.Is(err) {
		t.Fatalf("expected input error, got %+v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	chainID := "chain-test-11"

	kp := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("hello covault"))
	bz, err := tx.GetSignBytes()
	assert.Nil(t, err)

	sig0, err := SignTx(kp, tx, chainID, 0)
	assert.Nil(t, err)

	signer, err := VerifySignature(db, sig0, bz, chainID)
	assert.Nil(t, err)
	assert.Equal(t, kp.PublicKey().Condition(), signer)

	// replaying the same nonce must fail
	if _, err := VerifySignature(db, sig0, bz, chainID); !ErrInvalidSequence.Is(err) {
		t.Fatalf("expected invalid sequence, got %+v", err)
	}

	// the next nonce works
	sig1, err := SignTx(kp, tx, chainID, 1)
	assert.Nil(t, err)
	_, err = VerifySignature(db, sig1, bz, chainID)
	assert.Nil(t, err)

	nonce, err := NextNonce(db, kp.PublicKey().Address())
	assert.Nil(t, err)
	assert.Equal(t, int64(2), nonce)

	// a signature for another chain is rejected
	sigOther, err := SignTx(kp, tx, "other-chain-9", 2)
	assert.Nil(t, err)
	if _, err := VerifySignature(db, sigOther, bz, chainID); !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("expected unauthorized, got %+v", err)
	}

	// an empty signature carries no authorization
	if _, err := VerifySignature(db, new(StdSignature), bz, chainID); err == nil {
		t.Fatal("expected an error for the empty signature")
	}
}

func TestVerifyTxSignatures(t *testing.T) {
	db := store.MemStore()
	chainID := "chain-test-11"

	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("a grand conspiracy"))

	aliceSig, err := SignTx(alice, tx, chainID, 0)
	assert.Nil(t, err)
	bobSig, err := SignTx(bob, tx, chainID, 0)
	assert.Nil(t, err)
	tx.Signatures = []*StdSignature{aliceSig, bobSig}

	signers, err := VerifyTxSignatures(db, tx, chainID)
	assert.Nil(t, err)
	assert.Equal(t, 2, len(signers))
	assert.Equal(t, alice.PublicKey().Condition(), signers[0])
	assert.Equal(t, bob.PublicKey().Condition(), signers[1])

	// one bad signature poisons the whole tx
	tx2 := NewStdTx([]byte("modified content"))
	tx2.Signatures = []*StdSignature{aliceSig}
	if _, err := VerifyTxSignatures(db, tx2, chainID); err == nil {
		t.Fatal("signature of different content must not verify")
	}
}
