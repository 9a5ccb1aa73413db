package crypto

import (
	"bytes"
	"testing"

	"github.com/covault/covault/covtest/assert"
)

func TestEd25519SignAndVerify(t *testing.T) {
	owner := GenPrivKeyEd25519()
	pub := owner.PublicKey()

	submit := []byte("submit-transfer-request:9000 CCD")
	support := []byte("support-transfer-request:1")

	sigSubmit, err := owner.Sign(submit)
	assert.Nil(t, err)
	sigSupport, err := owner.Sign(support)
	assert.Nil(t, err)

	cases := map[string]struct {
		msg   []byte
		sig   *Signature
		valid bool
	}{
		"own signature over the signed bytes": {
			msg: submit, sig: sigSubmit, valid: true,
		},
		"second message, second signature": {
			msg: support, sig: sigSupport, valid: true,
		},
		"signature of a different message": {
			msg: submit, sig: sigSupport, valid: false,
		},
		"empty signature": {
			msg: submit, sig: &Signature{}, valid: false,
		},
		"nil signature": {
			msg: submit, sig: nil, valid: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.valid, pub.Verify(tc.msg, tc.sig))
		})
	}

	// another key never verifies this owner's signatures
	stranger := GenPrivKeyEd25519().PublicKey()
	assert.Equal(t, false, stranger.Verify(submit, sigSubmit))
}

func TestEd25519SignatureMarshal(t *testing.T) {
	priv := GenPrivKeyEd25519()

	one, err := priv.Sign([]byte("first"))
	assert.Nil(t, err)
	two, err := priv.Sign([]byte("second"))
	assert.Nil(t, err)

	bzOne, err := one.Marshal()
	assert.Nil(t, err)
	bzTwo, err := two.Marshal()
	assert.Nil(t, err)
	if bytes.Equal(bzOne, bzTwo) {
		t.Fatal("different signatures must not share a wire form")
	}
}

func TestEd25519Condition(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	other := GenPrivKeyEd25519().PublicKey()

	// every key derives a valid, distinct signature condition
	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, other.Condition().Validate())
	if bytes.Equal(pub.Condition(), other.Condition()) {
		t.Fatal("two keys derived the same condition")
	}

	// the condition survives a wire round trip of the key
	bz, err := pub.Marshal()
	assert.Nil(t, err)
	var read PublicKey
	assert.Nil(t, read.Unmarshal(bz))
	assert.Equal(t, pub.Condition(), read.Condition())

	// an empty key has neither condition nor address
	empty := PublicKey{}
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)

	// deterministic, the same seed always yields the same key
	a := PrivKeyEd25519FromSeed(seed)
	b := PrivKeyEd25519FromSeed(seed)
	assert.Equal(t, a.GetEd25519(), b.GetEd25519())

	// derived keys can sign and verify
	sig, err := a.Sign([]byte("genesis owner"))
	assert.Nil(t, err)
	assert.Equal(t, true, b.PublicKey().Verify([]byte("genesis owner"), sig))

	// a different seed yields a different key
	c := PrivKeyEd25519FromSeed(bytes.Repeat([]byte{8}, 32))
	if bytes.Equal(a.GetEd25519(), c.GetEd25519()) {
		t.Fatal("different seeds derived the same key")
	}

	// only 32 byte seeds are accepted
	assert.Panics(t, func() { PrivKeyEd25519FromSeed(nil) })
	assert.Panics(t, func() { PrivKeyEd25519FromSeed([]byte{1, 2, 3}) })
	assert.Panics(t, func() { PrivKeyEd25519FromSeed(bytes.Repeat([]byte{7}, 33)) })
}
