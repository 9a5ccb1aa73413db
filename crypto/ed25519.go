package crypto

import (
	"github.com/covault/covault"
	"golang.org/x/crypto/ed25519"
)

var _ PubKey = (*PublicKey_Ed25519)(nil)

// Verify checks the ed25519 signature over the message. A signature
// of another algorithm never verifies.
func (p *PublicKey_Ed25519) Verify(message []byte, sig *Signature) bool {
	edsig, ok := sig.GetSig().(*Signature_Ed25519)
	if !ok {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, edsig.Ed25519)
}

// Condition encodes the public key into a condition
func (p *PublicKey_Ed25519) Condition() covault.Condition {
	return covault.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

var _ Signer = (*PrivateKey_Ed25519)(nil)

// Sign produces an ed25519 signature over the message
func (p *PrivateKey_Ed25519) Sign(message []byte) (*Signature, error) {
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{
		Sig: &Signature_Ed25519{Ed25519: bz},
	}, nil
}

// PublicKey derives the matching public key
func (p *PrivateKey_Ed25519) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{
		Pub: &PublicKey_Ed25519{Ed25519: pub},
	}
}

// GenPrivKeyEd25519 returns a fresh random private key, using
// crypto/rand as the entropy source
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{
		Priv: &PrivateKey_Ed25519{Ed25519: priv},
	}
}

// PrivKeyEd25519FromSeed derives a private key from a 32 byte seed.
// Use it with a strong external randomness source, or for
// deterministic keys in tests.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	priv := ed25519.NewKeyFromSeed(seed)
	return &PrivateKey{
		Priv: &PrivateKey_Ed25519{Ed25519: priv},
	}
}
