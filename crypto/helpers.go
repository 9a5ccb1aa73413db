package crypto

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// ExtensionName prefixes every condition derived from a signature
const ExtensionName = "sigs"

// PubKey is the verification side of a key pair
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() covault.Condition
}

// Signer is what we need from a private key. No serialization on
// this interface, so hardware keys can implement it too.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// unwrap pulls the concrete key out of the oneof wrapper, nil when
// the wrapper is empty
func (p *PublicKey) unwrap() PubKey {
	pub := p.GetPub()
	if pub == nil {
		return nil
	}
	return pub.(PubKey)
}

func (p *PrivateKey) unwrap() Signer {
	priv := p.GetPriv()
	if priv == nil {
		return nil
	}
	return priv.(Signer)
}

var _ PubKey = (*PublicKey)(nil)

// Verify delegates to the wrapped key, an empty wrapper verifies
// nothing
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	in := p.unwrap()
	if in == nil {
		return false
	}
	return in.Verify(message, sig)
}

// Condition returns the condition this key can satisfy. Chain with
// .Address() for the account address.
func (p *PublicKey) Condition() covault.Condition {
	in := p.unwrap()
	if in == nil {
		return nil
	}
	return in.Condition()
}

// Address is shorthand for p.Condition().Address()
func (p *PublicKey) Address() covault.Address {
	return p.Condition().Address()
}

var _ Signer = (*PrivateKey)(nil)

// Sign delegates to the wrapped key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	in := p.unwrap()
	if in == nil {
		return nil, errors.Wrap(errors.ErrEmpty, "private key")
	}
	return in.Sign(message)
}

// PublicKey derives the matching public key
func (p *PrivateKey) PublicKey() *PublicKey {
	return p.unwrap().PublicKey()
}
