package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/covault/covault"
	"github.com/covault/covault/crypto"
	"github.com/covault/covault/errors"
)

// SignCodeV1 prefixes every signed payload, versioning the sign
// bytes layout
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature on the transaction and
// returns the signer conditions in signature order. One bad
// signature fails the whole transaction.
func VerifyTxSignatures(store covault.KVStore, tx SignedTx,
	chainID string) ([]covault.Condition, error) {

	bz, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}

	sigs := tx.GetSignatures()
	signers := make([]covault.Condition, 0, len(sigs))
	for _, sig := range sigs {
		signer, err := VerifySignature(store, sig, bz, chainID)
		if err != nil {
			return nil, err
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks one signature against the sign bytes, bound
// to the chain id and the signer's current sequence. On success the
// stored sequence advances, so the same signature can never be
// replayed.
func VerifySignature(db covault.KVStore, sig *StdSignature,
	signBytes []byte, chainID string) (covault.Condition, error) {

	// guarantees the sequence is sane and a pubkey is present
	if err := sig.Validate(); err != nil {
		return nil, err
	}

	bucket := NewBucket()
	obj, err := bucket.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}

	toSign, err := BuildSignBytes(signBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	user := AsUser(obj)
	if !user.Pubkey.Verify(toSign, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}

	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := bucket.Save(db, obj); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes combines everything a signature must commit to:
//
//   version | len(chainID) | chainID      | nonce             | signBytes
//   4bytes  | uint8        | ascii string | int64 (bigendian) | serialized transaction
//
// The concatenation is prehashed with sha512, a constant length
// input keeps eddsa hardware signers workable.
func BuildSignBytes(signBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !covault.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}

	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, uint64(seq))

	payload := make([]byte, 0, len(SignCodeV1)+1+len(chainID)+len(nonce)+len(signBytes))
	payload = append(payload, SignCodeV1...)
	payload = append(payload, uint8(len(chainID)))
	payload = append(payload, []byte(chainID)...)
	payload = append(payload, nonce...)
	payload = append(payload, signBytes...)

	hashed := sha512.Sum512(payload)
	return hashed[:], nil
}

// BuildSignBytesTx calculates the sign bytes of a transaction
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	signBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	return BuildSignBytes(signBytes, chainID, seq)
}

// SignTx signs the transaction for the given chain and sequence
func SignTx(signer crypto.Signer, tx SignedTx, chainID string,
	seq int64) (*StdSignature, error) {

	signBytes, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(signBytes)
	if err != nil {
		return nil, err
	}

	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}
