package keys

import (
	"bytes"
	"crypto/ecdsa"
	"errors"

	"github.com/btcsuite/btcd/btcec"
	"github.com/btcsuite/btcd/wire"
	"github.com/fastnode/sporknet/src/crypto"
)

// DefaultMessageMagic is prepended to every signed message.
const DefaultMessageMagic = "DarkNet Signed Message:\n"

// CompactSignatureLen is the size of a compact recoverable signature.
const CompactSignatureLen = 65

var errBadSignatureLen = errors.New("compact signature must be 65 bytes")

// MessageHash returns doubleSHA256(varstr(magic) || varstr(msg)).
func MessageHash(magic, msg string) []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	wire.WriteVarString(&buf, 0, magic)
	wire.WriteVarString(&buf, 0, msg)
	return crypto.DoubleSHA256(buf.Bytes())
}

// SignMessage produces a compact recoverable signature of msg. The recovery
// flag commits to the compressed or uncompressed form of the public key, which
// is part of the signer's identity.
func SignMessage(priv *ecdsa.PrivateKey, compressed bool, magic, msg string) ([]byte, error) {
	if priv == nil {
		return nil, errors.New("nil private key")
	}
	return btcec.SignCompact(Curve(), (*btcec.PrivateKey)(priv), MessageHash(magic, msg), compressed)
}

// RecoverMessageSigner returns the public key that produced sig over msg, and
// whether the signature commits to its compressed form.
func RecoverMessageSigner(sig []byte, magic, msg string) (*ecdsa.PublicKey, bool, error) {
	if len(sig) != CompactSignatureLen {
		return nil, false, errBadSignatureLen
	}
	pub, compressed, err := btcec.RecoverCompact(Curve(), sig, MessageHash(magic, msg))
	if err != nil {
		return nil, false, err
	}
	return pub.ToECDSA(), compressed, nil
}

// VerifyMessage reports whether sig is a signature of msg by the owner of pub,
// serialized in the given form. A signature for the same point in the other
// form yields false, as do malformed signatures.
func VerifyMessage(pub *ecdsa.PublicKey, compressed bool, sig []byte, magic, msg string) bool {
	signer, wasCompressed, err := RecoverMessageSigner(sig, magic, msg)
	if err != nil || wasCompressed != compressed {
		return false
	}
	return EqualPublicKeys(pub, signer)
}
