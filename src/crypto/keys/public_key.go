package keys

import (
	"crypto/ecdsa"

	"github.com/btcsuite/btcd/btcec"
	"github.com/fastnode/sporknet/src/common"
)

// ToPublicKey parses a serialized secp256k1 public key. Compressed (33 bytes),
// uncompressed (65 bytes) and hybrid forms are accepted.
func ToPublicKey(pub []byte) (*ecdsa.PublicKey, error) {
	pk, err := btcec.ParsePubKey(pub, Curve())
	if err != nil {
		return nil, err
	}
	return pk.ToECDSA(), nil
}

// ParsePublicKeyHex parses a hex-encoded public key, with or without the 0x
// prefix.
func ParsePublicKeyHex(pubHex string) (*ecdsa.PublicKey, error) {
	pub, _, err := ParsePublicKeyHexForm(pubHex)
	return pub, err
}

// ParsePublicKeyHexForm is like ParsePublicKeyHex and also reports whether the
// key was serialized in compressed form.
func ParsePublicKeyHexForm(pubHex string) (*ecdsa.PublicKey, bool, error) {
	raw, err := common.DecodeFromString(pubHex)
	if err != nil {
		return nil, false, err
	}
	pub, err := ToPublicKey(raw)
	if err != nil {
		return nil, false, err
	}
	return pub, len(raw) == btcec.PubKeyBytesLenCompressed, nil
}

// FromPublicKey outputs the public key in uncompressed form.
func FromPublicKey(pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return (*btcec.PublicKey)(pub).SerializeUncompressed()
}

// PublicKeyHex returns the hexadecimal reprentation of the uncompressed form of
// the public key
func PublicKeyHex(pub *ecdsa.PublicKey) string {
	return common.EncodeToString(FromPublicKey(pub))
}

// EqualPublicKeys reports whether two public keys denote the same point.
func EqualPublicKeys(a, b *ecdsa.PublicKey) bool {
	if a == nil || b == nil || a.X == nil || b.X == nil {
		return false
	}
	return (*btcec.PublicKey)(a).IsEqual((*btcec.PublicKey)(b))
}
