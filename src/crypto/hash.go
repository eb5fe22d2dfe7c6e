package crypto

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SHA256 returns the SHA256 hash of the data.
func SHA256(data []byte) []byte {
	hasher := sha256.New()
	hasher.Write(data)
	hash := hasher.Sum(nil)
	return hash
}

// DoubleSHA256 returns SHA256(SHA256(data)), the digest used for record
// fingerprints and signed messages.
func DoubleSHA256(data []byte) []byte {
	return chainhash.DoubleHashB(data)
}

// DoubleSHA256Hash is DoubleSHA256 returned as a fixed-size chainhash.Hash,
// suitable as a map key.
func DoubleSHA256Hash(data []byte) chainhash.Hash {
	return chainhash.DoubleHashH(data)
}
