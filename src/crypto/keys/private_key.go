package keys

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

//GenerateECDSAKey creates a new secp256k1 private key.
func GenerateECDSAKey() (*ecdsa.PrivateKey, error) {
	priv, err := btcec.NewPrivateKey(Curve())
	if err != nil {
		return nil, err
	}
	return priv.ToECDSA(), nil
}

//DumpPrivateKey exports a private key into a 32-byte big-endian dump of its D
//value.
func DumpPrivateKey(priv *ecdsa.PrivateKey) []byte {
	if priv == nil {
		return nil
	}
	return (*btcec.PrivateKey)(priv).Serialize()
}

//ParsePrivateKey creates a private key with the given D value.
func ParsePrivateKey(d []byte) (*ecdsa.PrivateKey, error) {
	if len(d) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("invalid length, need %d bytes", btcec.PrivKeyBytesLen)
	}

	if !validScalar(new(big.Int).SetBytes(d)) {
		return nil, fmt.Errorf("invalid private key, out of range")
	}

	priv, _ := btcec.PrivKeyFromBytes(Curve(), d)

	return priv.ToECDSA(), nil
}

//PrivateKeyHex returns the hexadecimal representation of a raw private key as
//returned by DumpPrivateKey
func PrivateKeyHex(key *ecdsa.PrivateKey) string {
	return hex.EncodeToString(DumpPrivateKey(key))
}
