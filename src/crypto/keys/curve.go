package keys

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

//Parameters of the secp256k1 curve. They are used to verify that a private key
//is valid.
var (
	secp256k1N = btcec.S256().N
)

//Curve returns the secp256k1 curve implemented by btcsuite. Spork authority
//keys are Bitcoin-style keys so the same key material can be used by the
//signing tools of the chain.
func Curve() *btcec.KoblitzCurve {
	return btcec.S256()
}

//validScalar reports whether d is in [1, N-1].
func validScalar(d *big.Int) bool {
	return d.Sign() > 0 && d.Cmp(secp256k1N) < 0
}
