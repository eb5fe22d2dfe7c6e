package spork

import (
	"crypto/ecdsa"
	"testing"

	"github.com/fastnode/sporknet/src/crypto/keys"
)

type authority struct {
	key      *ecdsa.PrivateKey
	verifier *Verifier
	signer   *Signer
}

func newAuthority(t *testing.T) *authority {
	key, err := keys.GenerateECDSAKey()
	if err != nil {
		t.Fatal(err)
	}

	verifier := NewVerifier(&key.PublicKey, "")

	signer, err := NewSigner(key, verifier)
	if err != nil {
		t.Fatal(err)
	}

	return &authority{
		key:      key,
		verifier: verifier,
		signer:   signer,
	}
}

func (a *authority) record(t *testing.T, id ID, value int64, timeSigned int64) *Record {
	r := NewRecord(id, value, timeSigned)
	if err := a.signer.Sign(r); err != nil {
		t.Fatal(err)
	}
	return r
}

// testRegistry contains a short id, as used in the examples of the protocol,
// next to a couple of real ones.
func testRegistry(t *testing.T) *Registry {
	r, err := NewRegistry([]Param{
		{17, "SPORK_TEST", 500},
		{SwiftTX, "SPORK_2_SWIFTTX", 978307200},
		{ZerocoinMaintenanceMode, "SPORK_16_ZEROCOIN_MAINTENANCE_MODE", Off},
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}
