package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestSHA256(t *testing.T) {
	// sha256("abc")
	expected := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

	got := hex.EncodeToString(SHA256([]byte("abc")))
	if got != expected {
		t.Fatalf("SHA256 should be %s, not %s", expected, got)
	}
}

func TestDoubleSHA256(t *testing.T) {
	data := []byte("J'aime mieux forger mon ame que la meubler")

	expected := SHA256(SHA256(data))

	if !bytes.Equal(DoubleSHA256(data), expected) {
		t.Fatal("DoubleSHA256 should equal SHA256(SHA256(data))")
	}

	h := DoubleSHA256Hash(data)
	if !bytes.Equal(h[:], expected) {
		t.Fatal("DoubleSHA256Hash bytes should equal DoubleSHA256")
	}
}
