package keys

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/fastnode/sporknet/src/common"
)

func TestSimpleKeyfile(t *testing.T) {
	os.Mkdir("test_data", os.ModeDir|0700)
	dir, err := ioutil.TempDir("test_data", "sporknet")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	simpleKeyfile := NewSimpleKeyfile(filepath.Join(dir, "master_key"))

	// Try a read, should get nothing
	key, err := simpleKeyfile.ReadKey()
	if err == nil {
		t.Fatalf("ReadKey should generate an error")
	}
	if key != nil {
		t.Fatalf("key is not nil")
	}

	key, _ = GenerateECDSAKey()

	if err := simpleKeyfile.WriteKey(key); err != nil {
		t.Fatalf("err: %v", err)
	}

	nKey, err := simpleKeyfile.ReadKey()
	if err != nil {
		t.Fatalf("err: %v", err)
	}

	if !reflect.DeepEqual(DumpPrivateKey(nKey), DumpPrivateKey(key)) {
		t.Fatalf("Keys do not match")
	}

	if !EqualPublicKeys(&nKey.PublicKey, &key.PublicKey) {
		t.Fatalf("Public keys do not match")
	}
}

func TestFilePermissions(t *testing.T) {
	os.Mkdir("test_data", os.ModeDir|0700)
	dir, err := ioutil.TempDir("test_data", "sporknet")
	if err != nil {
		t.Fatalf("err: %v ", err)
	}
	defer os.RemoveAll(dir)

	key, _ := GenerateECDSAKey()
	rawKey := PrivateKeyHex(key)

	badKeyPath := filepath.Join(dir, "master_key_bad")

	for _, fm := range []os.FileMode{0777, 0744, 0644, 0640, 0604} {
		os.Remove(badKeyPath)
		ioutil.WriteFile(badKeyPath, []byte(rawKey), fm)
		os.Chmod(badKeyPath, fm)

		if _, err := NewSimpleKeyfile(badKeyPath).ReadKey(); err == nil {
			t.Fatalf("%o || key file should return permissions error", fm)
		}
	}

	goodKeyPath := filepath.Join(dir, "master_key_good")

	for _, fm := range []os.FileMode{0700, 0600, 0400} {
		os.Remove(goodKeyPath)
		ioutil.WriteFile(goodKeyPath, []byte(rawKey), fm)
		os.Chmod(goodKeyPath, fm)

		if _, err := NewSimpleKeyfile(goodKeyPath).ReadKey(); err != nil {
			t.Fatalf("%o || key file should not return error. Got %v", fm, err)
		}
	}
}

func TestParsePrivateKey(t *testing.T) {
	if _, err := ParsePrivateKey(make([]byte, 32)); err == nil {
		t.Fatal("zero key should be rejected")
	}

	if _, err := ParsePrivateKey([]byte{1, 2, 3}); err == nil {
		t.Fatal("short key should be rejected")
	}

	n := Curve().N.Bytes()
	if _, err := ParsePrivateKey(n); err == nil {
		t.Fatal("key equal to N should be rejected")
	}
}

func TestPublicKeyHex(t *testing.T) {
	key, _ := GenerateECDSAKey()

	pubHex := PublicKeyHex(&key.PublicKey)

	pub, err := ParsePublicKeyHex(pubHex)
	if err != nil {
		t.Fatal(err)
	}

	if !EqualPublicKeys(pub, &key.PublicKey) {
		t.Fatal("parsed public key differs")
	}

	if _, err := ParsePublicKeyHex("0xdeadbeef"); err == nil {
		t.Fatal("garbage public key should not parse")
	}
}

func TestSignMessage(t *testing.T) {
	key, _ := GenerateECDSAKey()
	other, _ := GenerateECDSAKey()

	msg := "1000110001000"

	for _, compressed := range []bool{false, true} {
		sig, err := SignMessage(key, compressed, DefaultMessageMagic, msg)
		if err != nil {
			t.Fatal(err)
		}

		if len(sig) != CompactSignatureLen {
			t.Fatalf("signature should be %d bytes, not %d", CompactSignatureLen, len(sig))
		}

		if !VerifyMessage(&key.PublicKey, compressed, sig, DefaultMessageMagic, msg) {
			t.Fatal("signature should verify")
		}

		if VerifyMessage(&key.PublicKey, !compressed, sig, DefaultMessageMagic, msg) {
			t.Fatalf("signature should not verify for the other key form (compressed: %v)", !compressed)
		}

		if VerifyMessage(&other.PublicKey, compressed, sig, DefaultMessageMagic, msg) {
			t.Fatal("signature should not verify with another key")
		}

		if VerifyMessage(&key.PublicKey, compressed, sig, DefaultMessageMagic, "1000110001001") {
			t.Fatal("signature should not verify another message")
		}

		if VerifyMessage(&key.PublicKey, compressed, sig, "Other Magic:\n", msg) {
			t.Fatal("signature should not verify under another magic")
		}

		if VerifyMessage(&key.PublicKey, compressed, sig[:64], DefaultMessageMagic, msg) {
			t.Fatal("truncated signature should not verify")
		}

		if VerifyMessage(&key.PublicKey, compressed, nil, DefaultMessageMagic, msg) {
			t.Fatal("empty signature should not verify")
		}
	}
}

func TestSignMessageHeader(t *testing.T) {
	key, _ := GenerateECDSAKey()

	sig, err := SignMessage(key, false, DefaultMessageMagic, "1")
	if err != nil {
		t.Fatal(err)
	}
	if sig[0] < 27 || sig[0] > 30 {
		t.Fatalf("uncompressed key should give a header in [27,30], not %d", sig[0])
	}

	sig, err = SignMessage(key, true, DefaultMessageMagic, "1")
	if err != nil {
		t.Fatal(err)
	}
	if sig[0] < 31 || sig[0] > 34 {
		t.Fatalf("compressed key should give a header in [31,34], not %d", sig[0])
	}
}

func TestParsePublicKeyHexForm(t *testing.T) {
	key, _ := GenerateECDSAKey()
	pk := (*btcec.PublicKey)(&key.PublicKey)

	_, compressed, err := ParsePublicKeyHexForm(common.EncodeToString(pk.SerializeUncompressed()))
	if err != nil {
		t.Fatal(err)
	}
	if compressed {
		t.Fatal("uncompressed key reported as compressed")
	}

	pub, compressed, err := ParsePublicKeyHexForm(common.EncodeToString(pk.SerializeCompressed()))
	if err != nil {
		t.Fatal(err)
	}
	if !compressed {
		t.Fatal("compressed key reported as uncompressed")
	}
	if !EqualPublicKeys(pub, &key.PublicKey) {
		t.Fatal("parsed public key differs")
	}
}
