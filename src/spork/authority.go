package spork

import (
	"crypto/ecdsa"
	"errors"

	"github.com/fastnode/sporknet/src/crypto/keys"
)

var (
	// ErrNoSigner is returned when publishing without a master key.
	ErrNoSigner = errors.New("no master key installed")
	// ErrSignerMismatch is returned when a master key does not match the
	// authority key.
	ErrSignerMismatch = errors.New("master key does not match the spork authority key")
	// ErrSelfVerify is returned when a freshly produced signature does not
	// verify against the signing key itself.
	ErrSelfVerify = errors.New("signature failed self verification")
)

// Verifier checks Records against the authority public key.
type Verifier struct {
	pub        *ecdsa.PublicKey
	compressed bool
	magic      string
}

// NewVerifier returns a Verifier for the uncompressed form of the given
// authority key. An empty magic selects keys.DefaultMessageMagic.
func NewVerifier(pub *ecdsa.PublicKey, magic string) *Verifier {
	return newVerifier(pub, false, magic)
}

// ParseVerifier returns a Verifier for a hex encoded authority key. The
// serialized form of the key, compressed or not, is what signatures must
// commit to.
func ParseVerifier(pubHex, magic string) (*Verifier, error) {
	pub, compressed, err := keys.ParsePublicKeyHexForm(pubHex)
	if err != nil {
		return nil, err
	}
	return newVerifier(pub, compressed, magic), nil
}

func newVerifier(pub *ecdsa.PublicKey, compressed bool, magic string) *Verifier {
	if magic == "" {
		magic = keys.DefaultMessageMagic
	}
	return &Verifier{
		pub:        pub,
		compressed: compressed,
		magic:      magic,
	}
}

// Verify reports whether the Record carries a valid authority signature. It
// returns false for malformed signatures and when no key is configured.
func (v *Verifier) Verify(r *Record) bool {
	if v == nil || v.pub == nil || r == nil {
		return false
	}
	return keys.VerifyMessage(v.pub, v.compressed, r.Signature, v.magic, r.SignatureMessage())
}

// PublicKey returns the authority key.
func (v *Verifier) PublicKey() *ecdsa.PublicKey {
	return v.pub
}

// Compressed reports whether the authority key is in compressed form.
func (v *Verifier) Compressed() bool {
	return v.compressed
}

// Magic returns the message magic.
func (v *Verifier) Magic() string {
	return v.magic
}

// Signer signs Records with the master key.
type Signer struct {
	key        *ecdsa.PrivateKey
	compressed bool
	magic      string
}

// NewSigner installs a master key. It signs a probe Record and checks it
// against the Verifier so that a corrupt or foreign key is refused upfront.
func NewSigner(key *ecdsa.PrivateKey, verifier *Verifier) (*Signer, error) {
	if key == nil {
		return nil, errors.New("nil master key")
	}

	s := &Signer{
		key:        key,
		compressed: verifier.Compressed(),
		magic:      verifier.Magic(),
	}

	probe := NewRecord(SwiftTX, 0, 0)
	if err := s.Sign(probe); err != nil {
		return nil, err
	}
	if !verifier.Verify(probe) {
		return nil, ErrSignerMismatch
	}

	return s, nil
}

// Sign sets the signature of r. The signature is checked against the signing
// key before it is attached.
func (s *Signer) Sign(r *Record) error {
	msg := r.SignatureMessage()

	sig, err := keys.SignMessage(s.key, s.compressed, s.magic, msg)
	if err != nil {
		return err
	}

	if !keys.VerifyMessage(&s.key.PublicKey, s.compressed, sig, s.magic, msg) {
		return ErrSelfVerify
	}

	r.Signature = sig
	return nil
}

// PublicKey returns the public half of the master key.
func (s *Signer) PublicKey() *ecdsa.PublicKey {
	return &s.key.PublicKey
}
