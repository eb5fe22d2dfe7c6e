package spork

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/fastnode/sporknet/src/crypto"
)

// MaxSignatureLen bounds the signature read off the wire. Valid signatures are
// 65 bytes long.
const MaxSignatureLen = 128

// Record is a signed value for a spork.
type Record struct {
	ID         ID
	Value      int64
	TimeSigned int64
	Signature  []byte
}

// NewRecord returns an unsigned Record.
func NewRecord(id ID, value int64, timeSigned int64) *Record {
	return &Record{
		ID:         id,
		Value:      value,
		TimeSigned: timeSigned,
	}
}

// SignatureMessage is the text covered by the signature: the decimal forms of
// ID, Value and TimeSigned, concatenated without separator.
func (r *Record) SignatureMessage() string {
	return strconv.FormatInt(int64(r.ID), 10) +
		strconv.FormatInt(r.Value, 10) +
		strconv.FormatInt(r.TimeSigned, 10)
}

// Encode writes the wire form of the Record: int32 id, int64 value and int64
// time in little endian, followed by the signature as var-bytes.
func (r *Record) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(r.ID)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, r.Value); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, r.TimeSigned); err != nil {
		return err
	}
	return wire.WriteVarBytes(w, 0, r.Signature)
}

// Decode reads a Record written by Encode.
func (r *Record) Decode(rd io.Reader) error {
	var id int32
	if err := binary.Read(rd, binary.LittleEndian, &id); err != nil {
		return err
	}
	if err := binary.Read(rd, binary.LittleEndian, &r.Value); err != nil {
		return err
	}
	if err := binary.Read(rd, binary.LittleEndian, &r.TimeSigned); err != nil {
		return err
	}
	sig, err := wire.ReadVarBytes(rd, 0, MaxSignatureLen, "Signature")
	if err != nil {
		return err
	}
	r.ID = ID(id)
	r.Signature = sig
	return nil
}

// Marshal returns the wire form of the Record.
func (r *Record) Marshal() ([]byte, error) {
	var b bytes.Buffer
	if err := r.Encode(&b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Unmarshal parses the wire form of a Record. Trailing bytes are an error.
func (r *Record) Unmarshal(data []byte) error {
	rd := bytes.NewReader(data)
	if err := r.Decode(rd); err != nil {
		return err
	}
	if rd.Len() != 0 {
		return fmt.Errorf("%d trailing bytes after spork record", rd.Len())
	}
	return nil
}

// Hash returns the fingerprint of the Record: the double SHA256 of its wire
// form.
func (r *Record) Hash() chainhash.Hash {
	// Encode only fails if the writer does
	b, _ := r.Marshal()
	return crypto.DoubleSHA256Hash(b)
}

// Copy returns a deep copy of the Record.
func (r *Record) Copy() *Record {
	c := *r
	if r.Signature != nil {
		c.Signature = make([]byte, len(r.Signature))
		copy(c.Signature, r.Signature)
	}
	return &c
}

func (r *Record) String() string {
	return fmt.Sprintf("Record{ID: %d, Value: %d, TimeSigned: %d}", r.ID, r.Value, r.TimeSigned)
}
