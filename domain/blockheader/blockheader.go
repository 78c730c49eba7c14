// Package blockheader holds the 80-byte block header the proof-of-work
// cascade is evaluated over.
package blockheader

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/pkg/errors"
)

// Field offsets and sizes inside a serialized header. Every 32-bit field is
// stored big-endian.
const (
	HeaderSize = 80
	HashSize   = 32

	versionOffset    = 0
	prevHashOffset   = 4
	merkleRootOffset = prevHashOffset + HashSize
	timestampOffset  = merkleRootOffset + HashSize
	bitsOffset       = timestampOffset + 4

	// NonceOffset is the byte offset of the 4-byte nonce field.
	NonceOffset = bitsOffset + 4
)

// BlockHeader is a serialized block header in wire layout.
type BlockHeader [HeaderSize]byte

// New serializes the given header fields.
func New(version uint32, prevHash, merkleRoot *[HashSize]byte, timestamp, bits, nonce uint32) *BlockHeader {
	header := &BlockHeader{}
	binary.BigEndian.PutUint32(header[versionOffset:], version)
	if prevHash != nil {
		copy(header[prevHashOffset:merkleRootOffset], prevHash[:])
	}
	if merkleRoot != nil {
		copy(header[merkleRootOffset:timestampOffset], merkleRoot[:])
	}
	binary.BigEndian.PutUint32(header[timestampOffset:], timestamp)
	binary.BigEndian.PutUint32(header[bitsOffset:], bits)
	header.SetNonce(nonce)
	return header
}

// FromBytes copies a serialized header. It returns an error if serialized
// isn't exactly HeaderSize bytes long.
func FromBytes(serialized []byte) (*BlockHeader, error) {
	if len(serialized) != HeaderSize {
		return nil, errors.Errorf("invalid header length of %d, want %d",
			len(serialized), HeaderSize)
	}
	header := &BlockHeader{}
	copy(header[:], serialized)
	return header, nil
}

// FromHex decodes a hex-encoded serialized header.
func FromHex(hexString string) (*BlockHeader, error) {
	serialized, err := hex.DecodeString(hexString)
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode header %q", hexString)
	}
	return FromBytes(serialized)
}

// Version returns the header's version field.
func (header *BlockHeader) Version() uint32 {
	return binary.BigEndian.Uint32(header[versionOffset:])
}

// PrevHash returns a copy of the previous-block hash field.
func (header *BlockHeader) PrevHash() [HashSize]byte {
	var hash [HashSize]byte
	copy(hash[:], header[prevHashOffset:merkleRootOffset])
	return hash
}

// MerkleRoot returns a copy of the merkle root field.
func (header *BlockHeader) MerkleRoot() [HashSize]byte {
	var hash [HashSize]byte
	copy(hash[:], header[merkleRootOffset:timestampOffset])
	return hash
}

// Timestamp returns the header's timestamp field.
func (header *BlockHeader) Timestamp() uint32 {
	return binary.BigEndian.Uint32(header[timestampOffset:])
}

// Bits returns the header's compact difficulty field.
func (header *BlockHeader) Bits() uint32 {
	return binary.BigEndian.Uint32(header[bitsOffset:])
}

// Nonce returns the header's nonce field.
func (header *BlockHeader) Nonce() uint32 {
	return binary.BigEndian.Uint32(header[NonceOffset:])
}

// SetNonce writes nonce into the nonce field, big-endian.
func (header *BlockHeader) SetNonce(nonce uint32) {
	binary.BigEndian.PutUint32(header[NonceOffset:], nonce)
}

// Clone returns a copy of the header.
func (header *BlockHeader) Clone() *BlockHeader {
	clone := *header
	return &clone
}

// String returns the header as a hex string.
func (header *BlockHeader) String() string {
	return hex.EncodeToString(header[:])
}
