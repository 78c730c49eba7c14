// Package talkhash implements the five stage proof-of-work hash: BLAKE-512,
// Groestl-512, JH-512, Keccak-512 and Skein-512 applied in sequence to an
// 80-byte block header, keeping the first 32 bytes of the final output.
package talkhash

import (
	"encoding/binary"
	"encoding/hex"
)

const (
	// HeaderSize is the size of the hashed input.
	HeaderSize = 80

	// DigestSize is the size of the resulting digest.
	DigestSize = 32

	// stateSize is the output size of every stage.
	stateSize = 64
)

// Digest is the output of the cascade.
type Digest [DigestSize]byte

// Word returns the i-th 32-bit word of the digest, decoded little-endian.
func (digest Digest) Word(i int) uint32 {
	return binary.LittleEndian.Uint32(digest[i*4:])
}

// String returns the digest as a hex string, in byte order.
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// Hasher evaluates the cascade. Its stages are allocated once and returned to
// their initial state on every call, so a Hasher can be reused indefinitely.
// A Hasher is not safe for concurrent use; give each worker its own.
type Hasher struct {
	stages [stageCount]stage

	// Stage i writes into buffers[i%2] and stage i+1 reads it back.
	buffers [2][stateSize]byte
}

// NewHasher returns a Hasher whose stages are in their initial state.
func NewHasher() *Hasher {
	hasher := &Hasher{}
	for i, primitive := range primitives {
		hasher.stages[i] = primitive.newStage()
	}
	return hasher
}

// Hash evaluates the cascade over header.
func (hasher *Hasher) Hash(header *[HeaderSize]byte) Digest {
	for _, stage := range hasher.stages {
		stage.reset()
	}

	input := header[:]
	for i, stage := range hasher.stages {
		output := hasher.buffers[i%2][:]
		stage.absorb(input)
		stage.finalize(output)
		input = output
	}

	var digest Digest
	copy(digest[:], input[:DigestSize])
	return digest
}

// Hash evaluates the cascade over header using a freshly allocated Hasher.
// Loops should hold on to a Hasher instead.
func Hash(header *[HeaderSize]byte) Digest {
	return NewHasher().Hash(header)
}
