package talkhash

import (
	"hash"

	"github.com/bitbandi/go-x11/groest"
	"github.com/bitbandi/go-x11/jhash"
	"github.com/bitbandi/go-x11/skein"
	"github.com/dchest/blake512"
	"golang.org/x/crypto/sha3"
)

// stage is one absorb-then-finalize link of the cascade.
type stage interface {
	// reset returns the stage to its initial state.
	reset()
	absorb(input []byte)
	// finalize writes the 64-byte output into output and leaves the stage
	// ready for reset.
	finalize(output []byte)
}

// primitive describes how to build a stage in its initial state. The table
// below is never modified; every Hasher builds its own stages from it.
type primitive struct {
	name     string
	newStage func() stage
}

const stageCount = 5

var primitives = [stageCount]primitive{
	{"blake512", func() stage { return &hashStage{inner: blake512.New()} }},
	{"groestl512", func() stage { return newX11Stage(func() x11Digest { return groest.New() }) }},
	{"jh512", func() stage { return newX11Stage(func() x11Digest { return jhash.New() }) }},
	{"keccak512", func() stage { return &hashStage{inner: sha3.NewLegacyKeccak512()} }},
	{"skein512", func() stage { return newX11Stage(func() x11Digest { return skein.New() }) }},
}

// PrimitiveNames returns the names of the cascade's stages in evaluation order.
func PrimitiveNames() []string {
	names := make([]string, 0, stageCount)
	for _, primitive := range primitives {
		names = append(names, primitive.name)
	}
	return names
}

// hashStage adapts a standard library style hash.Hash.
type hashStage struct {
	inner hash.Hash
}

func (s *hashStage) reset() {
	s.inner.Reset()
}

func (s *hashStage) absorb(input []byte) {
	// hash.Hash.Write never returns an error.
	_, _ = s.inner.Write(input)
}

func (s *hashStage) finalize(output []byte) {
	// output has exactly stateSize bytes of capacity, so Sum fills it in place.
	s.inner.Sum(output[:0])
}

// x11Digest is the part of the go-x11 digest API the cascade needs. Close
// writes the final value and re-initializes the digest.
type x11Digest interface {
	Write(input []byte) (int, error)
	Close(dst []byte, bits uint8, bcnt uint8) error
}

// x11Stage adapts a go-x11 digest. A digest that absorbed input without being
// closed is replaced by a new one on reset.
type x11Stage struct {
	newDigest func() x11Digest
	inner     x11Digest
	pending   bool
}

func newX11Stage(newDigest func() x11Digest) *x11Stage {
	return &x11Stage{newDigest: newDigest, inner: newDigest()}
}

func (s *x11Stage) reset() {
	if s.pending {
		s.inner = s.newDigest()
		s.pending = false
	}
}

func (s *x11Stage) absorb(input []byte) {
	s.pending = true
	_, _ = s.inner.Write(input)
}

func (s *x11Stage) finalize(output []byte) {
	// Close only fails on a short dst, and output is always stateSize bytes.
	_ = s.inner.Close(output, 0, 0)
	s.pending = false
}
