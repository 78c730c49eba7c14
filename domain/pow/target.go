package pow

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/pkg/errors"
	"github.com/talkcoin/talkminer/util/difficulty"
)

// TargetSize is the size of a serialized target.
const TargetSize = 32

// Target is the largest acceptable digest, stored as a 256-bit little-endian
// number: word 7 (bytes 28..31) is the most significant 32-bit word.
type Target [TargetSize]byte

// Word7 returns the most significant 32-bit word of the target.
func (target *Target) Word7() uint32 {
	return binary.LittleEndian.Uint32(target[28:])
}

// Big returns the target as a big.Int.
func (target *Target) Big() *big.Int {
	return new(big.Int).SetBytes(reverse(target[:]))
}

// String returns the target as a big-endian hex number.
func (target *Target) String() string {
	return hex.EncodeToString(reverse(target[:]))
}

// NewTargetFromWords builds a target out of eight 32-bit words, least
// significant first.
func NewTargetFromWords(words [8]uint32) *Target {
	target := &Target{}
	for i, word := range words {
		binary.LittleEndian.PutUint32(target[i*4:], word)
	}
	return target
}

// NewTargetFromBig converts a non-negative number of at most 256 bits into a
// target.
func NewTargetFromBig(n *big.Int) (*Target, error) {
	if n.Sign() < 0 {
		return nil, errors.Errorf("target %s is negative", n)
	}
	if n.BitLen() > TargetSize*8 {
		return nil, errors.Errorf("target %x is wider than %d bits", n, TargetSize*8)
	}
	var bigEndian [TargetSize]byte
	n.FillBytes(bigEndian[:])

	target := &Target{}
	copy(target[:], reverse(bigEndian[:]))
	return target, nil
}

// NewTargetFromCompact converts compact difficulty bits, as found in a block
// header, into a target.
func NewTargetFromCompact(bits uint32) (*Target, error) {
	target, err := NewTargetFromBig(difficulty.CompactToBig(bits))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid compact bits %08x", bits)
	}
	return target, nil
}

// NewTargetFromDifficulty returns the target of a share with the given
// difficulty.
func NewTargetFromDifficulty(shareDifficulty float64) *Target {
	target, err := NewTargetFromBig(difficulty.TargetFromDifficulty(shareDifficulty))
	if err != nil {
		// TargetFromDifficulty is clamped to [1, MaxTarget].
		panic(errors.Wrapf(err, "target of difficulty %g out of range", shareDifficulty))
	}
	return target
}

// NewTargetFromHex parses a big-endian hex number of up to 64 digits.
func NewTargetFromHex(hexString string) (*Target, error) {
	n, ok := new(big.Int).SetString(hexString, 16)
	if !ok {
		return nil, errors.Errorf("could not parse target %q as hex", hexString)
	}
	return NewTargetFromBig(n)
}

func reverse(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i := range b {
		reversed[len(b)-1-i] = b[i]
	}
	return reversed
}
