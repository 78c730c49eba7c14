package pow

import (
	"math/big"

	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/talkhash"
)

// DiffOneWord is the largest digest word 7 of a difficulty 1 share.
const DiffOneWord uint32 = 0x0000ffff

// Classification is the verdict of Classify.
type Classification int

// Classification values, from worst to best.
const (
	// BelowMinimumDifficulty means the digest doesn't even meet difficulty 1,
	// which usually means the hash was computed incorrectly.
	BelowMinimumDifficulty Classification = iota

	// ValidHashInsufficientDifficulty means the digest meets difficulty 1
	// but not the requested target.
	ValidHashInsufficientDifficulty

	// MeetsTarget means the digest's word 7 is within the target.
	MeetsTarget
)

var classificationStrings = map[Classification]string{
	BelowMinimumDifficulty:          "BelowMinimumDifficulty",
	ValidHashInsufficientDifficulty: "ValidHashInsufficientDifficulty",
	MeetsTarget:                     "MeetsTarget",
}

func (c Classification) String() string {
	if s, ok := classificationStrings[c]; ok {
		return s
	}
	return "Unknown"
}

// Classify recomputes the digest of header, nonce included, and classifies
// it against target. It is used to confirm candidates found elsewhere before
// trusting them.
func Classify(header *blockheader.BlockHeader, target *Target) Classification {
	digest := talkhash.Hash((*[talkhash.HeaderSize]byte)(header))
	return classifyDigest(digest, target)
}

// ClassifyNonce is Classify with nonce substituted into a copy of header.
func ClassifyNonce(header *blockheader.BlockHeader, target *Target, nonce uint32) Classification {
	candidate := header.Clone()
	candidate.SetNonce(nonce)
	return Classify(candidate, target)
}

func classifyDigest(digest talkhash.Digest, target *Target) Classification {
	digestWord := digest.Word(7)
	targetWord := target.Word7()
	log.Debugf("htarget %08x diff1 %08x hash %08x", targetWord, DiffOneWord, digestWord)

	if digestWord > DiffOneWord {
		return BelowMinimumDifficulty
	}
	if digestWord > targetWord {
		return ValidHashInsufficientDifficulty
	}
	return MeetsTarget
}

// CheckProofOfWorkWithTarget reports whether header's digest, read as a
// 256-bit little-endian number, is at most target. Unlike Search and Classify
// it compares every word.
func CheckProofOfWorkWithTarget(header *blockheader.BlockHeader, target *Target) bool {
	digest := talkhash.Hash((*[talkhash.HeaderSize]byte)(header))
	return digestToBig(digest).Cmp(target.Big()) <= 0
}

func digestToBig(digest talkhash.Digest) *big.Int {
	return new(big.Int).SetBytes(reverse(digest[:]))
}
