package pow

import (
	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/talkhash"
)

// SearchResult is the outcome of a nonce search.
type SearchResult struct {
	// Found is true if a nonce meeting the target was written into the header.
	Found bool

	// LastNonce is the last nonce that was hashed, or the start nonce if the
	// search was cancelled before hashing anything. A later search can resume
	// with it as its start nonce.
	LastNonce uint32

	// HashesTried is the number of cascade evaluations performed.
	HashesTried uint64
}

// Search tries the nonces startNonce+1, startNonce+2, ... in order until one
// gives a digest whose word 7 is at most target's word 7, the nonce reaches
// maxNonce, or observer reports cancellation. Only the top word is compared;
// use CheckProofOfWorkWithTarget for the full 256-bit check.
//
// header is only written to on success, and then only its nonce field.
// observer is polled before every hash, so a cancelled search stops after at
// most one more hash. A nil hasher allocates one for this search, and a nil
// observer never cancels.
func Search(hasher *talkhash.Hasher, header *blockheader.BlockHeader, target *Target,
	startNonce, maxNonce uint32, observer CancellationObserver) *SearchResult {

	if hasher == nil {
		hasher = talkhash.NewHasher()
	}
	if observer == nil {
		observer = neverCancelled{}
	}

	targetWord := target.Word7()
	work := *header
	result := &SearchResult{LastNonce: startNonce}

	for nonce := startNonce; ; {
		if observer.IsCancelled() {
			return result
		}

		nonce++
		work.SetNonce(nonce)
		digest := hasher.Hash((*[talkhash.HeaderSize]byte)(&work))
		result.HashesTried++
		result.LastNonce = nonce

		if digest.Word(7) <= targetWord {
			header.SetNonce(nonce)
			result.Found = true
			return result
		}
		if nonce >= maxNonce {
			return result
		}
	}
}
