package pow

import (
	"context"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/talkhash"
)

func digestWord7(header *blockheader.BlockHeader, nonce uint32) uint32 {
	candidate := header.Clone()
	candidate.SetNonce(nonce)
	digest := talkhash.Hash((*[talkhash.HeaderSize]byte)(candidate))
	return digest.Word(7)
}

// unreachableTarget only accepts a digest whose word 7 is zero, which none of
// the few hundred nonces the tests below try produce.
func unreachableTarget() *Target {
	return &Target{}
}

func TestSearchFindsSmallestNonce(t *testing.T) {
	header := blockheader.New(1, nil, nil, 0x5300a1b2, 0x1e0ffff0, 0)
	const startNonce, window = 1000, 64

	// Pick a threshold that some nonce in the window meets.
	words := make([]uint32, window)
	threshold := ^uint32(0)
	for i := range words {
		words[i] = digestWord7(header, startNonce+1+uint32(i))
		if i >= window/2 && words[i] < threshold {
			threshold = words[i]
		}
	}
	expectedNonce := uint32(0)
	for i, word := range words {
		if word <= threshold {
			expectedNonce = startNonce + 1 + uint32(i)
			break
		}
	}

	target := NewTargetFromWords([8]uint32{7: threshold})
	original := *header
	result := Search(nil, header, target, startNonce, startNonce+window, nil)

	if !result.Found {
		t.Fatalf("Search didn't find a nonce for threshold %08x: %s", threshold, spew.Sdump(result))
	}
	if result.LastNonce != expectedNonce {
		t.Errorf("LastNonce: got %d want %d", result.LastNonce, expectedNonce)
	}
	if result.HashesTried != uint64(expectedNonce-startNonce) {
		t.Errorf("HashesTried: got %d want %d", result.HashesTried, expectedNonce-startNonce)
	}
	if header.Nonce() != expectedNonce {
		t.Errorf("winning nonce not written into the header: got %d want %d", header.Nonce(), expectedNonce)
	}
	header.SetNonce(original.Nonce())
	if *header != original {
		t.Errorf("Search modified header bytes other than the nonce:\n%s", spew.Sdump(header[:]))
	}
}

func TestSearchFirstNonceWithMaxTarget(t *testing.T) {
	header := blockheader.New(1, nil, nil, 0, 0, 0)
	target := NewTargetFromWords([8]uint32{7: 0xffffffff})

	result := Search(talkhash.NewHasher(), header, target, 41, 100, nil)
	if !result.Found || result.LastNonce != 42 || result.HashesTried != 1 {
		t.Fatalf("unexpected result: %s", spew.Sdump(result))
	}
	if header.Nonce() != 42 {
		t.Errorf("header nonce: got %d want 42", header.Nonce())
	}
}

func TestSearchExhaustion(t *testing.T) {
	tests := []struct {
		name       string
		startNonce uint32
		maxNonce   uint32
		hashes     uint64
		lastNonce  uint32
	}{
		{"window of 50", 0, 50, 50, 50},
		{"window of 1", 7, 8, 1, 8},
		{"start past max still hashes once", 20, 10, 1, 21},
		{"end of nonce space", 0xfffffffd, 0xffffffff, 2, 0xffffffff},
	}

	for _, test := range tests {
		header := blockheader.New(1, nil, nil, 0, 0, 0xabcdef)
		result := Search(nil, header, unreachableTarget(), test.startNonce, test.maxNonce, nil)
		if result.Found {
			t.Errorf("%s: unexpectedly found nonce %d", test.name, result.LastNonce)
			continue
		}
		if result.HashesTried != test.hashes {
			t.Errorf("%s: HashesTried: got %d want %d", test.name, result.HashesTried, test.hashes)
		}
		if result.LastNonce != test.lastNonce {
			t.Errorf("%s: LastNonce: got %d want %d", test.name, result.LastNonce, test.lastNonce)
		}
		if header.Nonce() != 0xabcdef {
			t.Errorf("%s: header modified on failure", test.name)
		}
	}
}

// TestConcurrentSearches runs the same search on several goroutines, each with
// its own hasher and header, sharing only a cancel flag, and checks every
// result against a single-threaded run.
func TestConcurrentSearches(t *testing.T) {
	const workers = 8
	const startNonce, window = 500, 48

	template := blockheader.New(1, nil, nil, 0x5300a1b2, 0x1e0ffff0, 0)
	threshold := ^uint32(0)
	for nonce := uint32(startNonce + window/2); nonce <= startNonce+window; nonce++ {
		if word := digestWord7(template, nonce); word < threshold {
			threshold = word
		}
	}
	target := NewTargetFromWords([8]uint32{7: threshold})

	expectedHeader := template.Clone()
	expected := Search(nil, expectedHeader, target, startNonce, startNonce+window, nil)
	if !expected.Found {
		t.Fatalf("single-threaded search found nothing for threshold %08x", threshold)
	}

	cancelFlag := &CancelFlag{}
	results := make([]*SearchResult, workers)
	headers := make([]*blockheader.BlockHeader, workers)
	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		headers[worker] = template.Clone()
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			results[worker] = Search(talkhash.NewHasher(), headers[worker], target,
				startNonce, startNonce+window, cancelFlag)
		}(worker)
	}
	wg.Wait()

	for worker, result := range results {
		if *result != *expected {
			t.Errorf("worker %d: got %s want %s", worker, spew.Sdump(result), spew.Sdump(expected))
		}
		if *headers[worker] != *expectedHeader {
			t.Errorf("worker %d: header nonce %d, want %d", worker, headers[worker].Nonce(), expectedHeader.Nonce())
		}
	}
}

// countingObserver cancels once it has been polled more than allowed times.
type countingObserver struct {
	polls   int
	allowed int
}

func (observer *countingObserver) IsCancelled() bool {
	observer.polls++
	return observer.polls > observer.allowed
}

func TestSearchCancelledBeforeStart(t *testing.T) {
	header := blockheader.New(1, nil, nil, 0, 0, 0)
	flag := &CancelFlag{}
	flag.Cancel()

	result := Search(nil, header, NewTargetFromWords([8]uint32{7: 0xffffffff}), 10, 1000, flag)
	if result.Found || result.HashesTried != 0 || result.LastNonce != 10 {
		t.Fatalf("pre-cancelled search did work: %s", spew.Sdump(result))
	}
}

func TestSearchCancelledDuringSearch(t *testing.T) {
	header := blockheader.New(1, nil, nil, 0, 0, 0)
	observer := &countingObserver{allowed: 5}

	result := Search(nil, header, unreachableTarget(), 100, 1000000, observer)
	if result.Found {
		t.Fatalf("cancelled search reported success")
	}
	if result.HashesTried != 5 || result.LastNonce != 105 {
		t.Errorf("unexpected result after cancellation: %s", spew.Sdump(result))
	}
}

func TestSearchContextObserver(t *testing.T) {
	header := blockheader.New(1, nil, nil, 0, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := Search(nil, header, unreachableTarget(), 0, 1000000, ContextObserver(ctx))
	if result.Found || result.HashesTried != 0 {
		t.Fatalf("search ignored a cancelled context: %s", spew.Sdump(result))
	}

	if ContextObserver(context.Background()).IsCancelled() {
		t.Errorf("background context reported as cancelled")
	}
}

func TestCancelFlagReset(t *testing.T) {
	flag := &CancelFlag{}
	if flag.IsCancelled() {
		t.Fatalf("zero CancelFlag is cancelled")
	}
	flag.Cancel()
	if !flag.IsCancelled() {
		t.Fatalf("Cancel had no effect")
	}
	flag.Reset()
	if flag.IsCancelled() {
		t.Fatalf("Reset had no effect")
	}
}

// TestSearchScenario runs the version 1 header against a difficulty 1 target
// twice and checks both runs agree.
func TestSearchScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping long nonce search in short mode")
	}

	target := NewTargetFromWords([8]uint32{
		0xffffffff, 0xffffffff, 0xffffffff, 0xffffffff,
		0xffffffff, 0xffffffff, 0xffffffff, 0x0000ffff,
	})
	run := func() (*SearchResult, *blockheader.BlockHeader) {
		header := blockheader.New(1, nil, nil, 0, 0, 0)
		return Search(nil, header, target, 0, 1000000, nil), header
	}

	first, firstHeader := run()
	second, secondHeader := run()
	if *first != *second || *firstHeader != *secondHeader {
		t.Fatalf("search isn't reproducible:\n%s\n%s", spew.Sdump(first), spew.Sdump(second))
	}

	if !first.Found {
		if first.LastNonce != 1000000 || first.HashesTried != 1000000 {
			t.Fatalf("exhausted search stopped early: %s", spew.Sdump(first))
		}
		return
	}
	if word := digestWord7(firstHeader, first.LastNonce); word > 0x0000ffff {
		t.Errorf("found nonce %d has digest word 7 %08x", first.LastNonce, word)
	}
	if classification := Classify(firstHeader, target); classification != MeetsTarget {
		t.Errorf("Classify of the found header: got %s want %s", classification, MeetsTarget)
	}
}

func BenchmarkSearch(b *testing.B) {
	header := blockheader.New(1, nil, nil, 0, 0, 0)
	hasher := talkhash.NewHasher()
	b.ResetTimer()
	Search(hasher, header, unreachableTarget(), 0, uint32(b.N), nil)
}
