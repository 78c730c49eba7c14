package main

import (
	"sync/atomic"
	"time"

	"github.com/talkcoin/talkminer/domain/blockheader"
	"github.com/talkcoin/talkminer/domain/pow"
	"github.com/talkcoin/talkminer/domain/talkhash"
	"github.com/talkcoin/talkminer/infrastructure/db/noncestore"
	"github.com/talkcoin/talkminer/infrastructure/logger"
	"github.com/talkcoin/talkminer/infrastructure/metrics"
)

var hashesTried uint64

const logHashRateInterval = 10 * time.Second

// progressStore is the part of noncestore.Store the mine loop uses.
type progressStore interface {
	LastNonce(key noncestore.Key) (uint32, bool, error)
	SetLastNonce(key noncestore.Key, nonce uint32) error
	Delete(key noncestore.Key) error
}

// mineLoop searches cfg.header against cfg.target in chunks of cfg.ChunkSize
// nonces, checkpointing into store after every chunk when store is not nil.
// The returned result covers the whole search, and cfg.header holds the
// winning nonce if one was found.
func mineLoop(cfg *config, store progressStore, interrupt <-chan struct{}) (*pow.SearchResult, error) {
	defer logger.LogAndMeasureExecutionTime(log, "mineLoop")()

	cancelFlag := &pow.CancelFlag{}
	done := make(chan struct{})
	defer close(done)
	spawn("cancelOnInterrupt", func() {
		select {
		case <-interrupt:
			cancelFlag.Cancel()
		case <-done:
		}
	})

	key := noncestore.KeyFor(cfg.header, cfg.target)
	startNonce, err := resumeNonce(cfg, store, key)
	if err != nil {
		return nil, err
	}

	total := &pow.SearchResult{LastNonce: startNonce}
	if startNonce >= cfg.MaxNonce {
		log.Infof("Nonce range (%d, %d] is already exhausted", startNonce, cfg.MaxNonce)
		metrics.RecordSearch(total, false)
		return total, nil
	}

	log.Infof("Searching nonces (%d, %d] for target %s", startNonce, cfg.MaxNonce, cfg.target)
	hasher := talkhash.NewHasher()
	for {
		chunkEnd := cfg.MaxNonce
		if cfg.MaxNonce-total.LastNonce > cfg.ChunkSize {
			chunkEnd = total.LastNonce + cfg.ChunkSize
		}

		result := pow.Search(hasher, cfg.header, cfg.target, total.LastNonce, chunkEnd, cancelFlag)
		atomic.AddUint64(&hashesTried, result.HashesTried)
		total.HashesTried += result.HashesTried
		total.LastNonce = result.LastNonce
		total.Found = result.Found

		if result.Found {
			handleFoundNonce(cfg.header, cfg.target)
			if store != nil {
				err := store.Delete(key)
				if err != nil {
					return nil, err
				}
			}
			break
		}

		if store != nil {
			err := store.SetLastNonce(key, total.LastNonce)
			if err != nil {
				return nil, err
			}
		}

		if cancelFlag.IsCancelled() {
			log.Infof("Search interrupted after nonce %d", total.LastNonce)
			break
		}
		if total.LastNonce >= cfg.MaxNonce {
			log.Infof("Exhausted the nonce range without meeting the target")
			break
		}
		log.Debugf("Checkpoint at nonce %d", total.LastNonce)
	}

	metrics.RecordSearch(total, cancelFlag.IsCancelled())
	return total, nil
}

func resumeNonce(cfg *config, store progressStore, key noncestore.Key) (uint32, error) {
	if store == nil {
		return cfg.StartNonce, nil
	}
	lastNonce, found, err := store.LastNonce(key)
	if err != nil {
		return 0, err
	}
	if !found || lastNonce <= cfg.StartNonce {
		return cfg.StartNonce, nil
	}
	log.Infof("Resuming search after nonce %d", lastNonce)
	return lastNonce, nil
}

// handleFoundNonce re-validates a winning header before reporting it.
func handleFoundNonce(header *blockheader.BlockHeader, target *pow.Target) {
	classification := pow.Classify(header, target)
	if classification != pow.MeetsTarget {
		log.Errorf("Nonce %d was found but classified as %s", header.Nonce(), classification)
		return
	}
	log.Infof("Found nonce %d: %s", header.Nonce(), header)
	if !pow.CheckProofOfWorkWithTarget(header, target) {
		log.Infof("Nonce %d meets the top word of the target but not the full target", header.Nonce())
	}
}

func logHashRate(done <-chan struct{}) {
	spawn("logHashRate", func() {
		ticker := time.NewTicker(logHashRateInterval)
		defer ticker.Stop()
		lastCheck := time.Now()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
			}
			currentHashesTried := atomic.LoadUint64(&hashesTried)
			currentTime := time.Now()
			hashRate := metrics.SetHashRate(currentHashesTried, currentTime.Sub(lastCheck))
			log.Infof("Current hash rate is %.2f Khash/s", hashRate/1000.0)
			lastCheck = currentTime
			// subtract from hashesTried the hashes we already sampled
			atomic.AddUint64(&hashesTried, -currentHashesTried)
		}
	})
}
