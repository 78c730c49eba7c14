package main

import (
	"fmt"
	"os"

	"github.com/talkcoin/talkminer/domain/pow"
	"github.com/talkcoin/talkminer/infrastructure/db/noncestore"
	"github.com/talkcoin/talkminer/infrastructure/logger"
	"github.com/talkcoin/talkminer/infrastructure/os/signal"
	"github.com/talkcoin/talkminer/util/panics"
	"github.com/talkcoin/talkminer/util/profiling"
	"github.com/talkcoin/talkminer/version"
)

func main() {
	defer panics.HandlePanic(log, "main", nil)
	interrupt := signal.InterruptListener()

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	initLog(cfg)

	err = run(cfg, interrupt)
	logger.BackendLog.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config, interrupt <-chan struct{}) error {
	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	if cfg.Validate {
		classification := pow.Classify(cfg.header, cfg.target)
		log.Infof("Header %s with nonce %d: %s (full target met: %t)", cfg.header, cfg.header.Nonce(),
			classification, pow.CheckProofOfWorkWithTarget(cfg.header, cfg.target))
		return nil
	}

	// Return now if an interrupt signal was triggered.
	if signal.InterruptRequested(interrupt) {
		return nil
	}

	var store progressStore
	if cfg.Resume {
		nonceStore, err := noncestore.Open(cfg.nonceStorePath())
		if err != nil {
			return err
		}
		defer nonceStore.Close()
		store = nonceStore
	}

	done := make(chan struct{})
	defer close(done)
	logHashRate(done)

	result, err := mineLoop(cfg, store, interrupt)
	if err != nil {
		return err
	}
	log.Infof("Search finished: found=%t last nonce=%d hashes=%d interrupted=%t",
		result.Found, result.LastNonce, result.HashesTried, signal.InterruptRequested(interrupt))
	return nil
}
