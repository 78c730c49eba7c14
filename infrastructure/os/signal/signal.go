// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package signal

import (
	"os"
	"os/signal"
	"syscall"
)

// interruptSignals defines the default signals to catch in order to do a proper
// shutdown.
var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// InterruptListener listens for OS Signals such as SIGINT (Ctrl+C). It returns
// a channel that is closed when the first one is received.
func InterruptListener() <-chan struct{} {
	c := make(chan struct{})
	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)

		// Listen for initial shutdown signal and close the returned
		// channel to notify the caller.
		sig := <-interruptChannel
		minrLog.Infof("Received signal (%s). Shutting down...", sig)
		close(c)

		// Listen for repeated signals and display a message so the user
		// knows the shutdown is in progress and the process is not
		// hung.
		for sig := range interruptChannel {
			minrLog.Infof("Received signal (%s). Already "+
				"shutting down...", sig)
		}
	}()

	return c
}

// InterruptRequested returns true when the channel returned by
// InterruptListener was closed. This simplifies early shutdown slightly since
// the caller can just use an if statement instead of a select.
func InterruptRequested(interrupted <-chan struct{}) bool {
	select {
	case <-interrupted:
		return true
	default:
	}

	return false
}
