// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - start and stop a group of background goroutines
package background

// T - handle type for the stop
type T struct {
	finished chan struct{}
	shutdown chan struct{}
	count    int
}

// Process - type signature for a background process
// and a list of these
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// Start - start up the background processes
func Start(processes Processes, args interface{}) *T {

	register := &T{
		finished: make(chan struct{}),
		shutdown: make(chan struct{}),
		count:    len(processes),
	}

	// start each background
	for _, p := range processes {
		go func(p Process) {
			// pass the shutdown to the Run loop
			// to allow shutdown of long-running processes
			// append to the finished count so shutdown can synchronise
			p.Run(args, register.shutdown)
			register.finished <- struct{}{}
		}(p)
	}
	return register
}

// Stop - stop all background processes
func (t *T) Stop() {

	if nil == t {
		return
	}

	// shutdown all background tasks
	close(t.shutdown)

	// wait for them to finish
	for i := 0; i < t.count; i += 1 {
		<-t.finished
	}
	close(t.finished)
}
