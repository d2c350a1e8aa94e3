// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reservoir - transaction acceptance
//
// every inbound transaction passes through Put: verified ones land in
// the pending pool and are announced, ones missing an input are parked
// for retry, the rest are archived to the rejects pool
package reservoir

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/background"
	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/transaction"
)

type parkedTransaction struct {
	tx      *transaction.Transaction
	expires time.Time
}

type reservoirData struct {
	sync.Mutex

	log *logger.L

	parked map[string]parkedTransaction

	background *background.T

	initialised bool
}

var globalData reservoirData

// Initialise - start the reservoir and its retry worker
func Initialise() error {
	globalData.Lock()

	if globalData.initialised {
		globalData.Unlock()
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("reservoir")
	globalData.log.Info("starting…")

	globalData.parked = make(map[string]parkedTransaction)

	globalData.initialised = true
	globalData.Unlock()

	processes := background.Processes{
		&retrier{log: logger.New("reservoir-retry")},
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the retry worker and drop parked state
func Finalise() error {
	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.background.Stop()

	globalData.Lock()
	defer globalData.Unlock()

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.parked = nil
	globalData.initialised = false
	return nil
}

// retrier - periodically re-verifies parked transactions
type retrier struct {
	log *logger.L
}

func (r *retrier) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(constants.ReservoirRetryInterval):
			Retry()
		}
	}
	r.log.Info("stopped")
}
