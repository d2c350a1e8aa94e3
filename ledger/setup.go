// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - queries and append paths over the committed chain
// and the pending pool
//
// all reads combine committed block transactions with pending ones, so
// the graph engine and wallet lookups see submitted state immediately;
// writes happen only through the acceptance paths
package ledger

import (
	"encoding/binary"
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/fault"
)

// globals
type ledgerData struct {
	sync.RWMutex

	log *logger.L

	// set once during initialise
	initialised bool
}

var globalData ledgerData

// Initialise - set up the ledger access layer
//
// storage must already be initialised
func Initialise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("ledger")
	globalData.log.Info("starting…")

	globalData.initialised = true
	return nil
}

// Finalise - shut down the ledger access layer
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// 8 byte big endian key for a block number
func numberKey(n uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, n)
	return key
}

// composite key: part ‖ 0x00 ‖ part…
func compositeKey(parts ...string) []byte {
	size := 0
	for _, part := range parts {
		size += len(part) + 1
	}
	key := make([]byte, 0, size)
	for i, part := range parts {
		if 0 != i {
			key = append(key, 0x00)
		}
		key = append(key, part...)
	}
	return key
}
