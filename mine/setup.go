// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mine - mining pool coordination
//
// holds the current block template, hands out disjoint nonce batches
// and turns submitted shares into pool records or winning blocks
package mine

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/background"
	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/counter"
	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
)

// relaxed proof threshold applies when the chain stalls this long
const specialMinInterval = 10 * time.Minute

type template struct {
	block      *block.Block
	header     string
	target     string
	specialMin bool
}

type mineData struct {
	sync.RWMutex

	log *logger.L

	privateKey []byte
	publicKey  string

	current *template

	// winning hashes already broadcast this height
	won map[string]struct{}

	nonce counter.Counter

	background *background.T

	initialised bool
}

var globalData mineData

// Initialise - bind the pool to the node key and start the refresher
func Initialise(privateKey []byte) error {
	globalData.Lock()

	if globalData.initialised {
		globalData.Unlock()
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("mine")
	globalData.log.Info("starting…")

	publicKey, err := crypto.PublicKeyHex(privateKey)
	if nil != err {
		globalData.Unlock()
		return err
	}

	globalData.privateKey = privateKey
	globalData.publicKey = publicKey
	globalData.won = make(map[string]struct{})

	globalData.initialised = true
	globalData.Unlock()

	if err := Refresh(); nil != err {
		globalData.log.Warnf("initial template: %s", err)
	}

	processes := background.Processes{
		&refresher{log: logger.New("mine-refresh")},
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the refresher and drop the template
func Finalise() error {
	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.background.Stop()

	globalData.Lock()
	defer globalData.Unlock()

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.current = nil
	globalData.privateKey = nil
	globalData.won = nil
	globalData.initialised = false
	return nil
}

// refresher - rebuilds the template on an interval so new pending
// transactions reach miners even without a height change
type refresher struct {
	log *logger.L
}

func (r *refresher) Run(args interface{}, shutdown <-chan struct{}) {
	r.log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-time.After(constants.TemplateRefreshInterval):
			if err := Refresh(); nil != err {
				r.log.Warnf("refresh: %s", err)
			}
		}
	}
	r.log.Info("stopped")
}
