// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package graph - derive the social view visible to one identity
//
// pure read path over the ledger; nothing here ever mutates state
package graph

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
)

type graphData struct {
	sync.RWMutex

	log *logger.L

	// node identity
	privateKey []byte
	publicKey  string
	secret     string

	initialised bool
}

var globalData graphData

// Initialise - bind the engine to the node's key pair
func Initialise(privateKey []byte) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("graph")
	globalData.log.Info("starting…")

	publicKey, err := crypto.PublicKeyHex(privateKey)
	if nil != err {
		return err
	}
	secret, err := crypto.BulletinSecret(privateKey)
	if nil != err {
		return err
	}

	globalData.privateKey = privateKey
	globalData.publicKey = publicKey
	globalData.secret = secret

	globalData.initialised = true
	return nil
}

// Finalise - shut down
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.privateKey = nil
	globalData.initialised = false
	return nil
}
