// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - the peer directory and the broadcast fan-out
//
// peers come from a Lua file that is reloaded whenever it changes on
// disk; outbound delivery is fire-and-forget with per-peer isolation
package peer

import (
	"sync"

	"github.com/bitmark-inc/logger"
	gocache "github.com/patrickmn/go-cache"

	"github.com/bulletin-network/bulletind/background"
	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/fault"
)

type peerData struct {
	sync.RWMutex

	log *logger.L

	peersFile string
	peers     []Peer

	// transient peer endpoint → authorised rid
	authorisations *gocache.Cache

	background *background.T

	initialised bool
}

var globalData peerData

// Initialise - load the peer directory and start the workers
//
// listenAddress may be empty to disable the inbound listener
func Initialise(peersFile string, listenAddress string) error {
	globalData.Lock()

	if globalData.initialised {
		globalData.Unlock()
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("peer")
	globalData.log.Info("starting…")

	globalData.peersFile = peersFile
	globalData.authorisations = gocache.New(
		constants.PeerAuthorisationLifetime,
		constants.PeerAuthorisationLifetime,
	)

	peers, err := loadPeers(peersFile)
	if nil != err {
		globalData.Unlock()
		return err
	}
	globalData.peers = peers
	globalData.log.Infof("loaded %d peers", len(peers))

	globalData.initialised = true
	globalData.Unlock()

	processes := background.Processes{
		&broadcaster{log: logger.New("broadcaster")},
		&watcher{log: logger.New("peer-watch")},
	}
	if "" != listenAddress {
		processes = append(processes, &listener{
			log:     logger.New("peer-listen"),
			address: listenAddress,
		})
	}
	globalData.background = background.Start(processes, nil)

	return nil
}

// Finalise - stop the workers
func Finalise() error {
	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.background.Stop()

	globalData.Lock()
	defer globalData.Unlock()

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.peers = nil
	globalData.authorisations = nil
	globalData.initialised = false
	return nil
}
