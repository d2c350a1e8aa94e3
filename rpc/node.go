// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/mode"
	"github.com/bulletin-network/bulletind/peer"
)

// Node - node status
type Node struct {
	log     *logger.L
	limiter *rate.Limiter
	start   time.Time
	version string
}

const (
	nodeRateLimit  = 100
	nodeBurstCount = 50
)

// NewNode - create the service
func NewNode(log *logger.L, start time.Time, version string) *Node {
	return &Node{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(nodeRateLimit), nodeBurstCount),
		start:   start,
		version: version,
	}
}

// InfoArguments - placeholder, no parameters
type InfoArguments struct{}

// InfoReply - daemon status summary
type InfoReply struct {
	Version     string `json:"version"`
	Mode        string `json:"mode"`
	BlockHeight uint64 `json:"block_height"`
	Pending     int    `json:"pending"`
	Peers       int    `json:"peers"`
	Uptime      string `json:"uptime"`
}

// Info - status of the running daemon
func (n *Node) Info(arguments *InfoArguments, reply *InfoReply) error {

	if err := rateLimit(n.limiter); nil != err {
		return err
	}

	height := uint64(0)
	last, err := ledger.LastBlock()
	switch err {
	case nil:
		height = last.Index
	case fault.ErrBlockNotFound:
		// empty chain
	default:
		return err
	}

	pending, err := ledger.PendingTransactions()
	if nil != err {
		return err
	}

	reply.Version = n.version
	reply.Mode = mode.String()
	reply.BlockHeight = height
	reply.Pending = len(pending)
	reply.Peers = len(peer.Peers())
	reply.Uptime = time.Since(n.start).String()
	return nil
}
