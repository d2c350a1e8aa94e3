// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/mine"
)

// Pool - the mining pool interface
type Pool struct {
	log     *logger.L
	limiter *rate.Limiter
}

const (
	poolRateLimit  = 500
	poolBurstCount = 200
)

// NewPool - create the service
func NewPool(log *logger.L) *Pool {
	return &Pool{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(poolRateLimit), poolBurstCount),
	}
}

// WorkArguments - placeholder, no parameters
type WorkArguments struct{}

// Work - template snapshot plus a private nonce batch
func (p *Pool) Work(arguments *WorkArguments, reply *mine.Work) error {

	if err := rateLimit(p.limiter); nil != err {
		return err
	}

	work, err := mine.GetWork()
	if nil != err {
		return err
	}
	*reply = work
	return nil
}

// PoolSubmitArguments - one proof attempt
type PoolSubmitArguments struct {
	Address string `json:"address"`
	Hash    string `json:"hash"`
	Nonce   uint64 `json:"nonce"`
}

// PoolSubmitReply - "ok" when the share was recorded, empty otherwise
type PoolSubmitReply struct {
	Status string `json:"status"`
	Win    bool   `json:"win"`
}

// Submit - judge a share; a failed share reports an empty status
// rather than an error so miners treat it as a routine miss
func (p *Pool) Submit(arguments *PoolSubmitArguments, reply *PoolSubmitReply) error {

	if err := rateLimit(p.limiter); nil != err {
		return err
	}

	win, err := mine.Submit(arguments.Address, arguments.Hash, arguments.Nonce)
	if nil != err {
		p.log.Debugf("share refused: %s", err)
		reply.Status = ""
		return nil
	}
	reply.Status = "ok"
	reply.Win = win
	return nil
}

// ExplorerArguments - share lookup key
type ExplorerArguments struct {
	Address string `json:"address"`
	Index   uint64 `json:"index"`
}

// ExplorerReply - the newest matching share
type ExplorerReply struct {
	Share *mine.Share `json:"share"`
}

// Explorer - latest share for an address at a height
func (p *Pool) Explorer(arguments *ExplorerArguments, reply *ExplorerReply) error {

	if err := rateLimit(p.limiter); nil != err {
		return err
	}

	share, err := mine.LatestShare(arguments.Address, arguments.Index)
	if nil != err {
		return err
	}
	reply.Share = share
	return nil
}
