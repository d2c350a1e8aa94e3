// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/mine"
	"github.com/bulletin-network/bulletind/reservoir"
	"github.com/bulletin-network/bulletind/transaction"
	"github.com/bulletin-network/bulletind/zmqutil"
)

const acceptPollInterval = 500 * time.Millisecond

// listener - inbound REP socket accepting pushed items from peers
type listener struct {
	log     *logger.L
	address string
}

func (l *listener) Run(args interface{}, shutdown <-chan struct{}) {
	l.log.Info("starting…")

	server, err := zmqutil.NewServer(l.address, acceptPollInterval)
	if nil != err {
		l.log.Errorf("bind %s: %s", l.address, err)
		return
	}
	defer server.Close()
	l.log.Infof("listening on %s", l.address)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		frames, err := server.Receive()
		if nil != err {
			// timeout keeps the loop responsive to shutdown
			continue
		}
		if len(frames) < 2 {
			server.Reply("error")
			continue
		}

		reply := l.process(string(frames[0]), frames[1])
		if err := server.Reply(reply); nil != err {
			l.log.Debugf("reply: %s", err)
		}
	}
	l.log.Info("stopped")
}

func (l *listener) process(command string, payload []byte) string {
	switch command {

	case "transaction":
		tx, err := transaction.Decode(payload)
		if nil != err {
			l.log.Debugf("bad transaction: %s", err)
			return "error"
		}
		status, err := reservoir.Put(tx)
		if nil != err {
			l.log.Debugf("transaction refused: %s", err)
			return "error"
		}
		return status.String()

	case "block":
		blk, err := block.Unpack(payload)
		if nil != err {
			l.log.Debugf("bad block: %s", err)
			return "error"
		}
		if err := blk.Verify(); nil != err {
			l.log.Debugf("block refused: %s", err)
			return "error"
		}
		if !blk.MeetsTarget() {
			l.log.Debugf("block below target: %s", blk.Hash)
			return "error"
		}
		if !extendsChain(blk) {
			l.log.Debugf("block does not extend the chain: index: %d  hash: %s", blk.Index, blk.Hash)
			return "error"
		}
		if err := ledger.AppendBlock(blk); nil != err {
			l.log.Debugf("block store failed: %s", err)
			return "error"
		}
		// a new block may supply parked inputs and obsoletes
		// the current mining template
		reservoir.Retry()
		mine.Refresh()
		return "ok"
	}

	l.log.Debugf("unknown command: %q", command)
	return "error"
}

// extendsChain - a pushed block must continue the stored chain
//
// only height+1 on the current head (or the first block of an empty
// chain) is acceptable; anything else would overwrite committed data
func extendsChain(blk *block.Block) bool {
	last, err := ledger.LastBlock()
	switch err {
	case nil:
		return blk.Index == last.Index+1 && blk.PrevHash == last.Hash
	case fault.ErrBlockNotFound:
		return 1 == blk.Index && "" == blk.PrevHash
	default:
		return false
	}
}
