// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	zmq "github.com/pebbe/zmq4"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/messagebus"
	"github.com/bulletin-network/bulletind/zmqutil"
)

// broadcaster - drains the message bus and fans out to all peers
//
// delivery is at-most-once: one short-lived REQ per peer per item, a
// brief wait for the ack and no retry; a dead peer costs one timeout
// and nothing else
type broadcaster struct {
	log *logger.L
}

func (b *broadcaster) Run(args interface{}, shutdown <-chan struct{}) {
	b.log.Info("starting…")
loop:
	for {
		select {
		case <-shutdown:
			break loop
		case item := <-messagebus.Chan():
			b.fanOut(item)
		}
	}
	b.log.Info("stopped")
}

func (b *broadcaster) fanOut(item messagebus.Message) {
	peers := Peers()
	b.log.Infof("broadcast %q to %d peers", item.Command, len(peers))
	for _, p := range peers {
		go b.deliver(p, item)
	}
}

// one peer, one connection, errors swallowed
func (b *broadcaster) deliver(p Peer, item messagebus.Message) {

	client := zmqutil.NewClient(zmq.REQ, constants.BroadcastTimeout)
	if err := client.Connect(p.Address()); nil != err {
		b.log.Debugf("connect %s: %s", p.Address(), err)
		return
	}
	defer client.Close()

	if err := client.Send(item.Command, item.Payload); nil != err {
		b.log.Debugf("send %s: %s", p.Address(), err)
		return
	}
	if _, err := client.Receive(0); nil != err {
		b.log.Debugf("ack %s: %s", p.Address(), err)
	}
}
