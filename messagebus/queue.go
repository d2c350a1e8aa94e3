// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package messagebus

// internal constants
const (
	queueSize = 1000
)

// Message - item to put on the bus
//
// Command names the channel the broadcaster will emit on
// ("transaction" or "block"), Payload is the JSON encoded item
type Message struct {
	Command string
	Payload []byte
}

var (
	// for queueing data
	queue = make(chan Message, queueSize)
)

// Send - data to queue
//
// drops the message when the queue is full rather than blocking the
// accepting operation: delivery is best-effort
func Send(command string, payload []byte) {
	select {
	case queue <- Message{Command: command, Payload: payload}:
	default:
	}
}

// Chan - channel to read from
func Chan() <-chan Message {
	return queue
}
