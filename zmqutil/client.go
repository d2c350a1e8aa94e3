// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package zmqutil - thin helpers over pebbe/zmq4 sockets
package zmqutil

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bulletin-network/bulletind/fault"
)

// Client - an outgoing connection
type Client struct {
	address    string
	socketType zmq.Type
	socket     *zmq.Socket
	timeout    time.Duration
}

// NewClient - create a client socket, usually zmq.REQ
//
// a zero timeout leaves the socket blocking
func NewClient(socketType zmq.Type, timeout time.Duration) *Client {
	return &Client{
		socketType: socketType,
		timeout:    timeout,
	}
}

// Connect - open the socket towards an address
func (client *Client) Connect(address string) error {

	socket, err := zmq.NewSocket(client.socketType)
	if nil != err {
		return err
	}

	if 0 != client.timeout {
		if err := socket.SetSndtimeo(client.timeout); nil != err {
			socket.Close()
			return err
		}
		if err := socket.SetRcvtimeo(client.timeout); nil != err {
			socket.Close()
			return err
		}
	}
	if err := socket.SetLinger(0); nil != err {
		socket.Close()
		return err
	}

	if err := socket.Connect(address); nil != err {
		socket.Close()
		return err
	}

	client.socket = socket
	client.address = address
	return nil
}

// IsConnected - true after a successful Connect
func (client *Client) IsConnected() bool {
	return nil != client.socket
}

// Send - send a multi-part message of strings and byte slices
func (client *Client) Send(items ...interface{}) error {
	if nil == client.socket {
		return fault.ErrNotConnected
	}

	last := len(items) - 1
	for i, item := range items {

		flag := zmq.SNDMORE
		if i == last {
			flag = zmq.Flag(0)
		}
		switch it := item.(type) {
		case string:
			_, err := client.socket.Send(it, flag)
			if nil != err {
				return err
			}
		case []byte:
			_, err := client.socket.SendBytes(it, flag)
			if nil != err {
				return err
			}
		default:
			return fault.ErrInvalidStructure
		}
	}
	return nil
}

// Receive - await a reply
func (client *Client) Receive(flags zmq.Flag) ([][]byte, error) {
	if nil == client.socket {
		return nil, fault.ErrNotConnected
	}
	return client.socket.RecvMessageBytes(flags)
}

// Close - disconnect and release the socket
func (client *Client) Close() error {
	if nil == client.socket {
		return nil
	}
	socket := client.socket
	client.socket = nil
	client.address = ""
	return socket.Close()
}

// CloseClients - close a batch, ignoring nil entries
func CloseClients(clients []*Client) {
	for _, client := range clients {
		if nil != client {
			client.Close()
		}
	}
}
