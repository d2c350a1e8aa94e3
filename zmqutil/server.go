// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zmqutil

import (
	"time"

	zmq "github.com/pebbe/zmq4"

	"github.com/bulletin-network/bulletind/fault"
)

// Server - a bound REP socket
type Server struct {
	socket *zmq.Socket
}

// NewServer - bind a REP socket to an address
//
// the receive timeout keeps the accept loop responsive to shutdown
func NewServer(address string, timeout time.Duration) (*Server, error) {

	socket, err := zmq.NewSocket(zmq.REP)
	if nil != err {
		return nil, err
	}

	if err := socket.SetRcvtimeo(timeout); nil != err {
		socket.Close()
		return nil, err
	}
	if err := socket.SetLinger(0); nil != err {
		socket.Close()
		return nil, err
	}
	if err := socket.Bind(address); nil != err {
		socket.Close()
		return nil, err
	}

	return &Server{socket: socket}, nil
}

// Receive - await one inbound multi-part message
func (server *Server) Receive() ([][]byte, error) {
	if nil == server.socket {
		return nil, fault.ErrNotConnected
	}
	return server.socket.RecvMessageBytes(0)
}

// Reply - answer the pending request
func (server *Server) Reply(items ...string) error {
	if nil == server.socket {
		return fault.ErrNotConnected
	}
	last := len(items) - 1
	for i, item := range items {
		flag := zmq.SNDMORE
		if i == last {
			flag = zmq.Flag(0)
		}
		if _, err := server.socket.Send(item, flag); nil != err {
			return err
		}
	}
	return nil
}

// Close - unbind and release the socket
func (server *Server) Close() error {
	if nil == server.socket {
		return nil
	}
	socket := server.socket
	server.socket = nil
	return socket.Close()
}
