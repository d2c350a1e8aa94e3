// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - TLS JSON-RPC interface
//
// exposes transaction submission, graph derivation, wallet queries and
// the mining pool over one or more listening addresses
package rpc

import (
	"crypto/tls"
	"net/rpc"
	"sync"
	"time"

	"github.com/bitmark-inc/listener"
	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/counter"
	"github.com/bulletin-network/bulletind/fault"
)

// Configuration - settings for the RPC server
type Configuration struct {
	MaximumConnections int      `gluamapper:"maximum_connections" json:"maximum_connections"`
	Listen             []string `gluamapper:"listen" json:"listen"`
	Certificate        string   `gluamapper:"certificate" json:"certificate"`
	PrivateKey         string   `gluamapper:"private_key" json:"private_key"`
}

type rpcData struct {
	sync.RWMutex

	log *logger.L

	listener *listener.MultiListener

	initialised bool
}

var globalData rpcData

var connectionCount counter.Counter

// Initialise - start serving
func Initialise(configuration *Configuration, version string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("rpc")
	globalData.log.Info("starting…")

	if configuration.MaximumConnections <= 0 || 0 == len(configuration.Listen) {
		globalData.log.Info("listening disabled")
		globalData.initialised = true
		return nil
	}

	tlsConfiguration, err := tlsConfigurationFor(
		globalData.log,
		configuration.Certificate,
		configuration.PrivateKey,
	)
	if nil != err {
		return err
	}

	server := createServer(version)
	argument := &serverArgument{
		Log:    logger.New("rpc-server"),
		Server: server,
	}

	limiter := listener.NewLimiter(configuration.MaximumConnections)
	ml, err := listener.NewMultiListener(
		"rpc",
		configuration.Listen,
		tlsConfiguration,
		limiter,
		Callback,
	)
	if nil != err {
		return err
	}
	ml.Start(argument)
	globalData.listener = ml

	globalData.log.Infof("listening on: %v", configuration.Listen)
	globalData.initialised = true
	return nil
}

// Finalise - stop serving
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	if nil != globalData.listener {
		globalData.listener.Stop()
		globalData.listener = nil
	}

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// register every service on one rpc server
func createServer(version string) *rpc.Server {

	start := time.Now().UTC()

	server := rpc.NewServer()
	server.Register(NewTransaction(logger.New("rpc-transaction")))
	server.Register(NewWallet(logger.New("rpc-wallet")))
	server.Register(NewGraph(logger.New("rpc-graph")))
	server.Register(NewPool(logger.New("rpc-pool")))
	server.Register(NewNode(logger.New("rpc-node"), start, version))
	return server
}

func tlsConfigurationFor(log *logger.L, certificateFileName string, keyFileName string) (*tls.Config, error) {

	if err := ensureCertificate(log, certificateFileName, keyFileName); nil != err {
		return nil, err
	}

	keyPair, err := tls.LoadX509KeyPair(certificateFileName, keyFileName)
	if nil != err {
		return nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}, nil
}
