// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"fmt"

	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"

	"github.com/bulletin-network/bulletind/fault"
)

// Peer - one directory entry
type Peer struct {
	Host string `gluamapper:"host"`
	Port int    `gluamapper:"port"`
}

// Address - the zmq endpoint of a peer
func (p Peer) Address() string {
	return fmt.Sprintf("tcp://%s:%d", p.Host, p.Port)
}

// Peers - snapshot of the current directory
func Peers() []Peer {
	globalData.RLock()
	defer globalData.RUnlock()

	peers := make([]Peer, len(globalData.peers))
	copy(peers, globalData.peers)
	return peers
}

// Authorise - record that an endpoint proved ownership of a rid
func Authorise(endpoint string, rid string) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return
	}
	globalData.authorisations.SetDefault(endpoint, rid)
}

// AuthorisedRid - rid an endpoint previously proved, if not expired
func AuthorisedRid(endpoint string) (string, bool) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return "", false
	}
	rid, ok := globalData.authorisations.Get(endpoint)
	if !ok {
		return "", false
	}
	return rid.(string), true
}

// Reload - re-read the peers file and swap the directory
func Reload() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	peers, err := loadPeers(globalData.peersFile)
	if nil != err {
		return err
	}
	globalData.peers = peers
	globalData.log.Infof("reloaded %d peers", len(peers))
	return nil
}

// read and execute a Lua peers file
//
// the file assigns a list of {host, port} tables to the global
// "peers"; entries without both fields are rejected
func loadPeers(fileName string) ([]Peer, error) {

	L := lua.NewState()
	defer L.Close()

	L.OpenLibs()

	arg := &lua.LTable{}
	arg.Insert(0, lua.LString(fileName))
	L.SetGlobal("arg", arg)

	if err := L.DoFile(fileName); nil != err {
		return nil, err
	}

	table, ok := L.GetGlobal("peers").(*lua.LTable)
	if !ok {
		return nil, fault.ErrInvalidStructure
	}

	mapper := gluamapper.Mapper{
		Option: gluamapper.Option{
			NameFunc: func(s string) string {
				return s
			},
			TagName: "gluamapper",
		},
	}

	peers := []Peer{}
	var mapErr error
	table.ForEach(func(key lua.LValue, value lua.LValue) {
		if nil != mapErr {
			return
		}
		entry, ok := value.(*lua.LTable)
		if !ok {
			mapErr = fault.ErrInvalidStructure
			return
		}
		peer := Peer{}
		if err := mapper.Map(entry, &peer); nil != err {
			mapErr = err
			return
		}
		if "" == peer.Host {
			mapErr = fault.ErrInvalidIPAddress
			return
		}
		if peer.Port < 1 || peer.Port > 65535 {
			mapErr = fault.ErrInvalidPortNumber
			return
		}
		peers = append(peers, peer)
	})
	if nil != mapErr {
		return nil, mapErr
	}
	return peers, nil
}
