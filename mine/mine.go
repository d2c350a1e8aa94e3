// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mine

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/difficulty"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/messagebus"
	"github.com/bulletin-network/bulletind/storage"
)

// Work - one unit handed to a miner
//
// the nonce range is inclusive and never overlaps another caller's
type Work struct {
	Header     string `json:"header"`
	Target     string `json:"target"`
	SpecialMin bool   `json:"special_min"`
	NonceStart uint64 `json:"nonce_start"`
	NonceEnd   uint64 `json:"nonce_end"`
}

// Share - a recorded proof attempt
type Share struct {
	Address string `json:"address"`
	Index   uint64 `json:"index"`
	Hash    string `json:"hash"`
	Nonce   uint64 `json:"nonce"`
	Time    uint64 `json:"time"`
}

// Refresh - rebuild the template from the chain head and pending pool
//
// the swap is atomic: miners see either the old complete template or
// the new complete one, never a mixture
func Refresh() error {

	prevHash := ""
	index := uint64(1)
	specialMin := true

	last, err := ledger.LastBlock()
	switch err {
	case nil:
		index = last.Index + 1
		prevHash = last.Hash
		age := time.Since(time.Unix(int64(last.Time), 0))
		specialMin = age > specialMinInterval
	case fault.ErrBlockNotFound:
		// empty chain, genesis conditions
	default:
		return err
	}

	pending, err := ledger.PendingTransactions()
	if nil != err {
		return err
	}

	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	blk := block.Assemble(
		index,
		prevHash,
		difficulty.Current.String(),
		specialMin,
		uint64(time.Now().Unix()),
		globalData.publicKey,
		pending,
	)

	if nil == globalData.current || globalData.current.block.Index != index {
		// new height, forget the previous round's winners
		globalData.won = make(map[string]struct{})
	}

	globalData.current = &template{
		block:      blk,
		header:     blk.Header(),
		target:     blk.Target,
		specialMin: blk.SpecialMin,
	}
	globalData.log.Infof("template: index: %d  txs: %d  special min: %t",
		index, len(pending), specialMin)
	return nil
}

// GetWork - snapshot the template and allocate a nonce batch
func GetWork() (Work, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return Work{}, fault.ErrNotInitialised
	}
	if nil == globalData.current {
		return Work{}, fault.ErrTemplateUnavailable
	}

	end := globalData.nonce.Add(constants.NonceBatchSize)

	return Work{
		Header:     globalData.current.header,
		Target:     globalData.current.target,
		SpecialMin: globalData.current.specialMin,
		NonceStart: end - constants.NonceBatchSize + 1,
		NonceEnd:   end,
	}, nil
}

// Submit - judge one share against the current template
//
// the hash must equal the digest of the template header extended with
// the nonce; a valid share is recorded idempotently and a share that
// clears the target becomes the next block, broadcast exactly once
func Submit(address string, hash string, nonce uint64) (bool, error) {
	globalData.Lock()

	if !globalData.initialised {
		globalData.Unlock()
		return false, fault.ErrNotInitialised
	}
	tmpl := globalData.current
	if nil == tmpl {
		globalData.Unlock()
		return false, fault.ErrTemplateUnavailable
	}

	if tmpl.block.Digest(nonce) != hash {
		globalData.Unlock()
		return false, fault.ErrInvalidBlockHash
	}

	candidate := *tmpl.block
	if err := candidate.Seal(nonce, globalData.privateKey); nil != err {
		globalData.Unlock()
		return false, err
	}
	if err := candidate.Verify(); nil != err {
		globalData.Unlock()
		return false, err
	}

	storeShare(address, &candidate)

	win := candidate.MeetsTarget()
	broadcast := false
	if win {
		if _, done := globalData.won[hash]; !done {
			globalData.won[hash] = struct{}{}
			broadcast = true
		}
	}
	log := globalData.log
	globalData.Unlock()

	if broadcast {
		if err := ledger.AppendBlock(&candidate); nil != err {
			return true, err
		}
		packed, err := candidate.Pack()
		if nil != err {
			return true, err
		}
		messagebus.Send("block", packed)
		log.Infof("winning block: index: %d  hash: %s", candidate.Index, hash)

		if err := Refresh(); nil != err {
			log.Warnf("refresh after win: %s", err)
		}
	}

	return win, nil
}

// SharesFor - recorded shares, latest height first
//
// an empty address lists the whole pool
func SharesFor(address string) ([]Share, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	var prefix []byte
	if "" != address {
		prefix = append([]byte(address), 0x00)
	}

	shares := []Share{}
	storage.Pool.Shares.ScanReverse(prefix, func(key []byte, value []byte) bool {
		share := Share{}
		if err := json.Unmarshal(value, &share); nil == err {
			shares = append(shares, share)
		}
		return true
	})
	return shares, nil
}

// LatestShare - the newest share an address submitted for a height
func LatestShare(address string, index uint64) (*Share, error) {
	shares, err := SharesFor(address)
	if nil != err {
		return nil, err
	}
	for i := range shares {
		if shares[i].Index == index {
			return &shares[i], nil
		}
	}
	return nil, fault.ErrShareNotFound
}

// upsert under (address, index, hash); caller holds the lock
func storeShare(address string, blk *block.Block) {

	key := make([]byte, 0, len(address)+1+8+1+len(blk.Hash))
	key = append(key, address...)
	key = append(key, 0x00)
	indexKey := make([]byte, 8)
	binary.BigEndian.PutUint64(indexKey, blk.Index)
	key = append(key, indexKey...)
	key = append(key, 0x00)
	key = append(key, blk.Hash...)

	share := Share{
		Address: address,
		Index:   blk.Index,
		Hash:    blk.Hash,
		Nonce:   blk.Nonce,
		Time:    uint64(time.Now().Unix()),
	}
	data, err := json.Marshal(share)
	if nil != err {
		return
	}
	storage.Pool.Shares.Put(key, data)
}
