// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package block - the block record, its digest and validation
package block

import (
	"encoding/json"
	"strconv"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/transaction"
)

// Version - currently generated block version
const Version = 1

// Block - an ordered batch of transactions under one proof of work
type Block struct {
	Index        uint64                     `json:"index"`
	Version      uint64                     `json:"version"`
	PrevHash     string                     `json:"prevHash"`
	MerkleRoot   string                     `json:"merkleRoot"`
	Time         uint64                     `json:"time"`
	Target       string                     `json:"target"`
	SpecialMin   bool                       `json:"special_min"`
	Nonce        uint64                     `json:"nonce"`
	Hash         string                     `json:"hash"`
	PublicKey    string                     `json:"public_key"`
	Signature    string                     `json:"signature"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

// Header - the canonical header prefix a miner extends with a nonce
func (blk *Block) Header() string {
	return strconv.FormatUint(blk.Version, 10) +
		strconv.FormatUint(blk.Time, 10) +
		blk.PrevHash +
		blk.MerkleRoot +
		strconv.FormatUint(blk.Index, 10) +
		blk.Target
}

// Digest - the proof-of-work digest for a given nonce
func (blk *Block) Digest(nonce uint64) string {
	return crypto.Hash(blk.Header() + strconv.FormatUint(nonce, 10))
}

// MerkleRootFor - fold transaction hashes pairwise into a single digest
func MerkleRootFor(txs []*transaction.Transaction) string {
	if 0 == len(txs) {
		return crypto.Hash("")
	}

	layer := make([]string, len(txs))
	for i, tx := range txs {
		layer[i] = tx.Hash
	}

	for len(layer) > 1 {
		next := make([]string, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			if i+1 < len(layer) {
				next = append(next, crypto.Hash(layer[i], layer[i+1]))
			} else {
				next = append(next, crypto.Hash(layer[i], layer[i]))
			}
		}
		layer = next
	}
	return layer[0]
}

// Assemble - build an unsealed block on top of a previous one
//
// nonce, hash and signature stay zero until a proof is found
func Assemble(index uint64, prevHash string, target string, specialMin bool, timestamp uint64, publicKey string, txs []*transaction.Transaction) *Block {
	return &Block{
		Index:        index,
		Version:      Version,
		PrevHash:     prevHash,
		MerkleRoot:   MerkleRootFor(txs),
		Time:         timestamp,
		Target:       target,
		SpecialMin:   specialMin,
		PublicKey:    publicKey,
		Transactions: txs,
	}
}

// Pack - encode for storage or the wire
func (blk *Block) Pack() ([]byte, error) {
	return json.Marshal(blk)
}

// Unpack - decode a stored or received block
func Unpack(data []byte) (*Block, error) {
	var blk Block
	if err := json.Unmarshal(data, &blk); nil != err {
		return nil, fault.ErrInvalidStructure
	}
	return &blk, nil
}
