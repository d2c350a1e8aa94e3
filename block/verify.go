// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package block

import (
	"math/big"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
)

// Verify - structural check: stated hash matches the recomputed digest
// and the block signature verifies
//
// the proof-of-work ceiling is checked separately by MeetsTarget so that
// pool shares below full difficulty still pass here
func (blk *Block) Verify() error {
	if "" == blk.Hash || "" == blk.Signature || "" == blk.PublicKey {
		return fault.ErrInvalidStructure
	}

	if blk.Digest(blk.Nonce) != blk.Hash {
		return fault.ErrInvalidBlockHash
	}

	if MerkleRootFor(blk.Transactions) != blk.MerkleRoot {
		return fault.ErrInvalidStructure
	}

	if err := crypto.Verify(blk.PublicKey, []byte(blk.Hash), blk.Signature); nil != err {
		return fault.ErrInvalidBlockSignature
	}

	return nil
}

// MeetsTarget - the proof-of-work invariant
//
// a block is acceptable when its digest does not exceed the target as a
// big integer, or when the relaxed special-min path is flagged
func (blk *Block) MeetsTarget() bool {
	if blk.SpecialMin {
		return true
	}

	digest, ok := new(big.Int).SetString(blk.Hash, 16)
	if !ok {
		return false
	}
	target, ok := new(big.Int).SetString(blk.Target, 16)
	if !ok {
		return false
	}
	return digest.Cmp(target) <= 0
}

// Seal - attach a proof and sign with the node key
func (blk *Block) Seal(nonce uint64, privateKey []byte) error {
	blk.Nonce = nonce
	blk.Hash = blk.Digest(nonce)
	signature, err := crypto.Sign(privateKey, []byte(blk.Hash))
	if nil != err {
		return err
	}
	blk.Signature = signature
	return nil
}
