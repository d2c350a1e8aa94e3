// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"

	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

// AppendBlock - commit a sealed block and all of its transactions
//
// transactions move from the pending pool to the committed pool and
// all of the secondary indices are updated; the block must already
// have passed verification
func AppendBlock(blk *block.Block) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	packed, err := blk.Pack()
	if nil != err {
		return err
	}

	storage.Pool.Blocks.Put(numberKey(blk.Index), packed)

	for _, tx := range blk.Transactions {
		err := storeTransaction(storage.Pool.Transactions, tx)
		if nil != err {
			return err
		}
		storage.Pool.Pending.Delete([]byte(tx.Hash))
	}

	globalData.log.Infof("committed block: %d  txs: %d", blk.Index, len(blk.Transactions))
	return nil
}

// AppendPending - record an accepted but not yet mined transaction
//
// the transaction's inputs are marked spent at this point so that a
// second submission referencing the same outputs is refused straight
// away rather than at mining time
func AppendPending(tx *transaction.Transaction) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	data, err := json.Marshal(tx)
	if nil != err {
		return err
	}

	storage.Pool.Pending.Put([]byte(tx.Hash), data)
	indexTransaction(tx)
	for _, in := range tx.Inputs {
		storage.Pool.Spent.Put([]byte(in.ID), []byte(tx.ID))
	}

	globalData.log.Infof("pending transaction: %s", tx.Hash)
	return nil
}

// AppendReject - archive a transaction that failed verification
//
// kept for operator inspection, never indexed or spendable
func AppendReject(tx *transaction.Transaction, reason error) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	data, err := json.Marshal(tx)
	if nil != err {
		return err
	}

	storage.Pool.Rejects.Put([]byte(tx.Hash), data)
	globalData.log.Warnf("rejected transaction: %s  reason: %s", tx.Hash, reason)
	return nil
}

// RemovePending - drop a parked transaction without committing it
//
// its inputs become spendable again
func RemovePending(tx *transaction.Transaction) error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	storage.Pool.Pending.Delete([]byte(tx.Hash))
	for _, in := range tx.Inputs {
		storage.Pool.Spent.Delete([]byte(in.ID))
	}
	return nil
}

// write a committed transaction and maintain the indices
func storeTransaction(pool *storage.PoolHandle, tx *transaction.Transaction) error {
	data, err := json.Marshal(tx)
	if nil != err {
		return err
	}

	pool.Put([]byte(tx.Hash), data)
	indexTransaction(tx)

	if "" != tx.To && 0 != tx.Value {
		storage.Pool.Unspent.Put([]byte(tx.ID), []byte(tx.Hash))
	}
	for _, in := range tx.Inputs {
		storage.Pool.Spent.Put([]byte(in.ID), []byte(tx.ID))
		storage.Pool.Unspent.Delete([]byte(in.ID))
	}
	return nil
}

// secondary indices shared by pending and committed stores
func indexTransaction(tx *transaction.Transaction) {
	storage.Pool.TxIds.Put([]byte(tx.ID), []byte(tx.Hash))
	if "" != tx.Rid {
		storage.Pool.RidIndex.Put(compositeKey(tx.Rid, tx.Hash), []byte{})
	}
	if "" != tx.RequesterRid {
		storage.Pool.PairIndex.Put(compositeKey(tx.RequesterRid, tx.Hash), []byte{})
	}
	if "" != tx.RequestedRid {
		storage.Pool.PairIndex.Put(compositeKey(tx.RequestedRid, tx.Hash), []byte{})
	}
}
