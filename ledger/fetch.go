// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/json"

	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

// Output - a spendable output held by an address
type Output struct {
	ID    string `json:"id"`
	Value uint64 `json:"value"`
}

// Bulletin - a relationship transaction whose payload the caller's
// secret was able to open
type Bulletin struct {
	Transaction  *transaction.Transaction  `json:"txn"`
	Relationship *transaction.Relationship `json:"relationship"`
}

// TransactionByHash - fetch a transaction, committed or pending
func TransactionByHash(hash string) (*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}
	return fetchTransaction(hash)
}

// TransactionByID - resolve an output id then fetch its transaction
func TransactionByID(id string) (*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	hash := storage.Pool.TxIds.Get([]byte(id))
	if nil == hash {
		return nil, fault.ErrTransactionNotFound
	}
	return fetchTransaction(string(hash))
}

// TransactionsByRid - every transaction carrying the given rid
func TransactionsByRid(rid string) ([]*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}
	return scanIndex(storage.Pool.RidIndex, rid)
}

// TransactionsByRids - union over a set of rids, order preserved
func TransactionsByRids(rids []string) ([]*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	seen := make(map[string]struct{})
	txs := []*transaction.Transaction{}
	for _, rid := range rids {
		found, err := scanIndex(storage.Pool.RidIndex, rid)
		if nil != err {
			return nil, err
		}
		for _, tx := range found {
			if _, ok := seen[tx.Hash]; ok {
				continue
			}
			seen[tx.Hash] = struct{}{}
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// SecondDegreeByRids - transactions naming any of the rids as a
// requester or requested endpoint
func SecondDegreeByRids(rids []string) ([]*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	seen := make(map[string]struct{})
	txs := []*transaction.Transaction{}
	for _, rid := range rids {
		found, err := scanIndex(storage.Pool.PairIndex, rid)
		if nil != err {
			return nil, err
		}
		for _, tx := range found {
			if _, ok := seen[tx.Hash]; ok {
				continue
			}
			seen[tx.Hash] = struct{}{}
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

// TransactionByRid - the most recent transaction carrying a rid
func TransactionByRid(rid string) (*transaction.Transaction, error) {
	txs, err := TransactionsByRid(rid)
	if nil != err {
		return nil, err
	}
	if 0 == len(txs) {
		return nil, fault.ErrTransactionNotFound
	}
	return txs[len(txs)-1], nil
}

// UnspentOutputs - all committed outputs an address can still spend
func UnspentOutputs(address string) ([]Output, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	outputs := []Output{}
	storage.Pool.Unspent.Scan(nil, func(key []byte, value []byte) bool {
		tx, err := fetchTransaction(string(value))
		if nil != err {
			return true
		}
		if tx.To == address {
			outputs = append(outputs, Output{
				ID:    tx.ID,
				Value: tx.Value,
			})
		}
		return true
	})
	return outputs, nil
}

// Balance - sum of an address's unspent outputs
func Balance(address string) (uint64, error) {
	outputs, err := UnspentOutputs(address)
	if nil != err {
		return 0, err
	}
	total := uint64(0)
	for _, out := range outputs {
		total += out.Value
	}
	return total, nil
}

// Bulletins - scan relationship transactions and return the ones the
// given shared secret decrypts
func Bulletins(secret string) ([]Bulletin, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	bulletins := []Bulletin{}
	collect := func(key []byte, value []byte) bool {
		tx := &transaction.Transaction{}
		if err := json.Unmarshal(value, tx); nil != err {
			return true
		}
		blob, ok := tx.EncryptedRelationship()
		if !ok {
			return true
		}
		plain, err := crypto.Decrypt(secret, blob)
		if nil != err {
			return true
		}
		rel := &transaction.Relationship{}
		if err := json.Unmarshal(plain, rel); nil != err {
			return true
		}
		bulletins = append(bulletins, Bulletin{
			Transaction:  tx,
			Relationship: rel,
		})
		return true
	}
	storage.Pool.Transactions.Scan(nil, collect)
	storage.Pool.Pending.Scan(nil, collect)
	return bulletins, nil
}

// RelationshipsByAuthor - relationship transactions signed by a key
//
// unindexed scan over committed and pending pools; used off the
// request path when deciding notification recipients
func RelationshipsByAuthor(publicKey string) ([]*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	txs := []*transaction.Transaction{}
	collect := func(key []byte, value []byte) bool {
		tx := &transaction.Transaction{}
		if err := json.Unmarshal(value, tx); nil != err {
			return true
		}
		if tx.PublicKey == publicKey && 0 != len(tx.Relationship) {
			txs = append(txs, tx)
		}
		return true
	}
	storage.Pool.Transactions.Scan(nil, collect)
	storage.Pool.Pending.Scan(nil, collect)
	return txs, nil
}

// PendingTransactions - the current contents of the pending pool
func PendingTransactions() ([]*transaction.Transaction, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	txs := []*transaction.Transaction{}
	storage.Pool.Pending.Scan(nil, func(key []byte, value []byte) bool {
		tx := &transaction.Transaction{}
		if err := json.Unmarshal(value, tx); nil == err {
			txs = append(txs, tx)
		}
		return true
	})
	return txs, nil
}

// BlockByNumber - fetch a committed block
func BlockByNumber(number uint64) (*block.Block, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	data := storage.Pool.Blocks.Get(numberKey(number))
	if nil == data {
		return nil, fault.ErrBlockNotFound
	}
	return block.Unpack(data)
}

// LastBlock - the highest committed block, or ErrBlockNotFound on an
// empty chain
func LastBlock() (*block.Block, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	element, ok := storage.Pool.Blocks.LastElement()
	if !ok {
		return nil, fault.ErrBlockNotFound
	}
	return block.Unpack(element.Value)
}

// Blocks - a contiguous range of committed blocks, inclusive
func Blocks(from uint64, to uint64) ([]*block.Block, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	blocks := []*block.Block{}
	for n := from; n <= to; n += 1 {
		data := storage.Pool.Blocks.Get(numberKey(n))
		if nil == data {
			break
		}
		blk, err := block.Unpack(data)
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, blk)
	}
	return blocks, nil
}

// committed first, then pending
func fetchTransaction(hash string) (*transaction.Transaction, error) {
	data := storage.Pool.Transactions.Get([]byte(hash))
	if nil == data {
		data = storage.Pool.Pending.Get([]byte(hash))
	}
	if nil == data {
		return nil, fault.ErrTransactionNotFound
	}
	tx := &transaction.Transaction{}
	if err := json.Unmarshal(data, tx); nil != err {
		return nil, err
	}
	return tx, nil
}

// walk rid ‖ 0x00 ‖ hash keys under an index pool
func scanIndex(pool *storage.PoolHandle, rid string) ([]*transaction.Transaction, error) {
	prefix := append([]byte(rid), 0x00)
	txs := []*transaction.Transaction{}
	pool.Scan(prefix, func(key []byte, value []byte) bool {
		hash := string(key[len(prefix):])
		tx, err := fetchTransaction(hash)
		if nil == err {
			txs = append(txs, tx)
		}
		return true
	})
	return txs, nil
}
