// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	ldbutil "github.com/syndtr/goleveldb/leveldb/util"
)

// Scan - iterate over all records whose key starts with keyPrefix
//
// keys are presented without the pool prefix, in ascending key order;
// returning false from the callback stops the scan early
func (p *PoolHandle) Scan(keyPrefix []byte, fn func(key []byte, value []byte) bool) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return
	}

	iter := poolData.db.NewIterator(ldbutil.BytesPrefix(p.prefixKey(keyPrefix)), nil)
	defer iter.Release()

	for iter.Next() {
		key := append([]byte(nil), iter.Key()[1:]...)
		value := append([]byte(nil), iter.Value()...)
		if !fn(key, value) {
			break
		}
	}
}

// ScanReverse - iterate in descending key order
func (p *PoolHandle) ScanReverse(keyPrefix []byte, fn func(key []byte, value []byte) bool) {
	poolData.RLock()
	defer poolData.RUnlock()
	if nil == poolData.db {
		return
	}

	iter := poolData.db.NewIterator(ldbutil.BytesPrefix(p.prefixKey(keyPrefix)), nil)
	defer iter.Release()

	for ok := iter.Last(); ok; ok = iter.Prev() {
		key := append([]byte(nil), iter.Key()[1:]...)
		value := append([]byte(nil), iter.Value()...)
		if !fn(key, value) {
			break
		}
	}
}
