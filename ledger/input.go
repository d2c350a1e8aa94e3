// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

// inputState - transaction.InputState backed by the local pools
type inputState struct{}

// State - the ledger view handed to transaction verification
var State transaction.InputState = inputState{}

// Input - resolve an output id to its value and owning address
func (inputState) Input(id string) (uint64, string, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return 0, "", fault.ErrNotInitialised
	}

	hash := storage.Pool.TxIds.Get([]byte(id))
	if nil == hash {
		return 0, "", fault.ErrTransactionNotFound
	}
	if storage.Pool.Spent.Has([]byte(id)) {
		return 0, "", fault.ErrDoubleSpend
	}

	tx, err := fetchTransaction(string(hash))
	if nil != err {
		return 0, "", err
	}
	if "" == tx.To {
		return 0, "", fault.ErrInvalidStructure
	}
	return tx.Value, tx.To, nil
}
