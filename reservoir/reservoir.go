// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reservoir

import (
	"encoding/json"
	"time"

	"github.com/bulletin-network/bulletind/constants"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/messagebus"
	"github.com/bulletin-network/bulletind/push"
	"github.com/bulletin-network/bulletind/transaction"
)

// Status - outcome of a submission
type Status int

const (
	StatusRejected Status = iota
	StatusAccepted
	StatusParked
)

// String - status represented as a string
func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusParked:
		return "parked"
	case StatusRejected:
		return "rejected"
	default:
		return "*unknown*"
	}
}

// Put - verify and route one inbound transaction
//
// accepted transactions are persisted as pending, announced on the
// message bus and pushed; a transaction whose input has not arrived
// yet is parked and retried in the background; any other verification
// failure is archived with its reason
func Put(tx *transaction.Transaction) (Status, error) {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return StatusRejected, fault.ErrNotInitialised
	}

	return put(tx)
}

// Retry - one re-verification pass over the parked transactions
//
// also run by the background worker; exported so new-block handling
// can trigger a pass immediately
func Retry() {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return
	}

	now := time.Now()
	for hash, parked := range globalData.parked {
		if now.After(parked.expires) {
			delete(globalData.parked, hash)
			ledger.AppendReject(parked.tx, fault.ErrMissingInput)
			globalData.log.Infof("parked transaction expired: %s", hash)
			continue
		}

		err := parked.tx.Verify(ledger.State)
		switch err {
		case fault.ErrMissingInput:
			// still waiting

		case nil:
			delete(globalData.parked, hash)
			accept(parked.tx)

		default:
			delete(globalData.parked, hash)
			ledger.AppendReject(parked.tx, err)
			globalData.log.Infof("parked transaction rejected: %s  reason: %s", hash, err)
		}
	}
}

// ParkedCount - number of transactions awaiting a missing input
func ParkedCount() int {
	globalData.Lock()
	defer globalData.Unlock()
	return len(globalData.parked)
}

// caller holds the lock
func put(tx *transaction.Transaction) (Status, error) {

	if "" == tx.Hash {
		tx.AssignHash()
	}

	// a duplicate is idempotently accepted but never re-announced, so
	// peers echoing a transaction back cannot start a broadcast loop
	if _, err := ledger.TransactionByHash(tx.Hash); nil == err {
		return StatusAccepted, nil
	}
	if _, ok := globalData.parked[tx.Hash]; ok {
		return StatusParked, nil
	}

	err := tx.Verify(ledger.State)
	switch err {

	case nil:
		if err := accept(tx); nil != err {
			return StatusRejected, err
		}
		return StatusAccepted, nil

	case fault.ErrMissingInput:
		globalData.parked[tx.Hash] = parkedTransaction{
			tx:      tx,
			expires: time.Now().Add(constants.ReservoirLifetime),
		}
		globalData.log.Infof("parked transaction: %s", tx.Hash)
		return StatusParked, nil

	default:
		ledger.AppendReject(tx, err)
		return StatusRejected, err
	}
}

// persist, announce, push; caller holds the lock
func accept(tx *transaction.Transaction) error {
	if err := ledger.AppendPending(tx); nil != err {
		return err
	}

	payload, err := json.Marshal(tx)
	if nil != err {
		return err
	}
	messagebus.Send("transaction", payload)
	push.Notify(tx)

	globalData.log.Infof("accepted transaction: %s", tx.Hash)
	return nil
}
