// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package push - decide who gets told about an accepted transaction
//
// the node only decides whether and to whom a notification is due; the
// Sink owns delivery and may drop or batch as it sees fit
package push

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/transaction"
)

// Sink - notification delivery
type Sink interface {
	Deliver(rid string, kind transaction.Kind, tx *transaction.Transaction) error
}

type pushData struct {
	sync.RWMutex

	log  *logger.L
	sink Sink

	initialised bool
}

var globalData pushData

// logSink - default sink when none is configured
type logSink struct {
	log *logger.L
}

func (s logSink) Deliver(rid string, kind transaction.Kind, tx *transaction.Transaction) error {
	s.log.Infof("notify: %s  rid: %s  txn: %s", kind, rid, tx.Hash)
	return nil
}

// Initialise - set up the notification decider
//
// a nil sink selects the logging default
func Initialise(sink Sink) error {
	globalData.Lock()
	defer globalData.Unlock()

	if globalData.initialised {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("push")
	globalData.log.Info("starting…")

	if nil == sink {
		sink = logSink{log: globalData.log}
	}
	globalData.sink = sink

	globalData.initialised = true
	return nil
}

// Finalise - shut down
func Finalise() error {
	globalData.Lock()
	defer globalData.Unlock()

	if !globalData.initialised {
		return fault.ErrNotInitialised
	}

	globalData.log.Info("finished")
	globalData.log.Flush()

	globalData.initialised = false
	return nil
}

// Notify - fan a transaction out to the decided recipients
//
// delivery errors are logged and swallowed; acceptance must not depend
// on notification success
func Notify(tx *transaction.Transaction) {
	globalData.RLock()
	sink := globalData.sink
	log := globalData.log
	initialised := globalData.initialised
	globalData.RUnlock()

	if !initialised {
		return
	}

	kind, recipients := Decide(tx)
	for _, rid := range recipients {
		if err := sink.Deliver(rid, kind, tx); nil != err {
			log.Debugf("deliver to %s failed: %s", rid, err)
		}
	}
}

// Decide - classify a transaction and list the rids owed a notification
//
// request: the requested party; accept: the original requester; post:
// every counterparty on the author's relationship edges; message: the
// other endpoints recorded under the same rid
func Decide(tx *transaction.Transaction) (transaction.Kind, []string) {

	kind := tx.DeriveKind("")

	switch kind {

	case transaction.KindFriendRequest, transaction.KindFriendAccept:
		// a second record under the same rid from a different key means
		// this one answers an earlier request
		if isAccept(tx) {
			return transaction.KindFriendAccept, dropSelfLoop(tx, tx.RequesterRid)
		}
		return transaction.KindFriendRequest, dropSelfLoop(tx, tx.RequestedRid)

	case transaction.KindPost:
		return kind, postRecipients(tx)

	case transaction.KindMessage:
		return kind, messageRecipients(tx)
	}

	return kind, nil
}

// self-authored edges never notify anyone
func dropSelfLoop(tx *transaction.Transaction, rid string) []string {
	if "" == rid || tx.RequesterRid == tx.RequestedRid {
		return nil
	}
	return []string{rid}
}

func isAccept(tx *transaction.Transaction) bool {
	if "" == tx.Rid {
		return false
	}
	earlier, err := ledger.TransactionsByRid(tx.Rid)
	if nil != err {
		return false
	}
	for _, prior := range earlier {
		if prior.Hash != tx.Hash && prior.PublicKey != tx.PublicKey {
			return true
		}
	}
	return false
}

// counterparty rids of every edge the author has signed
func postRecipients(tx *transaction.Transaction) []string {
	edges, err := ledger.RelationshipsByAuthor(tx.PublicKey)
	if nil != err {
		return nil
	}
	seen := make(map[string]struct{})
	recipients := []string{}
	for _, edge := range edges {
		if edge.RequesterRid == edge.RequestedRid {
			continue
		}
		for _, rid := range []string{edge.RequesterRid, edge.RequestedRid} {
			if "" == rid {
				continue
			}
			if _, ok := seen[rid]; ok {
				continue
			}
			seen[rid] = struct{}{}
			recipients = append(recipients, rid)
		}
	}
	return recipients
}

// endpoints named by other transactions sharing the rid
func messageRecipients(tx *transaction.Transaction) []string {
	related, err := ledger.TransactionsByRid(tx.Rid)
	if nil != err {
		return nil
	}
	seen := make(map[string]struct{})
	recipients := []string{}
	for _, other := range related {
		if other.PublicKey == tx.PublicKey {
			continue
		}
		for _, rid := range []string{other.RequesterRid, other.RequestedRid} {
			if "" == rid || rid == tx.RequesterRid {
				continue
			}
			if _, ok := seen[rid]; ok {
				continue
			}
			seen[rid] = struct{}{}
			recipients = append(recipients, rid)
		}
	}
	return recipients
}
