// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/reservoir"
	"github.com/bulletin-network/bulletind/transaction"
)

// Transaction - transaction submission and lookup
type Transaction struct {
	log     *logger.L
	limiter *rate.Limiter
}

const (
	transactionRateLimit  = 200
	transactionBurstCount = 100
	maximumSubmitCount    = 100
)

// NewTransaction - create the service
func NewTransaction(log *logger.L) *Transaction {
	return &Transaction{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(transactionRateLimit), transactionBurstCount),
	}
}

// SubmitArguments - a single transaction object or an array of them
type SubmitArguments struct {
	Payload json.RawMessage `json:"payload"`
}

// SubmitStatus - per-item outcome
type SubmitStatus struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// SubmitReply - outcomes in submission order
type SubmitReply struct {
	Transactions []SubmitStatus `json:"transactions"`
}

// Submit - verify and accept transactions
//
// a rejected item never aborts the rest of the batch; broadcast takes
// place off this request path
func (t *Transaction) Submit(arguments *SubmitArguments, reply *SubmitReply) error {

	txs, err := transaction.DecodeList(arguments.Payload)
	if nil != err {
		return err
	}

	if err := rateLimitN(t.limiter, len(txs), maximumSubmitCount); nil != err {
		return err
	}

	for _, tx := range txs {
		status, err := reservoir.Put(tx)
		item := SubmitStatus{
			Hash:   tx.Hash,
			Status: status.String(),
		}
		if nil != err {
			item.Reason = err.Error()
		}
		reply.Transactions = append(reply.Transactions, item)
	}
	return nil
}

// ByRidArguments - lookup key
type ByRidArguments struct {
	Rid string `json:"rid"`
}

// ByRidReply - matching transactions, oldest first
type ByRidReply struct {
	Transactions []*transaction.Transaction `json:"transactions"`
}

// ByRid - every transaction carrying a rid
func (t *Transaction) ByRid(arguments *ByRidArguments, reply *ByRidReply) error {

	if err := rateLimit(t.limiter); nil != err {
		return err
	}

	txs, err := ledger.TransactionsByRid(arguments.Rid)
	if nil != err {
		return err
	}
	reply.Transactions = txs
	return nil
}
