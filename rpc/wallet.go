// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/ledger"
)

// Wallet - balance and unspent output queries
type Wallet struct {
	log     *logger.L
	limiter *rate.Limiter
}

const (
	walletRateLimit  = 200
	walletBurstCount = 100
)

// NewWallet - create the service
func NewWallet(log *logger.L) *Wallet {
	return &Wallet{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(walletRateLimit), walletBurstCount),
	}
}

// WalletArguments - the address to inspect
type WalletArguments struct {
	Address string `json:"address"`
}

// WalletReply - current spendable state
type WalletReply struct {
	Address string          `json:"address"`
	Balance uint64          `json:"balance"`
	Unspent []ledger.Output `json:"unspent"`
}

// Get - balance and unspent outputs of an address
func (w *Wallet) Get(arguments *WalletArguments, reply *WalletReply) error {

	if err := rateLimit(w.limiter); nil != err {
		return err
	}

	if err := crypto.ValidateAddress(arguments.Address); nil != err {
		return err
	}

	unspent, err := ledger.UnspentOutputs(arguments.Address)
	if nil != err {
		return err
	}

	balance := uint64(0)
	for _, out := range unspent {
		balance += out.Value
	}

	reply.Address = arguments.Address
	reply.Balance = balance
	reply.Unspent = unspent
	return nil
}
