// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"math"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
)

// InputState - the ledger view needed to validate spends
//
// Input returns the value and owning address of an unspent prior
// transaction; fault.ErrTransactionNotFound when the reference is not
// yet known (retry later) and fault.ErrDoubleSpend when it is already
// consumed
type InputState interface {
	Input(id string) (value uint64, owner string, err error)
}

// Verify - check a received transaction
//
// returns nil, fault.ErrInvalidSignature, fault.ErrInvalidStructure,
// fault.ErrMissingInput or fault.ErrDoubleSpend; only the retryable
// missing-input condition leaves the transaction eligible for later
// acceptance
func (tx *Transaction) Verify(state InputState) error {

	if "" == tx.ID || "" == tx.PublicKey {
		return fault.ErrInvalidStructure
	}

	// a relationship field must decode one way or the other
	if 0 != len(tx.Relationship) {
		_, encrypted := tx.EncryptedRelationship()
		_, plain := tx.PlainRelationship()
		if !encrypted && !plain {
			return fault.ErrInvalidStructure
		}
	}

	// a stated hash must match the canonical message
	if "" != tx.Hash && crypto.Hash(string(tx.CanonicalMessage())) != tx.Hash {
		return fault.ErrInvalidStructure
	}

	if err := crypto.Verify(tx.PublicKey, tx.CanonicalMessage(), tx.ID); nil != err {
		return fault.ErrInvalidSignature
	}

	// pure relationship transactions spend nothing and skip balance checks
	if 0 == len(tx.Inputs) {
		return nil
	}

	owner, err := crypto.Address(tx.PublicKey)
	if nil != err {
		return fault.ErrInvalidStructure
	}

	// value+fee must not wrap
	if tx.Value > math.MaxUint64-tx.Fee {
		return fault.ErrInvalidStructure
	}
	required := tx.Value + tx.Fee

	total := uint64(0)
	seen := make(map[string]struct{}, len(tx.Inputs))
	for _, input := range tx.Inputs {

		// an output funds a transaction at most once
		if _, ok := seen[input.ID]; ok {
			return fault.ErrInvalidStructure
		}
		seen[input.ID] = struct{}{}

		value, inputOwner, err := state.Input(input.ID)
		if fault.ErrTransactionNotFound == err {
			// the input may simply not have arrived yet
			return fault.ErrMissingInput
		}
		if nil != err {
			return err
		}
		if owner != inputOwner {
			return fault.ErrInvalidStructure
		}
		if total > math.MaxUint64-value {
			return fault.ErrInvalidStructure
		}
		total += value
	}

	if total < required {
		return fault.ErrInsufficientInputValue
	}

	return nil
}
