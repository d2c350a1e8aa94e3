// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/transaction"
)

// fake ledger state for spend checks
type fakeState struct {
	inputs map[string]struct {
		value uint64
		owner string
		spent bool
	}
}

func (f *fakeState) Input(id string) (uint64, string, error) {
	entry, ok := f.inputs[id]
	if !ok {
		return 0, "", fault.ErrTransactionNotFound
	}
	if entry.spent {
		return 0, "", fault.ErrDoubleSpend
	}
	return entry.value, entry.owner, nil
}

func newFakeState() *fakeState {
	return &fakeState{inputs: make(map[string]struct {
		value uint64
		owner string
		spent bool
	})}
}

func makeSigned(t *testing.T) (*transaction.Transaction, []byte, string) {
	t.Helper()

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)

	tx := &transaction.Transaction{
		Rid:       transaction.NewRid("alpha-secret", "beta-secret"),
		PublicKey: publicHex,
		Value:     1,
		Fee:       0,
	}
	assert.NoError(t, tx.SetEncryptedRelationship("deadbeef"))
	assert.NoError(t, tx.Sign(private))

	return tx, private, publicHex
}

func TestRidSymmetry(t *testing.T) {
	assert.Equal(t,
		transaction.NewRid("Alpha", "beta"),
		transaction.NewRid("beta", "Alpha"))
	assert.Len(t, transaction.NewRid("a", "b"), 64)

	// different pairs give different identifiers
	assert.NotEqual(t,
		transaction.NewRid("a", "b"),
		transaction.NewRid("a", "c"))
}

func TestVerifyValid(t *testing.T) {
	tx, _, _ := makeSigned(t)
	assert.NoError(t, tx.Verify(newFakeState()))
}

// tampering with any signed field must invalidate the signature
func TestVerifyTampered(t *testing.T) {

	tamper := []func(tx *transaction.Transaction){
		func(tx *transaction.Transaction) { tx.Rid = transaction.NewRid("x", "y") },
		func(tx *transaction.Transaction) { tx.SetEncryptedRelationship("beefdead") },
		func(tx *transaction.Transaction) { tx.Value += 1 },
		func(tx *transaction.Transaction) { tx.Fee += 1 },
	}

	for i, f := range tamper {
		tx, _, _ := makeSigned(t)
		f(tx)
		tx.AssignHash() // keep hash consistent so only the signature fails
		err := tx.Verify(newFakeState())
		assert.Equal(t, fault.ErrInvalidSignature, err, "case %d", i)
	}
}

func TestVerifyHashMismatch(t *testing.T) {
	tx, _, _ := makeSigned(t)
	tx.Hash = crypto.Hash("something else")
	assert.Equal(t, fault.ErrInvalidStructure, tx.Verify(newFakeState()))
}

func TestVerifyMissingInput(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)

	tx := &transaction.Transaction{
		PublicKey: publicHex,
		Value:     5,
		Fee:       1,
		To:        "some-address",
		Inputs:    []transaction.Input{{ID: "unknown"}},
	}
	assert.NoError(t, tx.Sign(private))

	err = tx.Verify(newFakeState())
	assert.Equal(t, fault.ErrMissingInput, err)
	assert.True(t, fault.IsErrRetry(err))
}

func TestVerifySpending(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)
	owner, err := crypto.Address(publicHex)
	assert.NoError(t, err)

	state := newFakeState()
	state.inputs["prior"] = struct {
		value uint64
		owner string
		spent bool
	}{value: 10, owner: owner}

	tx := &transaction.Transaction{
		PublicKey: publicHex,
		Value:     8,
		Fee:       2,
		To:        "some-address",
		Inputs:    []transaction.Input{{ID: "prior"}},
	}
	assert.NoError(t, tx.Sign(private))
	assert.NoError(t, tx.Verify(state))

	// overspend
	tx.Value = 9
	assert.NoError(t, tx.Sign(private))
	assert.Equal(t, fault.ErrInsufficientInputValue, tx.Verify(state))

	// double spend
	tx.Value = 8
	assert.NoError(t, tx.Sign(private))
	entry := state.inputs["prior"]
	entry.spent = true
	state.inputs["prior"] = entry
	assert.Equal(t, fault.ErrDoubleSpend, tx.Verify(state))

	// input owned by someone else
	entry.spent = false
	entry.owner = "other-address"
	state.inputs["prior"] = entry
	assert.Equal(t, fault.ErrInvalidStructure, tx.Verify(state))
}

// an output listed twice must not count twice towards the balance
func TestVerifyRepeatedInput(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)
	owner, err := crypto.Address(publicHex)
	assert.NoError(t, err)

	state := newFakeState()
	state.inputs["out-1"] = struct {
		value uint64
		owner string
		spent bool
	}{value: 50, owner: owner}

	tx := &transaction.Transaction{
		PublicKey: publicHex,
		Value:     100,
		Fee:       0,
		To:        "some-address",
		Inputs: []transaction.Input{
			{ID: "out-1"},
			{ID: "out-1"},
		},
	}
	assert.NoError(t, tx.Sign(private))
	assert.Equal(t, fault.ErrInvalidStructure, tx.Verify(state))
}

// value+fee arithmetic must not wrap around
func TestVerifyValueFeeOverflow(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)
	owner, err := crypto.Address(publicHex)
	assert.NoError(t, err)

	state := newFakeState()
	state.inputs["tiny"] = struct {
		value uint64
		owner string
		spent bool
	}{value: 1, owner: owner}

	tx := &transaction.Transaction{
		PublicKey: publicHex,
		Value:     ^uint64(0),
		Fee:       2,
		To:        "some-address",
		Inputs:    []transaction.Input{{ID: "tiny"}},
	}
	assert.NoError(t, tx.Sign(private))
	assert.Equal(t, fault.ErrInvalidStructure, tx.Verify(state))
}

func TestDeriveKind(t *testing.T) {

	selfRid := transaction.NewRid("me", "counterparty")

	relationship, _ := json.Marshal("656e637279707465640a")

	request := &transaction.Transaction{
		Relationship: relationship,
		DHPublicKey:  "aa",
		RequesterRid: selfRid,
		RequestedRid: transaction.NewRid("counterparty", "other"),
	}
	assert.Equal(t, transaction.KindFriendRequest, request.DeriveKind(transaction.NewRid("x", "y")))
	assert.Equal(t, transaction.KindFriendAccept, request.DeriveKind(request.RequestedRid))

	post := &transaction.Transaction{Relationship: relationship}
	assert.Equal(t, transaction.KindPost, post.DeriveKind(selfRid))

	message := &transaction.Transaction{Relationship: relationship, Rid: selfRid}
	assert.Equal(t, transaction.KindMessage, message.DeriveKind(selfRid))

	login := &transaction.Transaction{ChallengeCode: "challenge", Answer: "answer"}
	assert.Equal(t, transaction.KindLogin, login.DeriveKind(selfRid))

	transfer := &transaction.Transaction{To: "address", Value: 1}
	assert.Equal(t, transaction.KindTransfer, transfer.DeriveKind(selfRid))
}

func TestDecodeList(t *testing.T) {

	single := []byte(`{"id":"sig","public_key":"pub","value":1,"fee":0}`)
	txs, err := transaction.DecodeList(single)
	assert.NoError(t, err)
	assert.Len(t, txs, 1)

	array := []byte(` [{"id":"a","public_key":"p","value":1,"fee":0},
		{"id":"b","public_key":"p","value":2,"fee":0}]`)
	txs, err = transaction.DecodeList(array)
	assert.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, "b", txs[1].ID)

	_, err = transaction.DecodeList([]byte("junk"))
	assert.Error(t, err)
}

// canonical message must be stable across re-serialisation
func TestCanonicalStability(t *testing.T) {

	tx, _, _ := makeSigned(t)

	data, err := json.Marshal(tx)
	assert.NoError(t, err)

	decoded, err := transaction.Decode(data)
	assert.NoError(t, err)

	assert.Equal(t, tx.CanonicalMessage(), decoded.CanonicalMessage())
	assert.NoError(t, decoded.Verify(newFakeState()))
}
