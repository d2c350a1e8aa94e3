// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - the ledger transaction record, its canonical
// encoding and its verification rules
package transaction

import (
	"encoding/json"
	"strconv"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
)

// Input - reference to a prior transaction being spent
type Input struct {
	ID string `json:"id"`
}

// Relationship - the decoded relationship payload
//
// request and accept bodies carry the key agreement fields, posts and
// messages carry text; which fields are present decides the kind
type Relationship struct {
	DHPublicKey    string `json:"dh_public_key,omitempty"`
	SharedSecret   string `json:"shared_secret,omitempty"`
	BulletinSecret string `json:"bulletin_secret,omitempty"`
	PostText       string `json:"postText,omitempty"`
	MessageText    string `json:"messageText,omitempty"`
}

// Transaction - the canonical wire record
//
// Relationship is raw JSON: either a string holding an encrypted blob
// or a plain object; use EncryptedRelationship / PlainRelationship
type Transaction struct {
	Rid           string          `json:"rid,omitempty"`
	ID            string          `json:"id"`
	Relationship  json.RawMessage `json:"relationship,omitempty"`
	PublicKey     string          `json:"public_key"`
	Value         uint64          `json:"value"`
	Fee           uint64          `json:"fee"`
	DHPublicKey   string          `json:"dh_public_key,omitempty"`
	RequesterRid  string          `json:"requester_rid,omitempty"`
	RequestedRid  string          `json:"requested_rid,omitempty"`
	ChallengeCode string          `json:"challenge_code,omitempty"`
	Answer        string          `json:"answer,omitempty"`
	Hash          string          `json:"hash,omitempty"`
	PostText      string          `json:"post_text,omitempty"`
	To            string          `json:"to,omitempty"`
	Inputs        []Input         `json:"inputs,omitempty"`
}

// EncryptedRelationship - the relationship field as an opaque blob
//
// second value is false when the field is absent or a plain object
func (tx *Transaction) EncryptedRelationship() (string, bool) {
	if 0 == len(tx.Relationship) {
		return "", false
	}
	var blob string
	if err := json.Unmarshal(tx.Relationship, &blob); nil != err {
		return "", false
	}
	return blob, true
}

// PlainRelationship - the relationship field as a decoded object
func (tx *Transaction) PlainRelationship() (*Relationship, bool) {
	if 0 == len(tx.Relationship) {
		return nil, false
	}
	var r Relationship
	if err := json.Unmarshal(tx.Relationship, &r); nil != err {
		return nil, false
	}
	if '{' != tx.Relationship[0] {
		return nil, false
	}
	return &r, true
}

// SetPlainRelationship - store a decoded object back into the record
func (tx *Transaction) SetPlainRelationship(r *Relationship) error {
	data, err := json.Marshal(r)
	if nil != err {
		return err
	}
	tx.Relationship = data
	return nil
}

// SetEncryptedRelationship - store an opaque blob into the record
func (tx *Transaction) SetEncryptedRelationship(blob string) error {
	data, err := json.Marshal(blob)
	if nil != err {
		return err
	}
	tx.Relationship = data
	return nil
}

// relationshipString - the exact text that takes part in signing
//
// for an encrypted blob this is the blob itself; for a plain object it
// is the compact encoding with the struct's fixed field order, so the
// value is stable across re-serialisation
func (tx *Transaction) relationshipString() string {
	if blob, ok := tx.EncryptedRelationship(); ok {
		return blob
	}
	if r, ok := tx.PlainRelationship(); ok {
		data, err := json.Marshal(r)
		if nil == err {
			return string(data)
		}
	}
	return ""
}

// CanonicalMessage - deterministic encoding used for signing and hashing
//
// field order and integer formatting are fixed by contract
func (tx *Transaction) CanonicalMessage() []byte {
	message := tx.Rid +
		tx.relationshipString() +
		strconv.FormatUint(tx.Value, 10) +
		strconv.FormatUint(tx.Fee, 10)
	return []byte(message)
}

// AssignHash - compute and store the transaction hash
func (tx *Transaction) AssignHash() {
	tx.Hash = crypto.Hash(string(tx.CanonicalMessage()))
}

// Sign - compute id over the canonical message and assign the hash
func (tx *Transaction) Sign(privateKey []byte) error {
	signature, err := crypto.Sign(privateKey, tx.CanonicalMessage())
	if nil != err {
		return err
	}
	tx.ID = signature
	tx.AssignHash()
	return nil
}

// Decode - parse a single wire object
func Decode(data []byte) (*Transaction, error) {
	var tx Transaction
	if err := json.Unmarshal(data, &tx); nil != err {
		return nil, fault.ErrInvalidStructure
	}
	return &tx, nil
}

// DecodeList - parse a submission: a single object or an array of objects
func DecodeList(data []byte) ([]*Transaction, error) {
	trimmed := data
	for len(trimmed) > 0 &&
		(' ' == trimmed[0] || '\t' == trimmed[0] || '\n' == trimmed[0] || '\r' == trimmed[0]) {
		trimmed = trimmed[1:]
	}
	if 0 == len(trimmed) {
		return nil, fault.ErrInvalidStructure
	}

	if '[' == trimmed[0] {
		var txs []*Transaction
		if err := json.Unmarshal(trimmed, &txs); nil != err {
			return nil, fault.ErrInvalidStructure
		}
		return txs, nil
	}

	tx, err := Decode(trimmed)
	if nil != err {
		return nil, err
	}
	return []*Transaction{tx}, nil
}
