// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/transaction"
)

// decoded identity of the acting user
type keyData struct {
	privateKey     []byte
	publicKeyHex   string
	bulletinSecret string
}

func decodeKey(privateKeyHex string) (*keyData, error) {
	privateKey, err := hex.DecodeString(privateKeyHex)
	if nil != err {
		return nil, err
	}
	if 64 != len(privateKey) {
		return nil, fault.ErrInvalidKeyLength
	}
	publicKeyHex, err := crypto.PublicKeyHex(privateKey)
	if nil != err {
		return nil, err
	}
	bulletinSecret, err := crypto.BulletinSecret(privateKey)
	if nil != err {
		return nil, err
	}
	return &keyData{
		privateKey:     privateKey,
		publicKeyHex:   publicKeyHex,
		bulletinSecret: bulletinSecret,
	}, nil
}

func makeInputs(ids []string) []transaction.Input {
	inputs := []transaction.Input{}
	for _, id := range ids {
		if "" != id {
			inputs = append(inputs, transaction.Input{ID: id})
		}
	}
	return inputs
}

// a relationship request; the reciprocal accept is the same record
// built by the other party
func makeRelationshipRequest(key *keyData, theirSecret string, nodeSecret string, value uint64, fee uint64, inputIds []string) (*transaction.Transaction, error) {

	dhPublicKey, _, err := crypto.GenerateDHKeypair()
	if nil != err {
		return nil, err
	}

	// the body is readable only by the author; the counterparty
	// secret inside it is what later joins the two sides up
	body := &transaction.Relationship{
		DHPublicKey:    dhPublicKey,
		BulletinSecret: theirSecret,
	}
	tx := &transaction.Transaction{
		Rid:          transaction.NewRid(key.bulletinSecret, theirSecret),
		PublicKey:    key.publicKeyHex,
		Value:        value,
		Fee:          fee,
		DHPublicKey:  dhPublicKey,
		RequesterRid: transaction.NewRid(key.bulletinSecret, nodeSecret),
		RequestedRid: transaction.NewRid(theirSecret, nodeSecret),
		Inputs:       makeInputs(inputIds),
	}
	if err := encryptBody(tx, key.bulletinSecret, body); nil != err {
		return nil, err
	}
	if err := tx.Sign(key.privateKey); nil != err {
		return nil, err
	}
	return tx, nil
}

func makePost(key *keyData, text string, value uint64, fee uint64, inputIds []string) (*transaction.Transaction, error) {

	body := &transaction.Relationship{
		PostText: text,
	}
	tx := &transaction.Transaction{
		PublicKey: key.publicKeyHex,
		Value:     value,
		Fee:       fee,
		Inputs:    makeInputs(inputIds),
	}
	if err := encryptBody(tx, key.bulletinSecret, body); nil != err {
		return nil, err
	}
	if err := tx.Sign(key.privateKey); nil != err {
		return nil, err
	}
	return tx, nil
}

// the body is sealed under the recipient's bulletin secret so only
// the counterparty can open it
func makeMessage(key *keyData, theirSecret string, text string, value uint64, fee uint64, inputIds []string) (*transaction.Transaction, error) {

	body := &transaction.Relationship{
		MessageText: text,
	}
	tx := &transaction.Transaction{
		Rid:       transaction.NewRid(key.bulletinSecret, theirSecret),
		PublicKey: key.publicKeyHex,
		Value:     value,
		Fee:       fee,
		Inputs:    makeInputs(inputIds),
	}
	if err := encryptBody(tx, theirSecret, body); nil != err {
		return nil, err
	}
	if err := tx.Sign(key.privateKey); nil != err {
		return nil, err
	}
	return tx, nil
}

func makeTransfer(key *keyData, to string, value uint64, fee uint64, inputIds []string) (*transaction.Transaction, error) {

	if err := crypto.ValidateAddress(to); nil != err {
		return nil, err
	}
	tx := &transaction.Transaction{
		PublicKey: key.publicKeyHex,
		Value:     value,
		Fee:       fee,
		To:        to,
		Inputs:    makeInputs(inputIds),
	}
	if err := tx.Sign(key.privateKey); nil != err {
		return nil, err
	}
	return tx, nil
}

func makeLogin(key *keyData, nodeSecret string, challengeCode string) (*transaction.Transaction, error) {

	answer, err := crypto.Sign(key.privateKey, []byte(challengeCode))
	if nil != err {
		return nil, err
	}
	tx := &transaction.Transaction{
		Rid:           transaction.NewRid(key.bulletinSecret, nodeSecret),
		PublicKey:     key.publicKeyHex,
		ChallengeCode: challengeCode,
		Answer:        answer,
	}
	if err := tx.Sign(key.privateKey); nil != err {
		return nil, err
	}
	return tx, nil
}

func encryptBody(tx *transaction.Transaction, secret string, body *transaction.Relationship) error {
	plain := &transaction.Transaction{}
	if err := plain.SetPlainRelationship(body); nil != err {
		return err
	}
	blob, err := crypto.Encrypt(secret, plain.Relationship)
	if nil != err {
		return err
	}
	return tx.SetEncryptedRelationship(blob)
}
