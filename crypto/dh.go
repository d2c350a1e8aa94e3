// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/curve25519"

	"github.com/bulletin-network/bulletind/fault"
)

// GenerateDHKeypair - create a curve25519 pair for relationship key agreement
func GenerateDHKeypair() (publicKeyHex string, privateKey []byte, err error) {
	privateKey = make([]byte, 32)
	_, err = rand.Read(privateKey)
	if nil != err {
		return "", nil, err
	}

	var private, public [32]byte
	copy(private[:], privateKey)
	curve25519.ScalarBaseMult(&public, &private)

	return hex.EncodeToString(public[:]), privateKey, nil
}

// SharedSecret - derive the symmetric secret for a relationship
//
// both parties obtain the same value from their own private key and the
// counterparty's dh_public_key
func SharedSecret(privateKey []byte, publicKeyHex string) (string, error) {
	if 32 != len(privateKey) {
		return "", fault.ErrInvalidPrivateKey
	}
	publicKey, err := hex.DecodeString(publicKeyHex)
	if nil != err || 32 != len(publicKey) {
		return "", fault.ErrInvalidDHPublicKey
	}

	var private, public, shared [32]byte
	copy(private[:], privateKey)
	copy(public[:], publicKey)
	curve25519.ScalarMult(&shared, &private, &public)

	return Hash(hex.EncodeToString(shared[:])), nil
}
