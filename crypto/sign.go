// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/ed25519"

	"github.com/bulletin-network/bulletind/fault"
)

// GenerateKeypair - create a new ed25519 key pair
func GenerateKeypair() (publicKey []byte, privateKey []byte, err error) {
	publicKey, privateKey, err = ed25519.GenerateKey(rand.Reader)
	return
}

// Sign - hex encoded ed25519 signature over a message
func Sign(privateKey []byte, message []byte) (string, error) {
	if ed25519.PrivateKeySize != len(privateKey) {
		return "", fault.ErrInvalidPrivateKey
	}
	signature := ed25519.Sign(privateKey, message)
	return hex.EncodeToString(signature), nil
}

// Verify - check a hex encoded signature against a hex encoded public key
func Verify(publicKeyHex string, message []byte, signatureHex string) error {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if nil != err || ed25519.PublicKeySize != len(publicKey) {
		return fault.ErrInvalidPublicKey
	}
	signature, err := hex.DecodeString(signatureHex)
	if nil != err || ed25519.SignatureSize != len(signature) {
		return fault.ErrInvalidSignature
	}
	if !ed25519.Verify(publicKey, message, signature) {
		return fault.ErrInvalidSignature
	}
	return nil
}

// BulletinSecret - a party's long-lived public identity value
//
// ed25519 signatures are deterministic, so hashing the signature over
// the holder's own public key gives a stable value that only the key
// holder can produce but that is safe to publish
func BulletinSecret(privateKey []byte) (string, error) {
	if ed25519.PrivateKeySize != len(privateKey) {
		return "", fault.ErrInvalidPrivateKey
	}
	publicKey := privateKey[ed25519.PublicKeySize:]
	signature := ed25519.Sign(privateKey, publicKey)
	return Hash(hex.EncodeToString(signature)), nil
}

// PublicKeyHex - extract the hex public key from a private key
func PublicKeyHex(privateKey []byte) (string, error) {
	if ed25519.PrivateKeySize != len(privateKey) {
		return "", fault.ErrInvalidPrivateKey
	}
	return hex.EncodeToString(privateKey[ed25519.PublicKeySize:]), nil
}
