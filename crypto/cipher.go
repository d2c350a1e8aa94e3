// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bulletin-network/bulletind/fault"
)

const (
	nonceSize = 24
)

// Encrypt - seal a payload under a shared secret string
//
// output is hex(nonce ‖ box) so it can travel inside a JSON field
func Encrypt(secret string, plaintext []byte) (string, error) {
	var key [32]byte
	copy(key[:], HashBytes([]byte(secret)))

	var nonce [nonceSize]byte
	_, err := rand.Read(nonce[:])
	if nil != err {
		return "", err
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, &key)
	return hex.EncodeToString(sealed), nil
}

// Decrypt - open a payload sealed with Encrypt
//
// a failure is the normal case during graph traversal: most payloads
// are not addressed to the caller
func Decrypt(secret string, ciphertextHex string) ([]byte, error) {
	sealed, err := hex.DecodeString(ciphertextHex)
	if nil != err || len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fault.ErrDecryptionFailed
	}

	key := sha256.Sum256([]byte(secret))

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &key)
	if !ok {
		return nil, fault.ErrDecryptionFailed
	}
	return plaintext, nil
}
