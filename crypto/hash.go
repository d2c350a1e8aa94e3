// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package crypto - the primitive operations every other package builds
// on: hashing, deterministic signing, the symmetric payload cipher and
// Diffie-Hellman shared secrets
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash - hex encoded sha256 of the concatenated arguments
func Hash(items ...string) string {
	h := sha256.New()
	for _, item := range items {
		h.Write([]byte(item))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashBytes - raw sha256 of a byte slice
func HashBytes(data []byte) []byte {
	digest := sha256.Sum256(data)
	return digest[:]
}
