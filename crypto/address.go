// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto

import (
	"bytes"
	"encoding/hex"

	"github.com/mr-tron/base58"

	"github.com/bulletin-network/bulletind/fault"
)

// address version prefix
const (
	addressVersion = 0x00
)

// Address - derive the wallet address for a hex encoded public key
//
// version byte + first 20 bytes of a double sha256, with a 4 byte
// checksum, base58 encoded
func Address(publicKeyHex string) (string, error) {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if nil != err || 0 == len(publicKey) {
		return "", fault.ErrInvalidPublicKey
	}

	digest := HashBytes(HashBytes(publicKey))

	payload := make([]byte, 0, 25)
	payload = append(payload, addressVersion)
	payload = append(payload, digest[:20]...)

	checksum := HashBytes(HashBytes(payload))
	payload = append(payload, checksum[:4]...)

	return base58.Encode(payload), nil
}

// ValidateAddress - verify the checksum of a base58 address
func ValidateAddress(address string) error {
	payload, err := base58.Decode(address)
	if nil != err || 25 != len(payload) {
		return fault.ErrInvalidStructure
	}
	checksum := HashBytes(HashBytes(payload[:21]))
	if !bytes.Equal(payload[21:], checksum[:4]) {
		return fault.ErrInvalidStructure
	}
	return nil
}
