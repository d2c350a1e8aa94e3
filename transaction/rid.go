// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"strings"

	"github.com/bulletin-network/bulletind/crypto"
)

// NewRid - the relationship identifier for a pair of bulletin secrets
//
// the pair is sorted case-insensitively before hashing, so both parties
// derive an identical value without ever exchanging it
func NewRid(a string, b string) string {
	first, second := a, b
	if strings.ToLower(second) < strings.ToLower(first) {
		first, second = second, first
	}
	return crypto.Hash(first, second)
}
