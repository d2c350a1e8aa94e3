// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - the key-value pools backing the ledger
//
//  ***** Data Structure *****
//
//  Pool           Prefix  Key                                Value
//  |___ Blocks         B  8 byte big endian block number     packed block
//  |___ Transactions   T  transaction hash                   8 byte block number ‖ JSON transaction
//  |___ Pending        P  transaction hash                   JSON transaction
//  |___ TxIds          I  transaction id                     transaction hash
//  |___ RidIndex       R  rid ‖ 0x00 ‖ hash                  transaction hash
//  |___ PairIndex      Q  requester/requested rid ‖ 0x00 ‖ hash  transaction hash
//  |___ Unspent        U  address ‖ 0x00 ‖ hash              8 byte big endian value
//  |___ Spent          S  transaction id                     hash of the spending transaction
//  |___ Shares         F  address ‖ 0x00 ‖ number ‖ 0x00 ‖ hash  JSON share
//  |___ Rejects        X  transaction hash                   JSON reject record
//
// all pools live in a single leveldb database distinguished by a one
// byte key prefix
package storage
