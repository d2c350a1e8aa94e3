// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package messagebus - a one-way queue between the acceptance paths and
// the peer broadcaster
//
// Accepting a transaction or detecting a winning block only enqueues a
// message; the broadcaster drains the queue on its own goroutine, so the
// caller never waits on peer delivery.
package messagebus
