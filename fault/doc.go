// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fault - error instances
//
// Provides a single instance of each error to allow easy comparison
// without having to resort to partial string matches.
//
// The RetryError class marks conditions that are not terminal: a
// transaction referencing a not-yet-seen input is parked and retried,
// never rejected outright.
package fault
