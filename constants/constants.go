// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package constants - various time and size limits shared across packages
package constants

import (
	"time"
)

const (
	// BroadcastTimeout - per-peer limit on a push attempt
	BroadcastTimeout = 1 * time.Second

	// TemplateRefreshInterval - poll for a chain change even when no
	// block event arrived
	TemplateRefreshInterval = 30 * time.Second

	// ReservoirRetryInterval - re-verify transactions parked on a
	// missing input
	ReservoirRetryInterval = 10 * time.Second

	// ReservoirLifetime - discard parked transactions whose inputs
	// never arrived
	ReservoirLifetime = 72 * time.Hour

	// NonceBatchSize - nonce values handed to a pool worker per request
	NonceBatchSize = 100000

	// PeerAuthorisationLifetime - expiry of the transient peer to rid map
	PeerAuthorisationLifetime = 30 * time.Minute
)
