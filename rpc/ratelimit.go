// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/bulletin-network/bulletind/fault"
)

// reserve count tokens and wait out the imposed delay
func waitReservation(limiter *rate.Limiter, count int) error {
	r := limiter.ReserveN(time.Now(), count)
	if !r.OK() {
		return fault.ErrRateLimiting
	}
	time.Sleep(r.Delay())
	return nil
}

// limiting for a single request
func rateLimit(limiter *rate.Limiter) error {
	return waitReservation(limiter, 1)
}

// limiting for a batched request, charged by batch size
func rateLimitN(limiter *rate.Limiter, count int, maximumCount int) error {

	// an invalid count still costs one request before it is refused
	if count <= 0 || count > maximumCount {
		if err := waitReservation(limiter, 1); nil != err {
			return err
		}
		return fault.ErrInvalidCount
	}

	return waitReservation(limiter, count)
}
