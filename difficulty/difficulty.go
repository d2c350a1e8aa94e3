// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/bulletin-network/bulletind/fault"
)

// Difficulty - a proof-of-work ceiling: a block digest is acceptable
// when its value does not exceed the target
type Difficulty struct {
	sync.RWMutex

	big big.Int // master value, 256 bit ceiling
}

// the shipped ceiling gives a near-trivial search, real deployments set
// their own in the configuration file
const DefaultTarget = "00ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

// Current - the node-wide difficulty
var Current = &Difficulty{}

// on startup
func init() {
	err := Current.SetString(DefaultTarget)
	if nil != err {
		panic("difficulty: invalid default target")
	}
}

// New - create a difficulty with the default value
func New() *Difficulty {
	d := new(Difficulty)
	d.SetString(DefaultTarget)
	return d
}

// BigInt - get target as a big.Int copy
func (difficulty *Difficulty) BigInt() *big.Int {
	difficulty.RLock()
	defer difficulty.RUnlock()
	d := new(big.Int)
	return d.Set(&difficulty.big)
}

// String - get target as a 64 digit hex string
func (difficulty *Difficulty) String() string {
	difficulty.RLock()
	defer difficulty.RUnlock()
	return fmt.Sprintf("%064x", &difficulty.big)
}

// SetString - set target from a hex string
func (difficulty *Difficulty) SetString(s string) error {
	d, ok := new(big.Int).SetString(s, 16)
	if !ok || d.Sign() < 0 || d.BitLen() > 256 {
		return fault.ErrInvalidTarget
	}
	difficulty.Lock()
	difficulty.big.Set(d)
	difficulty.Unlock()
	return nil
}

// SetBigInt - set target from a big.Int
func (difficulty *Difficulty) SetBigInt(d *big.Int) error {
	if nil == d || d.Sign() < 0 || d.BitLen() > 256 {
		return fault.ErrInvalidTarget
	}
	difficulty.Lock()
	difficulty.big.Set(d)
	difficulty.Unlock()
	return nil
}

// MeetsTarget - check a digest value against the ceiling
func (difficulty *Difficulty) MeetsTarget(digest *big.Int) bool {
	difficulty.RLock()
	defer difficulty.RUnlock()
	return digest.Cmp(&difficulty.big) <= 0
}
