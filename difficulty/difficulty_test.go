// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package difficulty_test

import (
	"math/big"
	"testing"

	"github.com/bulletin-network/bulletind/difficulty"
)

func TestSetString(t *testing.T) {

	d := difficulty.New()

	err := d.SetString("00000000ffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	if nil != err {
		t.Fatalf("set error: %v", err)
	}
	if "00000000ffffffffffffffffffffffffffffffffffffffffffffffffffffffff" != d.String() {
		t.Fatalf("round trip: %s", d.String())
	}

	err = d.SetString("not-hex")
	if nil == err {
		t.Fatal("expected error for invalid hex")
	}
}

func TestMeetsTarget(t *testing.T) {

	d := difficulty.New()
	err := d.SetString("00000000000000000000000000000000000000000000000000000000000000ff")
	if nil != err {
		t.Fatalf("set error: %v", err)
	}

	if !d.MeetsTarget(big.NewInt(0xff)) {
		t.Error("equal digest must meet target")
	}
	if !d.MeetsTarget(big.NewInt(1)) {
		t.Error("low digest must meet target")
	}
	if d.MeetsTarget(big.NewInt(0x100)) {
		t.Error("high digest must not meet target")
	}
}
