// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mine_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/block"
	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/difficulty"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/messagebus"
	"github.com/bulletin-network/bulletind/mine"
	"github.com/bulletin-network/bulletind/storage"
)

var testDirectory string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "mine-test")
	if nil != err {
		panic(err)
	}
	testDirectory = dir

	logConfig := logger.Configuration{
		Directory: dir,
		File:      "mine.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "error",
		},
	}
	if err := logger.Initialise(logConfig); nil != err {
		panic(fmt.Sprintf("logger initialisation failed: %s", err))
	}

	rc := m.Run()
	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

var nodePrivateKey []byte

func setup(t *testing.T) {
	err := storage.Initialise(filepath.Join(testDirectory, t.Name()+".leveldb"))
	if nil != err {
		t.Fatalf("storage initialise: %v", err)
	}
	if err := ledger.Initialise(); nil != err {
		t.Fatalf("ledger initialise: %v", err)
	}
	_, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	nodePrivateKey = privateKey
	if err := mine.Initialise(privateKey); nil != err {
		t.Fatalf("mine initialise: %v", err)
	}
	drainBus()
}

func teardown(t *testing.T) {
	mine.Finalise()
	ledger.Finalise()
	storage.Finalise()
	difficulty.Current.SetString(difficulty.DefaultTarget)
}

func drainBus() {
	for {
		select {
		case <-messagebus.Chan():
		default:
			return
		}
	}
}

// commit a recent block so the relaxed special-min path is off
func pinChainHead(t *testing.T) {
	publicKey, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	blk := block.Assemble(1, "", difficulty.DefaultTarget, true,
		uint64(time.Now().Unix()), fmt.Sprintf("%x", publicKey), nil)
	if err := blk.Seal(0, privateKey); nil != err {
		t.Fatalf("seal: %v", err)
	}
	if err := ledger.AppendBlock(blk); nil != err {
		t.Fatalf("append: %v", err)
	}
}

// the digest a miner computes for a work item and nonce
func minerDigest(w mine.Work, nonce uint64) string {
	return crypto.Hash(w.Header + strconv.FormatUint(nonce, 10))
}

func TestDisjointNonceBatches(t *testing.T) {
	setup(t)
	defer teardown(t)

	workers := 20
	results := make([][2]uint64, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i += 1 {
		go func(n int) {
			defer wg.Done()
			w, err := mine.GetWork()
			if nil != err {
				t.Errorf("work: %v", err)
				return
			}
			results[n] = [2]uint64{w.NonceStart, w.NonceEnd}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i += 1 {
		assert.True(t, results[i][0] <= results[i][1])
		for j := i + 1; j < workers; j += 1 {
			overlap := results[i][0] <= results[j][1] && results[j][0] <= results[i][1]
			assert.False(t, overlap, "batches %v and %v overlap", results[i], results[j])
		}
	}
}

func TestSubmitWrongHashRejected(t *testing.T) {
	setup(t)
	defer teardown(t)

	w, err := mine.GetWork()
	assert.NoError(t, err)

	win, err := mine.Submit("miner-one", minerDigest(w, 1)+"00", 1)
	assert.False(t, win)
	assert.Equal(t, fault.ErrInvalidBlockHash, err)

	shares, err := mine.SharesFor("miner-one")
	assert.NoError(t, err)
	assert.Len(t, shares, 0, "rejected submission must not mutate pool state")
}

func TestShareRecordedWithoutBroadcast(t *testing.T) {
	setup(t)
	defer teardown(t)

	pinChainHead(t)
	// an unreachable target: every share is below full difficulty
	difficulty.Current.SetString("0000000000000000000000000000000000000000000000000000000000000001")
	assert.NoError(t, mine.Refresh())
	drainBus()

	w, err := mine.GetWork()
	assert.NoError(t, err)
	assert.False(t, w.SpecialMin)

	nonce := w.NonceStart
	win, err := mine.Submit("miner-one", minerDigest(w, nonce), nonce)
	assert.NoError(t, err)
	assert.False(t, win)

	shares, err := mine.SharesFor("miner-one")
	assert.NoError(t, err)
	assert.Len(t, shares, 1)
	assert.Equal(t, nonce, shares[0].Nonce)

	select {
	case m := <-messagebus.Chan():
		t.Fatalf("unexpected broadcast: %q", m.Command)
	default:
	}
}

func TestShareUpsertIdempotent(t *testing.T) {
	setup(t)
	defer teardown(t)

	pinChainHead(t)
	difficulty.Current.SetString("0000000000000000000000000000000000000000000000000000000000000001")
	assert.NoError(t, mine.Refresh())

	w, err := mine.GetWork()
	assert.NoError(t, err)
	nonce := w.NonceStart
	hash := minerDigest(w, nonce)

	for i := 0; i < 3; i += 1 {
		_, err := mine.Submit("miner-one", hash, nonce)
		assert.NoError(t, err)
	}

	shares, err := mine.SharesFor("miner-one")
	assert.NoError(t, err)
	assert.Len(t, shares, 1, "resubmission overwrites, never duplicates")
}

func TestWinBroadcastsExactlyOnce(t *testing.T) {
	setup(t)
	defer teardown(t)

	// empty chain: the template runs with special min, any valid share wins
	w, err := mine.GetWork()
	assert.NoError(t, err)
	assert.True(t, w.SpecialMin)

	nonce := w.NonceStart
	hash := minerDigest(w, nonce)

	win, err := mine.Submit("miner-one", hash, nonce)
	assert.NoError(t, err)
	assert.True(t, win)

	select {
	case m := <-messagebus.Chan():
		assert.Equal(t, "block", m.Command)
	case <-time.After(time.Second):
		t.Fatal("winning block was not broadcast")
	}

	last, err := ledger.LastBlock()
	assert.NoError(t, err)
	assert.Equal(t, hash, last.Hash)
}

func TestLatestShareExplorer(t *testing.T) {
	setup(t)
	defer teardown(t)

	pinChainHead(t)
	difficulty.Current.SetString("0000000000000000000000000000000000000000000000000000000000000001")
	assert.NoError(t, mine.Refresh())

	w, err := mine.GetWork()
	assert.NoError(t, err)
	nonce := w.NonceStart
	_, err = mine.Submit("miner-one", minerDigest(w, nonce), nonce)
	assert.NoError(t, err)

	share, err := mine.LatestShare("miner-one", 2)
	assert.NoError(t, err)
	assert.Equal(t, "miner-one", share.Address)
	assert.Equal(t, uint64(2), share.Index)

	_, err = mine.LatestShare("miner-one", 9)
	assert.Equal(t, fault.ErrShareNotFound, err)

	_, err = mine.LatestShare("nobody", 2)
	assert.Equal(t, fault.ErrShareNotFound, err)
}
