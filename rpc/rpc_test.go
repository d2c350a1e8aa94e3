// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc_test

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/graph"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/mine"
	"github.com/bulletin-network/bulletind/mode"
	"github.com/bulletin-network/bulletind/push"
	"github.com/bulletin-network/bulletind/reservoir"
	"github.com/bulletin-network/bulletind/rpc"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

var testDirectory string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "rpc-test")
	if nil != err {
		panic(err)
	}
	testDirectory = dir

	logConfig := logger.Configuration{
		Directory: dir,
		File:      "rpc.log",
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

func setup(t *testing.T) {
	err := storage.Initialise(filepath.Join(testDirectory, t.Name()+".leveldb"))
	if nil != err {
		t.Fatalf("storage initialise: %v", err)
	}
	if err := mode.Initialise(true); nil != err {
		t.Fatalf("mode initialise: %v", err)
	}
	if err := ledger.Initialise(); nil != err {
		t.Fatalf("ledger initialise: %v", err)
	}
	if err := push.Initialise(nil); nil != err {
		t.Fatalf("push initialise: %v", err)
	}
	if err := reservoir.Initialise(); nil != err {
		t.Fatalf("reservoir initialise: %v", err)
	}
	_, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	if err := graph.Initialise(privateKey); nil != err {
		t.Fatalf("graph initialise: %v", err)
	}
	if err := mine.Initialise(privateKey); nil != err {
		t.Fatalf("mine initialise: %v", err)
	}
}

func teardown(t *testing.T) {
	mine.Finalise()
	graph.Finalise()
	reservoir.Finalise()
	push.Finalise()
	ledger.Finalise()
	mode.Finalise()
	storage.Finalise()
}

func signedMessage(t *testing.T) *transaction.Transaction {
	publicKey, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	tx := &transaction.Transaction{
		PublicKey: fmt.Sprintf("%x", publicKey),
		Rid:       transaction.NewRid("one", "two"),
	}
	rel := &transaction.Relationship{MessageText: "hello"}
	if err := tx.SetPlainRelationship(rel); nil != err {
		t.Fatalf("relationship: %v", err)
	}
	if err := tx.Sign(privateKey); nil != err {
		t.Fatalf("sign: %v", err)
	}
	return tx
}

func TestTransactionSubmitBatch(t *testing.T) {
	setup(t)
	defer teardown(t)

	good := signedMessage(t)
	bad := signedMessage(t)
	bad.ID = bad.ID[:len(bad.ID)-2] + "00"
	bad.Hash = ""

	payload, err := json.Marshal([]*transaction.Transaction{good, bad})
	assert.NoError(t, err)

	service := rpc.NewTransaction(logger.New("test-transaction"))
	reply := rpc.SubmitReply{}
	err = service.Submit(&rpc.SubmitArguments{Payload: payload}, &reply)
	assert.NoError(t, err)
	assert.Len(t, reply.Transactions, 2)
	assert.Equal(t, "accepted", reply.Transactions[0].Status)
	assert.Equal(t, "rejected", reply.Transactions[1].Status)
	assert.NotEmpty(t, reply.Transactions[1].Reason)

	byRid := rpc.ByRidReply{}
	err = service.ByRid(&rpc.ByRidArguments{Rid: good.Rid}, &byRid)
	assert.NoError(t, err)
	assert.Len(t, byRid.Transactions, 1)
}

func TestSubmitSingleObject(t *testing.T) {
	setup(t)
	defer teardown(t)

	good := signedMessage(t)
	payload, err := json.Marshal(good)
	assert.NoError(t, err)

	service := rpc.NewTransaction(logger.New("test-transaction"))
	reply := rpc.SubmitReply{}
	err = service.Submit(&rpc.SubmitArguments{Payload: payload}, &reply)
	assert.NoError(t, err)
	assert.Len(t, reply.Transactions, 1)
	assert.Equal(t, "accepted", reply.Transactions[0].Status)
}

func TestWalletGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	publicKey, _, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	address, err := crypto.Address(fmt.Sprintf("%x", publicKey))
	assert.NoError(t, err)

	service := rpc.NewWallet(logger.New("test-wallet"))
	reply := rpc.WalletReply{}
	err = service.Get(&rpc.WalletArguments{Address: address}, &reply)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), reply.Balance)
	assert.Len(t, reply.Unspent, 0)

	err = service.Get(&rpc.WalletArguments{Address: "not-an-address"}, &reply)
	assert.Error(t, err)
}

func TestPoolWorkAndSubmit(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewPool(logger.New("test-pool"))

	work := mine.Work{}
	err := service.Work(&rpc.WorkArguments{}, &work)
	assert.NoError(t, err)
	assert.NotEmpty(t, work.Header)
	assert.True(t, work.NonceStart <= work.NonceEnd)

	reply := rpc.PoolSubmitReply{}
	err = service.Submit(&rpc.PoolSubmitArguments{
		Address: "miner-one",
		Hash:    "0000000000000000000000000000000000000000000000000000000000000000",
		Nonce:   work.NonceStart,
	}, &reply)
	assert.NoError(t, err)
	assert.Equal(t, "", reply.Status, "wrong hash reports empty status")
}

func TestGraphGet(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewGraph(logger.New("test-graph"))
	view := graph.View{}
	err := service.Get(&rpc.GraphArguments{BulletinSecret: "someone"}, &view)
	assert.NoError(t, err)
	assert.NotEmpty(t, view.Rid)
}

func TestNodeInfo(t *testing.T) {
	setup(t)
	defer teardown(t)

	service := rpc.NewNode(logger.New("test-node"), time.Now(), "1.0.0")
	reply := rpc.InfoReply{}
	err := service.Info(&rpc.InfoArguments{}, &reply)
	assert.NoError(t, err)
	assert.Equal(t, "1.0.0", reply.Version)
	assert.Equal(t, uint64(0), reply.BlockHeight)
}
