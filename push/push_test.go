// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package push_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/push"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

var testDirectory string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "push-test")
	if nil != err {
		panic(err)
	}
	testDirectory = dir

	logConfig := logger.Configuration{
		Directory: dir,
		File:      "push.log",
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

// records every delivery
type recordingSink struct {
	delivered []string
}

func (s *recordingSink) Deliver(rid string, kind transaction.Kind, tx *transaction.Transaction) error {
	s.delivered = append(s.delivered, rid)
	return nil
}

func setup(t *testing.T, sink push.Sink) {
	err := storage.Initialise(filepath.Join(testDirectory, t.Name()+".leveldb"))
	if nil != err {
		t.Fatalf("storage initialise: %v", err)
	}
	if err := ledger.Initialise(); nil != err {
		t.Fatalf("ledger initialise: %v", err)
	}
	if err := push.Initialise(sink); nil != err {
		t.Fatalf("push initialise: %v", err)
	}
}

func teardown(t *testing.T) {
	push.Finalise()
	ledger.Finalise()
	storage.Finalise()
}

func signedEdge(t *testing.T, rid string, requesterRid string, requestedRid string) *transaction.Transaction {
	publicKey, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	tx := &transaction.Transaction{
		PublicKey:    fmt.Sprintf("%x", publicKey),
		Rid:          rid,
		DHPublicKey:  "dh-key",
		RequesterRid: requesterRid,
		RequestedRid: requestedRid,
	}
	rel := &transaction.Relationship{BulletinSecret: "their-secret"}
	if err := tx.SetPlainRelationship(rel); nil != err {
		t.Fatalf("relationship: %v", err)
	}
	if err := tx.Sign(privateKey); nil != err {
		t.Fatalf("sign: %v", err)
	}
	return tx
}

func TestRequestNotifiesRequested(t *testing.T) {
	sink := &recordingSink{}
	setup(t, sink)
	defer teardown(t)

	tx := signedEdge(t, "pair-rid", "requester", "requested")
	kind, recipients := push.Decide(tx)
	assert.Equal(t, transaction.KindFriendRequest, kind)
	assert.Equal(t, []string{"requested"}, recipients)

	push.Notify(tx)
	assert.Equal(t, []string{"requested"}, sink.delivered)
}

func TestSelfLoopNotifiesNobody(t *testing.T) {
	sink := &recordingSink{}
	setup(t, sink)
	defer teardown(t)

	tx := signedEdge(t, "pair-rid", "same", "same")
	_, recipients := push.Decide(tx)
	assert.Empty(t, recipients)
}

func TestAcceptNotifiesRequester(t *testing.T) {
	sink := &recordingSink{}
	setup(t, sink)
	defer teardown(t)

	request := signedEdge(t, "pair-rid", "requester", "requested")
	err := ledger.AppendPending(request)
	assert.NoError(t, err)

	accept := signedEdge(t, "pair-rid", "requester", "requested")
	kind, recipients := push.Decide(accept)
	assert.Equal(t, transaction.KindFriendAccept, kind)
	assert.Equal(t, []string{"requester"}, recipients)
}

func TestPostNotifiesEdgeCounterparties(t *testing.T) {
	sink := &recordingSink{}
	setup(t, sink)
	defer teardown(t)

	edge := signedEdge(t, "pair-rid", "author-rid", "friend-rid")
	err := ledger.AppendPending(edge)
	assert.NoError(t, err)

	post := &transaction.Transaction{
		PublicKey: edge.PublicKey,
	}
	rel := &transaction.Relationship{PostText: "hello"}
	assert.NoError(t, post.SetPlainRelationship(rel))
	post.AssignHash()

	kind, recipients := push.Decide(post)
	assert.Equal(t, transaction.KindPost, kind)
	assert.ElementsMatch(t, []string{"author-rid", "friend-rid"}, recipients)
}

func TestMessageNotifiesOtherEndpoints(t *testing.T) {
	sink := &recordingSink{}
	setup(t, sink)
	defer teardown(t)

	theirs := signedEdge(t, "pair-rid", "their-rid", "my-rid")
	assert.NoError(t, ledger.AppendPending(theirs))

	publicKey, privateKey, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	message := &transaction.Transaction{
		PublicKey:    fmt.Sprintf("%x", publicKey),
		Rid:          "pair-rid",
		RequesterRid: "my-rid",
	}
	rel := &transaction.Relationship{MessageText: "hi"}
	assert.NoError(t, message.SetPlainRelationship(rel))
	assert.NoError(t, message.Sign(privateKey))

	kind, recipients := push.Decide(message)
	assert.Equal(t, transaction.KindMessage, kind)
	assert.Equal(t, []string{"their-rid"}, recipients)
}
