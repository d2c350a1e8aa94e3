// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package graph_test

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/graph"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/storage"
	"github.com/bulletin-network/bulletind/transaction"
)

var testDirectory string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "graph-test")
	if nil != err {
		panic(err)
	}
	testDirectory = dir

	logConfig := logger.Configuration{
		Directory: dir,
		File:      "graph.log",
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

// an identity taking part in a scenario
type identity struct {
	publicKey  string
	privateKey []byte
	secret     string
}

func newIdentity(t *testing.T) identity {
	publicKey, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		t.Fatalf("keypair: %v", err)
	}
	secret, err := crypto.BulletinSecret(privateKey)
	if nil != err {
		t.Fatalf("bulletin secret: %v", err)
	}
	return identity{
		publicKey:  fmt.Sprintf("%x", publicKey),
		privateKey: privateKey,
		secret:     secret,
	}
}

var node identity

func setup(t *testing.T) {
	err := storage.Initialise(filepath.Join(testDirectory, t.Name()+".leveldb"))
	if nil != err {
		t.Fatalf("storage initialise: %v", err)
	}
	if err := ledger.Initialise(); nil != err {
		t.Fatalf("ledger initialise: %v", err)
	}
	node = newIdentity(t)
	if err := graph.Initialise(node.privateKey); nil != err {
		t.Fatalf("graph initialise: %v", err)
	}
}

func teardown(t *testing.T) {
	graph.Finalise()
	ledger.Finalise()
	storage.Finalise()
}

// pair rid of an identity with the node
func nodeRid(who identity) string {
	return transaction.NewRid(who.secret, node.secret)
}

// a friend-request edge from one identity to another, payload
// encrypted under the author's own secret
func requestEdge(t *testing.T, from identity, to identity) *transaction.Transaction {
	tx := &transaction.Transaction{
		PublicKey:    from.publicKey,
		Rid:          transaction.NewRid(from.secret, to.secret),
		DHPublicKey:  "dh-public-key",
		RequesterRid: nodeRid(from),
		RequestedRid: nodeRid(to),
	}
	rel := &transaction.Relationship{BulletinSecret: to.secret}
	data, err := crypto.Encrypt(from.secret, mustJSON(t, rel))
	if nil != err {
		t.Fatalf("encrypt: %v", err)
	}
	if err := tx.SetEncryptedRelationship(data); nil != err {
		t.Fatalf("set relationship: %v", err)
	}
	if err := tx.Sign(from.privateKey); nil != err {
		t.Fatalf("sign: %v", err)
	}
	return tx
}

// a post encrypted under the author's bulletin secret
func post(t *testing.T, author identity, text string) *transaction.Transaction {
	tx := &transaction.Transaction{
		PublicKey: author.publicKey,
	}
	rel := &transaction.Relationship{PostText: text}
	data, err := crypto.Encrypt(author.secret, mustJSON(t, rel))
	if nil != err {
		t.Fatalf("encrypt: %v", err)
	}
	if err := tx.SetEncryptedRelationship(data); nil != err {
		t.Fatalf("set relationship: %v", err)
	}
	if err := tx.Sign(author.privateKey); nil != err {
		t.Fatalf("sign: %v", err)
	}
	return tx
}

func mustJSON(t *testing.T, rel *transaction.Relationship) []byte {
	scratch := &transaction.Transaction{}
	if err := scratch.SetPlainRelationship(rel); nil != err {
		t.Fatalf("marshal relationship: %v", err)
	}
	return scratch.Relationship
}

func store(t *testing.T, txs ...*transaction.Transaction) {
	for _, tx := range txs {
		if err := ledger.AppendPending(tx); nil != err {
			t.Fatalf("append: %v", err)
		}
	}
}

func TestPendingRequestExactlyOneSide(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)
	bob := newIdentity(t)
	store(t, requestEdge(t, alice, bob))

	aliceView, err := graph.ViewFor(alice.secret, false)
	assert.NoError(t, err)
	assert.Len(t, aliceView.SentFriendRequests, 1)
	assert.Len(t, aliceView.FriendRequests, 0)

	bobView, err := graph.ViewFor(bob.secret, false)
	assert.NoError(t, err)
	assert.Len(t, bobView.SentFriendRequests, 0)
	assert.Len(t, bobView.FriendRequests, 1)
}

func TestReciprocatedRequestBecomesFriends(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)
	bob := newIdentity(t)
	store(t, requestEdge(t, alice, bob), requestEdge(t, bob, alice))

	for _, who := range []identity{alice, bob} {
		view, err := graph.ViewFor(who.secret, false)
		assert.NoError(t, err)
		assert.Len(t, view.SentFriendRequests, 0, "no pending after reciprocation")
		assert.Len(t, view.FriendRequests, 0, "no pending after reciprocation")
		assert.True(t, len(view.Friends) >= 2, "both edges listed as friends")
	}
}

func TestSelfLoopNeverPending(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)
	loop := requestEdge(t, alice, alice)
	store(t, loop)

	view, err := graph.ViewFor(alice.secret, false)
	assert.NoError(t, err)
	assert.Len(t, view.SentFriendRequests, 0)
	assert.Len(t, view.FriendRequests, 0)
}

func TestPostDiscoveryNeedsTheSecret(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)
	stranger := newIdentity(t)
	store(t, post(t, alice, "only for holders of my secret"))

	aliceView, err := graph.ViewFor(alice.secret, false)
	assert.NoError(t, err)
	assert.Len(t, aliceView.MyPosts, 1)
	assert.Equal(t, "only for holders of my secret", aliceView.MyPosts[0].Relationship.PostText)

	strangerView, err := graph.ViewFor(stranger.secret, false)
	assert.NoError(t, err)
	assert.Len(t, strangerView.MyPosts, 0)
	assert.Len(t, strangerView.FriendPosts, 0)
}

func TestSelfModeFriendPosts(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)

	// the node's own edge with alice carries her secret, opened by the
	// node key; her posts then become discoverable
	edge := &transaction.Transaction{
		PublicKey:    node.publicKey,
		Rid:          transaction.NewRid(node.secret, alice.secret),
		DHPublicKey:  "dh-public-key",
		RequesterRid: nodeRid(node),
		RequestedRid: nodeRid(alice),
	}
	rel := &transaction.Relationship{BulletinSecret: alice.secret}
	blob, err := crypto.Encrypt(node.secret, mustJSON(t, rel))
	assert.NoError(t, err)
	assert.NoError(t, edge.SetEncryptedRelationship(blob))
	assert.NoError(t, edge.Sign(node.privateKey))

	store(t, edge, post(t, alice, "from alice"))

	view, err := graph.ViewFor("", true)
	assert.NoError(t, err)
	assert.Len(t, view.FriendPosts, 1)
	assert.Equal(t, "from alice", view.FriendPosts[0].Relationship.PostText)
}

func TestMessagesCollectedUnderPairRid(t *testing.T) {
	setup(t)
	defer teardown(t)

	alice := newIdentity(t)
	bob := newIdentity(t)
	pairRid := transaction.NewRid(alice.secret, bob.secret)
	store(t, requestEdge(t, alice, bob))

	message := &transaction.Transaction{
		PublicKey: alice.publicKey,
		Rid:       pairRid,
	}
	rel := &transaction.Relationship{MessageText: "hi bob"}
	blob, err := crypto.Encrypt("shared", mustJSON(t, rel))
	assert.NoError(t, err)
	assert.NoError(t, message.SetEncryptedRelationship(blob))
	assert.NoError(t, message.Sign(alice.privateKey))
	store(t, message)

	view, err := graph.ViewFor(alice.secret, false)
	assert.NoError(t, err)
	assert.Len(t, view.Messages, 1)
	assert.Equal(t, message.Hash, view.Messages[0].Hash)
}

func TestViewSerialises(t *testing.T) {
	setup(t)
	defer teardown(t)

	view, err := graph.ViewFor("anyone", false)
	assert.NoError(t, err)

	data, err := view.ToJSON()
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"rid"`)
	assert.Contains(t, string(data), `"friends"`)
}
