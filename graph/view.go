// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package graph

import (
	"encoding/json"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/fault"
	"github.com/bulletin-network/bulletind/ledger"
	"github.com/bulletin-network/bulletind/transaction"
)

// View - the social graph visible to one identity
type View struct {
	Rid                string                     `json:"rid"`
	Friends            []*transaction.Transaction `json:"friends"`
	SentFriendRequests []*transaction.Transaction `json:"sent_friend_requests"`
	FriendRequests     []*transaction.Transaction `json:"friend_requests"`
	MyPosts            []ledger.Bulletin          `json:"my_posts"`
	FriendPosts        []ledger.Bulletin          `json:"friend_posts"`
	Messages           []*transaction.Transaction `json:"messages"`
	Logins             []*transaction.Transaction `json:"logins"`
}

// ToJSON - the canonical serialised form
func (v *View) ToJSON() ([]byte, error) {
	return json.MarshalIndent(v, "", "    ")
}

// ViewFor - build the graph for a bulletin secret
//
// forMe selects self mode: the viewer is the node itself and its own
// key opens the relationship payloads; otherwise the view is derived
// for a third party from what the ledger exposes to them
func ViewFor(bulletinSecret string, forMe bool) (*View, error) {
	globalData.RLock()
	defer globalData.RUnlock()

	if !globalData.initialised {
		return nil, fault.ErrNotInitialised
	}

	if forMe {
		return selfView()
	}
	return peerView(bulletinSecret)
}

func newView(rid string) *View {
	return &View{
		Rid:                rid,
		Friends:            []*transaction.Transaction{},
		SentFriendRequests: []*transaction.Transaction{},
		FriendRequests:     []*transaction.Transaction{},
		MyPosts:            []ledger.Bulletin{},
		FriendPosts:        []ledger.Bulletin{},
		Messages:           []*transaction.Transaction{},
		Logins:             []*transaction.Transaction{},
	}
}

// self mode: every relationship payload the node signed opens with its
// own secret, so counterparty secrets come straight from the records
func selfView() (*View, error) {

	meRid := transaction.NewRid(globalData.secret, globalData.secret)
	view := newView(meRid)

	mine, err := ledger.RelationshipsByAuthor(globalData.publicKey)
	if nil != err {
		return nil, err
	}

	touched := []string{meRid}
	secrets := []string{}
	for _, tx := range mine {
		if "" == tx.Rid {
			continue
		}
		view.Friends = append(view.Friends, tx)
		touched = append(touched, tx.Rid)
		if "" != tx.RequesterRid {
			touched = append(touched, tx.RequesterRid)
		}
		if "" != tx.RequestedRid {
			touched = append(touched, tx.RequestedRid)
		}
		if secret, ok := counterpartySecret(tx, globalData.secret); ok {
			secrets = append(secrets, secret)
		}
	}

	pool, err := ledger.SecondDegreeByRids(touched)
	if nil != err {
		return nil, err
	}
	classify(view, pool, meRid)

	posts, err := ledger.Bulletins(globalData.secret)
	if nil != err {
		return nil, err
	}
	view.MyPosts = onlyPosts(posts)
	view.FriendPosts = postsForSecrets(secrets)

	collectMessages(view)
	collectLogins(view, meRid)
	return view, nil
}

// peer mode: the viewer's edge with this node anchors the lookup; only
// payloads their secret opens become visible
func peerView(bulletinSecret string) (*View, error) {

	meRid := transaction.NewRid(bulletinSecret, globalData.secret)
	view := newView(meRid)

	mine, err := ledger.TransactionsByRid(meRid)
	if nil != err {
		return nil, err
	}

	touched := []string{meRid}
	for _, tx := range mine {
		view.Friends = append(view.Friends, tx)
		if "" != tx.RequesterRid {
			touched = append(touched, tx.RequesterRid)
		}
		if "" != tx.RequestedRid {
			touched = append(touched, tx.RequestedRid)
		}
	}

	pool, err := ledger.SecondDegreeByRids(touched)
	if nil != err {
		return nil, err
	}
	classify(view, pool, meRid)

	// mutual secrets: whatever the candidate pool exposes in clear or
	// the node's own records open
	secrets := []string{}
	toCheck := []string{}
	for _, cand := range pool {
		if "" != cand.RequesterRid {
			toCheck = append(toCheck, cand.RequesterRid)
		}
		if "" != cand.RequestedRid {
			toCheck = append(toCheck, cand.RequestedRid)
		}
	}
	related, err := ledger.TransactionsByRids(toCheck)
	if nil != err {
		return nil, err
	}
	for _, tx := range related {
		if secret, ok := counterpartySecret(tx, globalData.secret); ok {
			secrets = append(secrets, secret)
		}
	}

	posts, err := ledger.Bulletins(bulletinSecret)
	if nil != err {
		return nil, err
	}
	view.MyPosts = onlyPosts(posts)
	view.FriendPosts = postsForSecrets(secrets)

	collectMessages(view)
	collectLogins(view, meRid)
	return view, nil
}

// partition the candidate pool around the evaluated rid
//
// a pair rid seen only from the viewer's side is a pending request;
// seen from both sides it is a reciprocated friendship; self-loops
// never count
func classify(view *View, pool []*transaction.Transaction, meRid string) {

	sentBy := make(map[string][]*transaction.Transaction)
	sentByOther := make(map[string]bool)
	requestedOf := make(map[string][]*transaction.Transaction)
	requestedOfOther := make(map[string]bool)

	for _, cand := range pool {
		if "" == cand.Rid || cand.RequesterRid == cand.RequestedRid {
			continue
		}
		if cand.RequesterRid == meRid {
			sentBy[cand.Rid] = append(sentBy[cand.Rid], cand)
		} else {
			sentByOther[cand.Rid] = true
		}
		if cand.RequestedRid == meRid {
			requestedOf[cand.Rid] = append(requestedOf[cand.Rid], cand)
		} else {
			requestedOfOther[cand.Rid] = true
		}
	}

	for rid, txs := range sentBy {
		if sentByOther[rid] {
			view.Friends = append(view.Friends, txs...)
			continue
		}
		view.SentFriendRequests = append(view.SentFriendRequests, txs...)
	}
	for rid, txs := range requestedOf {
		if requestedOfOther[rid] {
			view.Friends = append(view.Friends, txs...)
			continue
		}
		view.FriendRequests = append(view.FriendRequests, txs...)
	}
}

// open a relationship payload with the given secret and pull out the
// counterparty's bulletin secret; plain payloads expose it directly
func counterpartySecret(tx *transaction.Transaction, secret string) (string, bool) {
	if r, ok := tx.PlainRelationship(); ok {
		return r.BulletinSecret, "" != r.BulletinSecret
	}
	blob, ok := tx.EncryptedRelationship()
	if !ok {
		return "", false
	}
	plain, err := crypto.Decrypt(secret, blob)
	if nil != err {
		// not addressed to this key
		return "", false
	}
	r := &transaction.Relationship{}
	if err := json.Unmarshal(plain, r); nil != err {
		return "", false
	}
	return r.BulletinSecret, "" != r.BulletinSecret
}

func onlyPosts(bulletins []ledger.Bulletin) []ledger.Bulletin {
	posts := []ledger.Bulletin{}
	for _, b := range bulletins {
		if "" != b.Relationship.PostText {
			posts = append(posts, b)
		}
	}
	return posts
}

func postsForSecrets(secrets []string) []ledger.Bulletin {
	seen := make(map[string]struct{})
	posts := []ledger.Bulletin{}
	for _, secret := range secrets {
		if _, ok := seen[secret]; ok {
			continue
		}
		seen[secret] = struct{}{}
		bulletins, err := ledger.Bulletins(secret)
		if nil != err {
			continue
		}
		posts = append(posts, onlyPosts(bulletins)...)
	}
	return posts
}

// every transaction under a rid produced by classification, first seen
// wins, deduplicated by hash
func collectMessages(view *View) {

	lookup := []string{}
	for _, tx := range view.SentFriendRequests {
		lookup = append(lookup, tx.Rid)
	}
	for _, tx := range view.FriendRequests {
		lookup = append(lookup, tx.Rid)
	}
	for _, tx := range view.Friends {
		if "" != tx.Rid {
			lookup = append(lookup, tx.Rid)
		}
	}

	related, err := ledger.TransactionsByRids(lookup)
	if nil != err {
		return
	}

	seen := make(map[string]struct{})
	for _, tx := range related {
		if _, ok := seen[tx.Hash]; ok {
			continue
		}
		seen[tx.Hash] = struct{}{}
		if transaction.KindMessage == tx.DeriveKind(view.Rid) {
			view.Messages = append(view.Messages, tx)
		}
	}
}

func collectLogins(view *View, meRid string) {
	related, err := ledger.TransactionsByRid(meRid)
	if nil != err {
		return
	}
	for _, tx := range related {
		if transaction.KindLogin == tx.DeriveKind(meRid) {
			view.Logins = append(view.Logins, tx)
		}
	}
}
