// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

// Kind - explicit transaction variant
//
// derived exactly once at ingestion; downstream logic switches on this
// value instead of re-deriving intent from field presence
type Kind int

const (
	KindTransfer Kind = iota
	KindFriendRequest
	KindFriendAccept
	KindPost
	KindMessage
	KindLogin
)

// DeriveKind - classify a transaction relative to a viewer's rid
//
// request and accept are directional: the same record is a request from
// the requester's side and becomes an accept when the viewer is the
// requested party
func (tx *Transaction) DeriveKind(viewerRid string) Kind {

	switch {
	case "" != tx.ChallengeCode && "" != tx.Answer:
		return KindLogin

	case 0 == len(tx.Relationship):
		return KindTransfer

	case "" != tx.DHPublicKey && viewerRid == tx.RequestedRid:
		return KindFriendAccept

	case "" != tx.DHPublicKey:
		return KindFriendRequest

	case "" == tx.Rid:
		return KindPost

	default:
		return KindMessage
	}
}

// IsRelationship - true for the four social-graph variants
func (k Kind) IsRelationship() bool {
	switch k {
	case KindFriendRequest, KindFriendAccept, KindPost, KindMessage:
		return true
	}
	return false
}

// String - kind represented as a string
func (k Kind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindFriendRequest:
		return "friend-request"
	case KindFriendAccept:
		return "friend-accept"
	case KindPost:
		return "post"
	case KindMessage:
		return "message"
	case KindLogin:
		return "login"
	default:
		return "*unknown*"
	}
}
