// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package crypto_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bulletin-network/bulletind/crypto"
)

func TestSignVerify(t *testing.T) {

	public, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)

	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)

	message := []byte("canonical message")
	signature, err := crypto.Sign(private, message)
	assert.NoError(t, err)

	assert.NoError(t, crypto.Verify(publicHex, message, signature))

	// tampered message must fail
	assert.Error(t, crypto.Verify(publicHex, []byte("canonical messagE"), signature))

	// foreign key must fail
	_ = public
	otherPublic, _, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	assert.Error(t, crypto.Verify(hex.EncodeToString(otherPublic), message, signature))
}

func TestBulletinSecretDeterministic(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)

	one, err := crypto.BulletinSecret(private)
	assert.NoError(t, err)
	two, err := crypto.BulletinSecret(private)
	assert.NoError(t, err)

	assert.Equal(t, one, two)
	assert.Len(t, one, 64)
}

func TestCipherRoundTrip(t *testing.T) {

	plaintext := []byte(`{"postText":"hello"}`)

	sealed, err := crypto.Encrypt("secret-value", plaintext)
	assert.NoError(t, err)

	opened, err := crypto.Decrypt("secret-value", sealed)
	assert.NoError(t, err)
	assert.Equal(t, plaintext, opened)

	// wrong secret must fail, not crash
	_, err = crypto.Decrypt("other-secret", sealed)
	assert.Error(t, err)

	// garbage must fail, not crash
	_, err = crypto.Decrypt("secret-value", "zz-not-hex")
	assert.Error(t, err)
}

func TestSharedSecretSymmetry(t *testing.T) {

	alicePublic, alicePrivate, err := crypto.GenerateDHKeypair()
	assert.NoError(t, err)
	bobPublic, bobPrivate, err := crypto.GenerateDHKeypair()
	assert.NoError(t, err)

	one, err := crypto.SharedSecret(alicePrivate, bobPublic)
	assert.NoError(t, err)
	two, err := crypto.SharedSecret(bobPrivate, alicePublic)
	assert.NoError(t, err)

	assert.Equal(t, one, two)
}

func TestAddress(t *testing.T) {

	_, private, err := crypto.GenerateKeypair()
	assert.NoError(t, err)
	publicHex, err := crypto.PublicKeyHex(private)
	assert.NoError(t, err)

	address, err := crypto.Address(publicHex)
	assert.NoError(t, err)
	assert.NoError(t, crypto.ValidateAddress(address))

	assert.Error(t, crypto.ValidateAddress("not-an-address"))
}
