// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type ExistsError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError
type RetryError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = ProcessError("already initialised")
	ErrBlockNotFound          = NotFoundError("block not found")
	ErrCertificateFileExists  = ExistsError("certificate file already exists")
	ErrDecryptionFailed       = ProcessError("decryption failed")
	ErrDoubleSpend            = InvalidError("input already spent")
	ErrInsufficientInputValue = InvalidError("input value below value plus fee")
	ErrInvalidBlockHash       = InvalidError("invalid block hash")
	ErrInvalidBlockSignature  = InvalidError("invalid block signature")
	ErrInvalidCount           = InvalidError("invalid count")
	ErrInvalidDHPublicKey     = InvalidError("invalid dh public key")
	ErrInvalidIPAddress       = InvalidError("invalid ip address")
	ErrInvalidKeyLength       = InvalidError("invalid key length")
	ErrInvalidLoggerChannel   = InvalidError("invalid logger channel")
	ErrInvalidNonce           = InvalidError("invalid nonce")
	ErrInvalidPortNumber      = InvalidError("invalid port number")
	ErrInvalidPrivateKey      = InvalidError("invalid private key")
	ErrInvalidPublicKey       = InvalidError("invalid public key")
	ErrInvalidSignature       = InvalidError("invalid signature")
	ErrInvalidStructure       = InvalidError("invalid structure")
	ErrInvalidTarget          = InvalidError("invalid target")
	ErrKeyFileExists          = ExistsError("key file already exists")
	ErrMissingInput           = RetryError("missing input transaction")
	ErrNotConnected           = ProcessError("not connected")
	ErrNotInitialised         = ProcessError("not initialised")
	ErrPeerUnreachable        = ProcessError("peer unreachable")
	ErrRateLimiting           = ProcessError("rate limiting")
	ErrShareNotFound          = NotFoundError("share not found")
	ErrTemplateUnavailable    = ProcessError("template unavailable")
	ErrTransactionExists      = ExistsError("transaction already exists")
	ErrTransactionNotFound    = NotFoundError("transaction not found")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }
func (e RetryError) Error() string    { return string(e) }

// determine the class of an error
func IsErrExists(e error) bool   { _, ok := e.(ExistsError); return ok }
func IsErrInvalid(e error) bool  { _, ok := e.(InvalidError); return ok }
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }
func IsErrProcess(e error) bool  { _, ok := e.(ProcessError); return ok }
func IsErrRetry(e error) bool    { _, ok := e.(RetryError); return ok }
