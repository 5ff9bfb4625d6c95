// Copyright (c) 2014-2016 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// error instances
//
// Provides a single instance of errors to allow easy comparison
package fault

// error base
type GenericError string

// to allow for different classes of errors
type StorageError GenericError
type ConsistencyError GenericError
type NotFoundError GenericError
type ProtocolError GenericError

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised     = StorageError("store already initialised")
	ErrClaimNotFound          = NotFoundError("claim not found")
	ErrCommitFailed           = StorageError("commit failed")
	ErrInvalidCount           = StorageError("count must be positive")
	ErrInvalidCursor          = StorageError("cursor is nil")
	ErrInvalidLoggerChannel   = StorageError("could not create logger channel")
	ErrInvalidNameLength      = ProtocolError("name exceeds maximum length")
	ErrInvalidScriptOp        = ProtocolError("script operation could not be classified")
	ErrNodeHashMismatch       = ConsistencyError("stored node hash does not match recomputed hash")
	ErrNotInTransaction       = StorageError("operation requires an open transaction")
	ErrRootNodeMissing        = ConsistencyError("root node missing from store")
	ErrStorageError           = StorageError("storage operation failed")
	ErrSupportNotFound        = NotFoundError("support not found")
	ErrTransactionAlreadyOpen = StorageError("transaction already in use")
	ErrUnfinishedDecrement    = StorageError("decrementBlock must be followed by finalizeDecrement")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e StorageError) Error() string     { return string(e) }
func (e ConsistencyError) Error() string { return string(e) }
func (e NotFoundError) Error() string    { return string(e) }
func (e ProtocolError) Error() string    { return string(e) }

// determine the class of an error
func IsErrStorage(e error) bool     { _, ok := e.(StorageError); return ok }
func IsErrConsistency(e error) bool { _, ok := e.(ConsistencyError); return ok }
func IsErrNotFound(e error) bool    { _, ok := e.(NotFoundError); return ok }
func IsErrProtocol(e error) bool    { _, ok := e.(ProtocolError); return ok }
