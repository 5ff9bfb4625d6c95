// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault_test

import (
	"testing"

	"github.com/bitmark-inc/nametrie/fault"
)

var (
	ErrStorageOne     = fault.StorageError("storage one")
	ErrStorageTwo     = fault.StorageError("storage two")
	ErrConsistencyOne = fault.ConsistencyError("consistency one")
	ErrConsistencyTwo = fault.ConsistencyError("consistency two")
	ErrNotFoundOne    = fault.NotFoundError("not found one")
	ErrNotFoundTwo    = fault.NotFoundError("not found two")
	ErrProtocolOne    = fault.ProtocolError("protocol one")
	ErrProtocolTwo    = fault.ProtocolError("protocol two")
)

// test that the four error classes can be distinguished by their class,
// not just by identity
func TestClassification(t *testing.T) {
	errorList := []struct {
		err         error
		storage     bool
		consistency bool
		notFound    bool
		protocol    bool
	}{
		{ErrStorageOne, true, false, false, false},
		{ErrStorageTwo, true, false, false, false},
		{ErrConsistencyOne, false, true, false, false},
		{ErrConsistencyTwo, false, true, false, false},
		{ErrNotFoundOne, false, false, true, false},
		{ErrNotFoundTwo, false, false, true, false},
		{ErrProtocolOne, false, false, false, true},
		{ErrProtocolTwo, false, false, false, true},
	}

	for i, e := range errorList {
		err := e.err
		if fault.IsErrStorage(err) != e.storage {
			t.Errorf("%d: expected 'storage' == %v for err = %v", i, e.storage, err)
		}
		if fault.IsErrConsistency(err) != e.consistency {
			t.Errorf("%d: expected 'consistency' == %v for err = %v", i, e.consistency, err)
		}
		if fault.IsErrNotFound(err) != e.notFound {
			t.Errorf("%d: expected 'not found' == %v for err = %v", i, e.notFound, err)
		}
		if fault.IsErrProtocol(err) != e.protocol {
			t.Errorf("%d: expected 'protocol' == %v for err = %v", i, e.protocol, err)
		}
	}
}
