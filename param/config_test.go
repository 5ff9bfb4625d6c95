// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package param_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/nametrie/param"
)

func TestDefaultConfig(t *testing.T) {
	c := param.DefaultConfig("/tmp/claims")
	assert.Equal(t, "/tmp/claims", c.DataDir)
	assert.Equal(t, int32(32), c.ProportionalDelayFactor)
	assert.False(t, c.Wipe)
}

func TestExpirationTimeBeforeFork(t *testing.T) {
	c := param.DefaultConfig("")
	assert.Equal(t, c.OriginalClaimExpirationTime, c.ExpirationTime(c.ExtendedClaimExpirationForkHeight-1))
}

func TestExpirationTimeAtAndAfterFork(t *testing.T) {
	c := param.DefaultConfig("")
	assert.Equal(t, c.ExtendedClaimExpirationTime, c.ExpirationTime(c.ExtendedClaimExpirationForkHeight))
	assert.Equal(t, c.ExtendedClaimExpirationTime, c.ExpirationTime(c.ExtendedClaimExpirationForkHeight+1))
}
