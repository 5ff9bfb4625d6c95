// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/nametrie/claim"
)

func TestIsActive(t *testing.T) {
	c := &claim.Claim{ActivationHeight: 10, ExpirationHeight: 20}
	assert.False(t, c.IsActive(9))
	assert.True(t, c.IsActive(10))
	assert.True(t, c.IsActive(19))
	assert.False(t, c.IsActive(20))
}
