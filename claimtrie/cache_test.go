// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie_test

import (
	"os"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/claimtrie"
	"github.com/bitmark-inc/nametrie/merkle"
	"github.com/bitmark-inc/nametrie/param"
	"github.com/bitmark-inc/nametrie/store"
)

func TestMain(m *testing.M) {
	_ = logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "nametrie-claimtrie-test.log",
		Size:      1048576,
		Count:     10,
	})
	os.Exit(m.Run())
}

func openTestCache(t *testing.T) (*claimtrie.Cache, *store.Store) {
	t.Helper()
	cfg := param.DefaultConfig(t.TempDir())
	cfg.ProportionalDelayFactor = 32
	cfg.MinRemovalWorkaroundHeight = 0
	cfg.MaxRemovalWorkaroundHeight = 1_000_000
	s, err := store.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return claimtrie.New(s, cfg), s
}

func outPointFor(index uint32) wire.OutPoint {
	var hash [32]byte
	hash[0] = byte(index) + 1
	return wire.OutPoint{Hash: hash, Index: index}
}

func TestEmptyTrieRootHash(t *testing.T) {
	c, _ := openTestCache(t)
	hash, err := c.GetMerkleHash()
	require.NoError(t, err)
	assert.Equal(t, merkle.EmptyTrieHash, hash)
}

func TestAddClaimIncrementBlockFlushProducesTakeover(t *testing.T) {
	c, s := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	for c.NextHeight() < 10 {
		require.NoError(t, c.IncrementBlock())
	}
	require.NoError(t, c.AddClaim([]byte("cat"), outPointFor(0), id, 100, 10, 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	latest, found := s.LatestTakeover([]byte("cat"))
	require.True(t, found)
	require.NotNil(t, latest.ClaimID)
	assert.Equal(t, id, *latest.ClaimID)
	assert.Equal(t, int32(10), latest.Height)

	info, err := c.GetInfoForName([]byte("cat"))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, id, info.Claim.ClaimID)
	assert.EqualValues(t, 100, info.EffectiveAmount)
}

func TestCompetingClaimWithProportionalDelay(t *testing.T) {
	c, _ := openTestCache(t)

	var winner, challenger claim.ID
	winner[0] = 0x01
	challenger[0] = 0x02

	for c.NextHeight() < 100 {
		require.NoError(t, c.IncrementBlock())
	}
	require.NoError(t, c.AddClaim([]byte("foo"), outPointFor(0), winner, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	// challenger arrives at height 420 with a bigger bid; delay should
	// be (420-100)/32 = 10, so validHeight = 430 (spec.md §8 S3).
	for c.NextHeight() < 420 {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())
	require.Equal(t, int32(420), c.NextHeight())

	require.NoError(t, c.AddClaim([]byte("foo"), outPointFor(1), challenger, 200, c.NextHeight(), 0, 0))
	claims, err := c.GetClaimsForName([]byte("foo"))
	require.NoError(t, err)
	var got *claim.Claim
	for _, cl := range claims {
		if cl.ClaimID == challenger {
			got = cl
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, int32(430), got.ValidHeight)
}

func TestUpdatePreservesActivationAcrossSameTransaction(t *testing.T) {
	c, s := openTestCache(t)

	var id claim.ID
	id[0] = 0x01
	for c.NextHeight() < 500 {
		require.NoError(t, c.IncrementBlock())
	}
	require.NoError(t, c.AddClaim([]byte("bar"), outPointFor(0), id, 100, c.NextHeight(), 0, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	takeover, found := s.LatestTakeover([]byte("bar"))
	require.True(t, found)
	require.NotNil(t, takeover.ClaimID)
	assert.Equal(t, id, *takeover.ClaimID)
	firstTakeoverHeight := takeover.Height

	// spend and re-add within one simulated transaction at height 800,
	// carrying forward the original validHeight/originalHeight.
	for c.NextHeight() < 800 {
		require.NoError(t, c.IncrementBlock())
	}
	require.True(t, c.Flush())

	err := c.ApplyTransaction(800,
		[]claimtrie.SpendClaim{{ClaimID: id, OutPoint: outPointFor(0)}},
		nil,
		[]claimtrie.ScriptOp{{Kind: claimtrie.OpUpdateClaim, Name: []byte("bar"), ClaimID: id, OutPoint: outPointFor(2), Amount: 100}},
	)
	require.NoError(t, err)
	require.True(t, c.Flush())

	cl := s.GetClaim(id)
	require.NotNil(t, cl)
	assert.Equal(t, int32(500), cl.OriginalHeight)
	assert.Equal(t, int32(500), cl.ValidHeight)

	takeover, found = s.LatestTakeover([]byte("bar"))
	require.True(t, found)
	require.NotNil(t, takeover.ClaimID)
	assert.Equal(t, id, *takeover.ClaimID)
	assert.Equal(t, firstTakeoverHeight, takeover.Height)
}

func TestSupportContributesOnlyWhenNodeNameMatches(t *testing.T) {
	c, _ := openTestCache(t)

	var claimID claim.ID
	claimID[0] = 0x01
	for c.NextHeight() < 10 {
		require.NoError(t, c.IncrementBlock())
	}
	require.NoError(t, c.AddClaim([]byte("foo"), outPointFor(0), claimID, 100, 10, 0, 0))
	require.NoError(t, c.AddSupport([]byte("foo"), outPointFor(1), claimID, 50, 10, 0))
	require.NoError(t, c.AddSupport([]byte("foobar"), outPointFor(2), claimID, 999, 10, 0))
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())

	info, err := c.GetInfoForName([]byte("foo"))
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.EqualValues(t, 150, info.EffectiveAmount)
}

func TestIncrementRequiresFinalizeAfterDecrement(t *testing.T) {
	c, _ := openTestCache(t)
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())
	require.NoError(t, c.DecrementBlock())

	err := c.IncrementBlock()
	assert.Error(t, err)

	require.NoError(t, c.FinalizeDecrement())
	assert.NoError(t, c.IncrementBlock())
}

func TestAbortRollsBackHeightAndMutations(t *testing.T) {
	c, s := openTestCache(t)
	require.NoError(t, c.IncrementBlock())
	require.True(t, c.Flush())
	require.Equal(t, int32(1), c.NextHeight())

	var id claim.ID
	id[0] = 0x09
	require.NoError(t, c.AddClaim([]byte("zzz"), outPointFor(9), id, 10, 1, 0, 0))
	require.NoError(t, c.IncrementBlock())
	c.Abort()

	assert.Equal(t, int32(1), c.NextHeight())
	assert.Nil(t, s.GetClaim(id))
}
