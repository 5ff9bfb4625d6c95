// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package trie_test

import (
	"os"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/merkle"
	"github.com/bitmark-inc/nametrie/param"
	"github.com/bitmark-inc/nametrie/store"
	"github.com/bitmark-inc/nametrie/trie"
)

func TestMain(m *testing.M) {
	_ = logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      "nametrie-trie-test.log",
		Size:      1048576,
		Count:     10,
	})
	os.Exit(m.Run())
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := param.DefaultConfig(t.TempDir())
	s, err := store.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func putClaim(t *testing.T, s *store.Store, id byte, name string, activation, expiration int32, amount int64) {
	t.Helper()
	var claimID claim.ID
	claimID[0] = id
	s.PutClaim(&claim.Claim{
		ClaimID:          claimID,
		Name:             []byte(name),
		NodeName:         []byte(name),
		OutPoint:         wire.OutPoint{Index: uint32(id)},
		ActivationHeight: activation,
		ValidHeight:      activation,
		ExpirationHeight: expiration,
		Amount:           amount,
	})
}

func TestEnsureTreeStructureIsUpToDateCreatesAncestors(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 10)
	s.PutNode([]byte("cats"), []byte{}, nil)
	require.NoError(t, trie.EnsureTreeStructureIsUpToDate(s, 1))
	require.NoError(t, s.Commit())

	parent, hash, found := s.GetNode([]byte("cats"))
	require.True(t, found)
	assert.Equal(t, []byte(""), parent)
	assert.Nil(t, hash, "still dirty until the merkle pass computes it")
	assert.True(t, s.HasNode([]byte("")), "root always exists")
}

func TestEnsureTreeStructureIsUpToDateSplitsOnDivergence(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 10)
	s.PutNode([]byte("cats"), []byte{}, nil)
	require.NoError(t, trie.EnsureTreeStructureIsUpToDate(s, 1))
	_, err := trie.MerkleHash(s, 1)
	require.NoError(t, err)
	require.NoError(t, s.Commit())

	require.NoError(t, s.Begin())
	putClaim(t, s, 2, "catnip", 0, 1000, 10)
	s.PutNode([]byte("catnip"), []byte{}, nil)
	require.NoError(t, trie.EnsureTreeStructureIsUpToDate(s, 1))
	require.NoError(t, s.Commit())

	// "cat" should now exist as the split node parenting both leaves.
	require.True(t, s.HasNode([]byte("cat")), "split node at longest common prefix")
	parent, _, found := s.GetNode([]byte("cats"))
	require.True(t, found)
	assert.Equal(t, []byte("cat"), parent)
	parent, _, found = s.GetNode([]byte("catnip"))
	require.True(t, found)
	assert.Equal(t, []byte("cat"), parent)
}

func TestEnsureTreeStructureIsUpToDatePrunesClaimlessLeaf(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 10)
	s.PutNode([]byte("cats"), []byte{}, nil)
	require.NoError(t, trie.EnsureTreeStructureIsUpToDate(s, 1))
	require.NoError(t, s.Commit())

	require.NoError(t, s.Begin())
	s.DeleteClaim(claim.ID{0x01})
	s.PutNode([]byte("cats"), nil, nil) // caller dirties, as addClaim/removeClaim would
	require.NoError(t, trie.EnsureTreeStructureIsUpToDate(s, 1))
	require.NoError(t, s.Commit())

	assert.False(t, s.HasNode([]byte("cats")), "childless, claimless node is pruned")
}

func TestMerkleHashRootChangesWithClaims(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	empty, err := trie.MerkleHash(s, 0)
	require.NoError(t, err)
	assert.Equal(t, merkle.EmptyTrieHash, empty)
	require.NoError(t, s.Commit())

	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 10)
	s.PutNode([]byte("cats"), []byte{}, nil)
	populated, err := trie.MerkleHash(s, 1)
	require.NoError(t, err)
	require.NoError(t, s.Commit())

	assert.NotEqual(t, empty, populated)
}

func TestProcessTakeoversRecordsFirstWinner(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 10)
	s.PutNode([]byte("cats"), []byte{}, nil)
	require.NoError(t, trie.ProcessTakeovers(s, 0))
	require.NoError(t, s.Commit())

	latest, found := s.LatestTakeover([]byte("cats"))
	require.True(t, found)
	require.NotNil(t, latest.ClaimID)
	assert.Equal(t, claim.ID{0x01}, *latest.ClaimID)
}

func TestProcessTakeoversDetectsChangeOfWinner(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 0, 1000, 5)
	s.PutNode([]byte("cats"), []byte{}, nil)
	require.NoError(t, trie.ProcessTakeovers(s, 0))
	require.NoError(t, s.Commit())

	require.NoError(t, s.Begin())
	putClaim(t, s, 2, "cats", 1, 1000, 50)
	s.PutNode([]byte("cats"), nil, nil)
	require.NoError(t, trie.ProcessTakeovers(s, 1))
	require.NoError(t, s.Commit())

	latest, found := s.LatestTakeover([]byte("cats"))
	require.True(t, found)
	require.NotNil(t, latest.ClaimID)
	assert.Equal(t, claim.ID{0x02}, *latest.ClaimID)
	assert.Equal(t, int32(1), latest.Height)
}

func TestMarkActivationsAndExpirationsDirtiesNode(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Begin())
	putClaim(t, s, 1, "cats", 5, 1000, 10)
	require.NoError(t, s.Commit())

	require.NoError(t, s.Begin())
	require.NoError(t, trie.MarkActivationsAndExpirations(s, 5))
	require.NoError(t, s.Commit())

	_, hash, found := s.GetNode([]byte("cats"))
	require.True(t, found, "node inserted for the newly activating claim")
	assert.Nil(t, hash)
}
