// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package claimtrie

import (
	"github.com/btcsuite/btcd/wire"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/nametrie/claim"
	"github.com/bitmark-inc/nametrie/fault"
	"github.com/bitmark-inc/nametrie/merkle"
	"github.com/bitmark-inc/nametrie/param"
	"github.com/bitmark-inc/nametrie/store"
	"github.com/bitmark-inc/nametrie/support"
	"github.com/bitmark-inc/nametrie/trie"
)

// Cache is the single-writer, single-threaded façade of spec.md §4.7.
// One Cache wraps one *store.Store; spec.md §5's separate "base" and
// "per-cache connection" collapse to this one type in this engine
// since there is exactly one physical database and no layered
// cache-over-base architecture to model.
type Cache struct {
	store *store.Store
	cfg   param.Config
	read  *trie.ReadCache
	log   *logger.L

	// committedHeight is nNextHeight as of the last successful Flush;
	// nextHeight is the working value mutated by IncrementBlock/
	// DecrementBlock within the still-open transaction. Abort rolls
	// nextHeight back to committedHeight, matching spec.md §4.7's
	// "flush ... propagate nNextHeight to base" / "destruction without
	// flush rolls back" — this engine has no separate base to propagate
	// to, so committedHeight plays that role directly.
	committedHeight   int32
	nextHeight        int32
	pendingFinalize   bool
	removalWorkaround map[string]struct{}
}

// New builds a Cache over an already-open store, seeding nNextHeight
// from cfg.Height.
func New(s *store.Store, cfg param.Config) *Cache {
	return &Cache{
		store:             s,
		cfg:               cfg,
		read:              trie.NewReadCache(trie.DefaultReadCacheSize),
		log:               logger.New("claimtrie"),
		committedHeight:   cfg.Height,
		nextHeight:        cfg.Height,
		removalWorkaround: make(map[string]struct{}),
	}
}

// NextHeight returns the height the next incrementBlock will apply.
func (c *Cache) NextHeight() int32 { return c.nextHeight }

// AdjustNameForValidHeight is the single hook point spec.md §9 leaves
// for the height-dependent name normalization algorithm; that
// algorithm is out of scope here (§1's Non-goals), so this is the
// identity function: it returns name unchanged at every height,
// including heights past cfg.NormalizedNameForkHeight.
func AdjustNameForValidHeight(name []byte, height int32) []byte {
	return name
}

func (c *Cache) ensureTransaction() error {
	if err := c.store.Begin(); err != nil && err != fault.ErrTransactionAlreadyOpen {
		return err
	}
	return nil
}

// AddClaim implements spec.md §4.7's addClaim.
func (c *Cache) AddClaim(name []byte, outPoint wire.OutPoint, claimID claim.ID, amount int64, height, validHeight, originalHeight int32) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}

	nodeName := AdjustNameForValidHeight(name, height)

	if validHeight <= 0 {
		delay, err := c.getDelayForName(nodeName, claimID)
		if err != nil {
			return err
		}
		validHeight = height + delay
	}
	if originalHeight <= 0 {
		originalHeight = height
	}

	cl := &claim.Claim{
		ClaimID:          claimID,
		Name:             append([]byte(nil), name...),
		NodeName:         append([]byte(nil), nodeName...),
		OutPoint:         outPoint,
		OriginalHeight:   originalHeight,
		UpdateHeight:     height,
		ValidHeight:      validHeight,
		ActivationHeight: validHeight,
		ExpirationHeight: height + c.cfg.ExpirationTime(height),
		Amount:           amount,
	}
	c.store.PutClaim(cl)
	c.read.Invalidate(nodeName)

	if validHeight < c.nextHeight {
		trie.InsertOrDirtyNode(c.store, nodeName)
	}
	return nil
}

// AddSupport implements spec.md §4.7's addSupport: symmetric to
// AddClaim, but never creates a node — only dirties one that already
// exists.
func (c *Cache) AddSupport(name []byte, outPoint wire.OutPoint, supportedClaimID claim.ID, amount int64, height, validHeight int32) error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}

	nodeName := AdjustNameForValidHeight(name, height)

	if validHeight <= 0 {
		delay, err := c.getDelayForName(nodeName, supportedClaimID)
		if err != nil {
			return err
		}
		validHeight = height + delay
	}

	sup := &support.Support{
		OutPoint:         outPoint,
		SupportedClaimID: supportedClaimID,
		Name:             append([]byte(nil), name...),
		NodeName:         append([]byte(nil), nodeName...),
		BlockHeight:      height,
		ValidHeight:      validHeight,
		ActivationHeight: validHeight,
		ExpirationHeight: height + c.cfg.ExpirationTime(height),
		Amount:           amount,
	}
	c.store.PutSupport(sup)
	c.read.Invalidate(nodeName)

	if validHeight < c.nextHeight {
		trie.DirtyNode(c.store, nodeName)
	}
	return nil
}

// RemoveClaim implements spec.md §4.7's removeClaim. found is false
// (never an error) if outPoint does not match the stored claim's own
// outpoint, per §7's "NotFound ... returned as a boolean false."
func (c *Cache) RemoveClaim(claimID claim.ID, outPoint wire.OutPoint) (nodeName []byte, validHeight, originalHeight int32, found bool, err error) {
	if err = c.ensureTransaction(); err != nil {
		return nil, 0, 0, false, err
	}

	cl := c.store.GetClaim(claimID)
	if cl == nil || cl.OutPoint != outPoint {
		return nil, 0, 0, false, nil
	}
	nodeName = append([]byte(nil), cl.NodeName...)
	validHeight = cl.ValidHeight
	originalHeight = cl.OriginalHeight

	c.store.DeleteClaim(claimID)
	trie.DirtyNode(c.store, nodeName)
	c.read.Invalidate(nodeName)

	if c.cfg.MinRemovalWorkaroundHeight <= c.nextHeight && c.nextHeight < c.cfg.MaxRemovalWorkaroundHeight {
		stillExists, werr := c.emptyNodeShouldExistAt(nodeName, 1)
		if werr != nil {
			return nil, 0, 0, false, werr
		}
		if stillExists {
			c.removalWorkaround[string(nodeName)] = struct{}{}
		}
	}

	return nodeName, validHeight, originalHeight, true, nil
}

// RemoveSupport implements spec.md §4.7's removeSupport.
func (c *Cache) RemoveSupport(outPoint wire.OutPoint) (nodeName []byte, validHeight int32, found bool, err error) {
	if err = c.ensureTransaction(); err != nil {
		return nil, 0, false, err
	}

	sup := c.store.GetSupport(outPoint)
	if sup == nil {
		return nil, 0, false, nil
	}
	nodeName = append([]byte(nil), sup.NodeName...)
	validHeight = sup.ValidHeight

	c.store.DeleteSupport(outPoint)
	trie.DirtyNode(c.store, nodeName)
	c.read.Invalidate(nodeName)

	return nodeName, validHeight, true, nil
}

// IncrementBlock implements spec.md §4.5's incrementBlock: mark
// activations/expirations, process takeovers, then advance
// nNextHeight. The tree structure is brought up to date later, when
// the root hash is computed.
func (c *Cache) IncrementBlock() error {
	if c.pendingFinalize {
		return fault.ErrUnfinishedDecrement
	}
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := trie.MarkActivationsAndExpirations(c.store, c.nextHeight); err != nil {
		return err
	}
	if err := trie.ProcessTakeovers(c.store, c.nextHeight); err != nil {
		return err
	}
	c.read.Purge()
	c.nextHeight++
	c.log.Debugf("incremented to height %d", c.nextHeight)
	return nil
}

// DecrementBlock implements spec.md §4.5's decrementBlock. Must be
// followed by FinalizeDecrement before the next IncrementBlock.
func (c *Cache) DecrementBlock() error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	c.nextHeight--
	if err := trie.MarkForDecrement(c.store, c.nextHeight); err != nil {
		return err
	}
	c.read.Purge()
	c.pendingFinalize = true
	c.log.Debugf("decremented to height %d, awaiting finalize", c.nextHeight)
	return nil
}

// FinalizeDecrement implements spec.md §4.5's finalizeDecrement.
func (c *Cache) FinalizeDecrement() error {
	if err := c.ensureTransaction(); err != nil {
		return err
	}
	if err := trie.FinalizeDecrement(c.store, c.nextHeight); err != nil {
		return err
	}
	c.read.Purge()
	c.pendingFinalize = false
	return nil
}

// GetMerkleHash implements spec.md §4.6's getMerkleHash.
func (c *Cache) GetMerkleHash() (merkle.Hash256, error) {
	if err := c.ensureTransaction(); err != nil {
		return merkle.Hash256{}, err
	}
	return trie.MerkleHash(c.store, c.nextHeight)
}

// GetProofForName implements spec.md §4.6's getProofForName.
func (c *Cache) GetProofForName(name []byte, claimID claim.ID) (*trie.Proof, error) {
	if err := c.ensureTransaction(); err != nil {
		return nil, err
	}
	return trie.GetProofForName(c.store, name, claimID, c.nextHeight)
}

// Flush implements spec.md §4.7's flush: materialize the root hash,
// commit, and clear the removal-workaround set. Returns false on
// commit failure, matching "caller retries" — the cache is left with
// an open transaction the caller should Abort and reconstruct from the
// last committed root.
func (c *Cache) Flush() bool {
	if _, err := trie.MerkleHash(c.store, c.nextHeight); err != nil {
		c.log.Errorf("flush: merkle hash failed: %s", err)
		return false
	}
	if err := c.store.Commit(); err != nil {
		c.log.Errorf("flush: commit failed: %s", err)
		return false
	}
	c.committedHeight = c.nextHeight
	c.removalWorkaround = make(map[string]struct{})
	return true
}

// Abort rolls back every mutation since the last Flush, matching
// spec.md §4.7's "destruction without flush rolls back."
func (c *Cache) Abort() {
	c.store.Abort()
	c.read.Purge()
	c.nextHeight = c.committedHeight
	c.pendingFinalize = false
	c.removalWorkaround = make(map[string]struct{})
}
