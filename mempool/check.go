// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/cockroachdb/errors"

	"github.com/hznlabs/coretx/chainview"
	"github.com/hznlabs/coretx/internal/invariant"
	"github.com/hznlabs/coretx/primitives"
)

// Check is an expensive self-audit verifying every invariant in §3: that
// every secondary index agrees with the primary owning tables, that CSW
// totals agree with per-sidechain sums, that no two pool entries
// disagree about who owns an outpoint, and that the pool's DAG topology
// is replayable against cv — every entry's inputs trace back, through
// zero or more pool ancestors, to something the chain view already
// considers spendable. It excludes deep validator calls such as script
// or proof re-verification — those belong to the external validator,
// not this audit (§9 open question).
//
// A failure here means the pool's own bookkeeping has diverged from
// itself, which is always a programming error; Check terminates the
// process rather than returning an error a caller could act on.
func (mp *Mempool) Check(cv chainview.ChainView) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for outpoint, locator := range mp.nextUser {
		owner, ok := mp.lookupLocked(locator.OwnerHash)
		if !ok {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"nextUser[%s] names missing owner %s", outpoint, locator.OwnerHash))
		}
		if int(locator.VinIndex) >= len(owner.vin) || owner.vin[locator.VinIndex].PrevOut != outpoint {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"nextUser[%s] locator does not match owner %s's vin", outpoint, locator.OwnerHash))
		}
	}

	for nf, ownerHash := range mp.nullifiers {
		owner, ok := mp.txs[ownerHash]
		if !ok || owner.tx == nil {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"nullifier %s names missing tx owner %s", nf, ownerHash))
		}
		found := false
		for _, n := range owner.tx.ShieldedNullifiers {
			if n == nf {
				found = true
				break
			}
		}
		if !found {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"nullifier %s not present in owner %s's own nullifier list", nf, ownerHash))
		}
	}

	for _, scID := range mp.sidechains.ScIDs() {
		sce, ok := mp.sidechains.Entry(scID)
		if !ok {
			continue
		}
		var computed primitives.Amount
		for _, e := range mp.txs {
			if e.tx == nil {
				continue
			}
			for _, csw := range e.tx.CswInputs {
				if csw.SidechainID == scID {
					computed += csw.Value
				}
			}
		}
		if computed != sce.CswTotalAmount {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"sidechain %s cswTotalAmount tracked=%d computed=%d", scID, sce.CswTotalAmount, computed))
		}
	}

	for hash, e := range mp.certs {
		for _, other := range mp.certs {
			if other.hash == hash || other.scID != e.scID || other.epoch != e.epoch {
				continue
			}
			if other.quality == e.quality {
				invariant.Violation(errors.AssertionFailedWithDepthf(1,
					"two pool certs %s and %s share (sidechain %s, epoch %d, quality %d)",
					hash, other.hash, e.scID, e.epoch, e.quality))
			}
		}
	}

	mp.checkDagReplayableLocked(cv)
}

// checkDagReplayableLocked runs the BFS in §4.2's check(chainView)
// contract: starting from nothing, repeatedly mark an entry "ready"
// once every direct ancestor — every prevout owner already in the
// pool, plus a sc-creation ancestor for forward transfers/BTRs — is
// itself ready, and every prevout not owned by a pool entry is
// unspent according to cv. Fixpoint with no growth but entries still
// outside the ready set means either a cycle or an ancestor this
// pool's own bookkeeping lost track of — both are invariant failures.
func (mp *Mempool) checkDagReplayableLocked(cv chainview.ChainView) {
	pending := make(map[primitives.Hash]*poolEntry, len(mp.txs)+len(mp.certs))
	for h, e := range mp.txs {
		pending[h] = e
	}
	for h, e := range mp.certs {
		pending[h] = e
	}

	ready := make(map[primitives.Hash]struct{}, len(pending))
	for {
		progressed := false
		for h, e := range pending {
			if _, done := ready[h]; done {
				continue
			}
			if mp.entryReplayableLocked(e, ready, cv) {
				ready[h] = struct{}{}
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	for h := range pending {
		if _, ok := ready[h]; !ok {
			invariant.Violation(errors.AssertionFailedWithDepthf(1,
				"entry %s is not replayable against the chain view: an ancestor never became ready", h))
		}
	}
}

func (mp *Mempool) entryReplayableLocked(e *poolEntry, ready map[primitives.Hash]struct{}, cv chainview.ChainView) bool {
	for _, parent := range mp.directAncestorsLocked(e) {
		if _, ok := ready[parent]; !ok {
			return false
		}
	}
	for _, in := range e.vin {
		if _, inPool := mp.lookupLocked(in.PrevOut.Hash); inPool {
			continue
		}
		coins, ok := cv.AccessCoins(in.PrevOut.Hash)
		if !ok || !coins.IsUnspent(in.PrevOut.Index) {
			return false
		}
	}
	return true
}
