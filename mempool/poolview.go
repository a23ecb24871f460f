// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/hznlabs/coretx/chainview"
	"github.com/hznlabs/coretx/primitives"
)

// This file implements chainview.PoolView, letting a Mempool be passed
// directly to chainview.NewAdapter without chainview importing this
// package's internals.
var _ chainview.PoolView = (*Mempool)(nil)

// LookupCoins synthesizes a coins view from a pending transaction or
// certificate, at chainview.MempoolHeight, since neither payload's
// outputs can yet be spent on chain.
func (mp *Mempool) LookupCoins(hash primitives.Hash) (chainview.Coins, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	if _, ok := mp.lookupLocked(hash); !ok {
		return chainview.Coins{}, false
	}
	return chainview.Coins{Height: chainview.MempoolHeight}, true
}

// HaveNullifier reports whether the pool holds a shielded nullifier.
func (mp *Mempool) HaveNullifier(nf primitives.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	_, ok := mp.nullifiers[nf]
	return ok
}

// SidechainCreationTxHash returns the in-pool creation tx hash for
// scID, if any.
func (mp *Mempool) SidechainCreationTxHash(scID primitives.Hash) (primitives.Hash, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.sidechains.Entry(scID)
	if !ok || e.ScCreationTxHash == primitives.ZeroHash {
		return primitives.ZeroHash, false
	}
	return e.ScCreationTxHash, true
}

// HaveCswNullifier reports whether a CSW input with nullifier nf is
// pending against scID.
func (mp *Mempool) HaveCswNullifier(scID, nf primitives.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.sidechains.Entry(scID)
	if !ok {
		return false
	}
	return e.HaveCswNullifier(nf)
}

// CswTotalAmount returns the pool's running CSW total for scID.
func (mp *Mempool) CswTotalAmount(scID primitives.Hash) primitives.Amount {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.sidechains.Entry(scID)
	if !ok {
		return 0
	}
	return e.CswTotalAmount
}

// ScIDs returns every sidechain ID with pending pool state.
func (mp *Mempool) ScIDs() []primitives.Hash {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.sidechains.ScIDs()
}
