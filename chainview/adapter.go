// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainview

import "github.com/hznlabs/coretx/primitives"

// Adapter composes a committed ChainView with a PoolView (§4.3). Coin,
// nullifier and sidechain lookups consult the pool first and fall back
// to the chain; HaveCswNullifier consults the pool only, and the
// state, timing and anchor queries delegate to the chain only.
type Adapter struct {
	chain ChainView
	pool  PoolView
}

// NewAdapter builds a read-through adapter over chain and pool.
func NewAdapter(chain ChainView, pool PoolView) *Adapter {
	return &Adapter{chain: chain, pool: pool}
}

// GetCoins returns a coins view synthesized from a pool entry, at
// MempoolHeight, if the pool holds txHash; otherwise it delegates to the
// chain.
func (a *Adapter) GetCoins(txHash primitives.Hash) (Coins, bool) {
	if c, ok := a.pool.LookupCoins(txHash); ok {
		return c, true
	}
	return a.chain.AccessCoins(txHash)
}

// GetNullifier reports whether the pool or the chain holds nf.
func (a *Adapter) GetNullifier(nf primitives.Hash) bool {
	return a.pool.HaveNullifier(nf) || a.chain.GetNullifier(nf)
}

// HaveSidechain reports whether scID has an in-pool creation or an
// on-chain record.
func (a *Adapter) HaveSidechain(scID primitives.Hash) bool {
	if _, ok := a.pool.SidechainCreationTxHash(scID); ok {
		return true
	}
	return a.chain.HaveSidechain(scID)
}

// HaveCswNullifier reports whether a CSW input for scID with nullifier
// nf is pending in the pool.
func (a *Adapter) HaveCswNullifier(scID, nf primitives.Hash) bool {
	return a.pool.HaveCswNullifier(scID, nf)
}

// GetSidechain synthesizes a sidechain record from the pool's
// unconfirmed creation if any, otherwise falls back to the chain;
// whichever source answers, the balance is reduced by the pool's
// pending cswTotalAmount for scID, since CSWs drain balance before they
// confirm.
func (a *Adapter) GetSidechain(scID primitives.Hash) (Sidechain, bool) {
	var sc Sidechain
	var found bool

	if txHash, ok := a.pool.SidechainCreationTxHash(scID); ok {
		sc = Sidechain{CreatingTxHash: txHash}
		found = true
	} else if chainSc, ok := a.chain.GetSidechain(scID); ok {
		sc = chainSc
		found = true
	}
	if !found {
		return Sidechain{}, false
	}

	sc.Balance -= a.pool.CswTotalAmount(scID)
	return sc, true
}

// GetSidechainState delegates to the chain: pool entries never change a
// sidechain's committed lifecycle state.
func (a *Adapter) GetSidechainState(scID primitives.Hash) SidechainState {
	return a.chain.GetSidechainState(scID)
}

// GetActiveCertDataHash delegates to the chain.
func (a *Adapter) GetActiveCertDataHash(scID primitives.Hash) (primitives.Hash, bool) {
	return a.chain.GetActiveCertDataHash(scID)
}

// CheckCertTiming delegates to the chain.
func (a *Adapter) CheckCertTiming(scID primitives.Hash, epoch uint32) bool {
	return a.chain.CheckCertTiming(scID, epoch)
}

// CheckScTxTiming delegates to the chain.
func (a *Adapter) CheckScTxTiming(scID primitives.Hash) bool {
	return a.chain.CheckScTxTiming(scID)
}

// GetAnchorAt delegates to the chain.
func (a *Adapter) GetAnchorAt(anchor primitives.Hash) bool {
	return a.chain.GetAnchorAt(anchor)
}

// GetScIds returns the union of sidechain IDs known to the pool and the
// chain.
func (a *Adapter) GetScIds() []primitives.Hash {
	set := make(map[primitives.Hash]struct{})
	for _, id := range a.pool.ScIDs() {
		set[id] = struct{}{}
	}
	for _, id := range a.chain.GetScIds() {
		set[id] = struct{}{}
	}
	out := make([]primitives.Hash, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}
