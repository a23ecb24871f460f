// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"time"

	"github.com/hznlabs/coretx/chainview"
	xlog "github.com/hznlabs/coretx/internal/log"
	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

// Remove drops the entry named by hash. If recursive, every descendant
// is removed first, in an order where each entry's own descendants
// precede it (§4.2, property 6); removedTxs/removedCerts are populated
// in that same removal order.
func (mp *Mempool) Remove(hash primitives.Hash, recursive bool) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return mp.removeLocked(hash, recursive)
}

func (mp *Mempool) removeLocked(hash primitives.Hash, recursive bool) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	e, ok := mp.lookupLocked(hash)
	if !ok {
		return nil, nil
	}

	var order []primitives.Hash
	if recursive {
		order = mp.descendantsPostOrderLocked(e)
	}
	order = append(order, hash)

	for _, h := range order {
		victim, ok := mp.lookupLocked(h)
		if !ok {
			continue
		}
		mp.unlinkLocked(victim)
		if victim.isCert() {
			removedCerts = append(removedCerts, victim.toCertEntry())
			removeTotal.WithLabelValues("cert", "removed").Inc()
		} else {
			removedTxs = append(removedTxs, victim.toTxEntry())
			mp.estimator.RemoveTx(h)
			removeTotal.WithLabelValues("tx", "removed").Inc()
		}
	}

	txCountGauge.Set(float64(len(mp.txs)))
	certCountGauge.Set(float64(len(mp.certs)))
	return removedTxs, removedCerts
}

// unlinkLocked deletes an entry from every table it appears in. It does
// not touch descendants; callers are responsible for ordering removal
// so dependents are unlinked first.
func (mp *Mempool) unlinkLocked(e *poolEntry) {
	for _, in := range e.vin {
		delete(mp.nextUser, in.PrevOut)
		mp.removeSpentByLocked(in.PrevOut.Hash, e.hash)
	}
	delete(mp.spentBy, e.hash)
	delete(mp.priorityDeltas, e.hash)

	if e.tx != nil {
		for _, nf := range e.tx.ShieldedNullifiers {
			delete(mp.nullifiers, nf)
		}
		for _, sc := range e.tx.ScCreations {
			mp.sidechains.RemoveScCreation(sc.SidechainID, e.hash)
		}
		for _, ft := range e.tx.ForwardTransfers {
			mp.sidechains.RemoveForwardTransfer(ft.SidechainID, e.hash)
		}
		for _, btr := range e.tx.BTRs {
			mp.sidechains.RemoveBackwardTransferRequest(btr.SidechainID, e.hash)
		}
		for _, csw := range e.tx.CswInputs {
			mp.sidechains.RemoveCswInput(csw.SidechainID, csw.Nullifier, csw.Value)
		}
		delete(mp.txs, e.hash)
		return
	}

	mp.sidechains.RemoveCertificate(e.scID, e.epoch, e.hash)
	delete(mp.certs, e.hash)
}

// removeConflictsLocked removes every pool entry that shares an
// outpoint, shielded nullifier, or CSW nullifier with e, plus, for a
// certificate, every pool cert for the same (sidechain, epoch) whose
// quality is at most e's.
func (mp *Mempool) removeConflictsLocked(e *poolEntry) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	conflicts := make(map[primitives.Hash]struct{})

	for _, in := range e.vin {
		if locator, ok := mp.nextUser[in.PrevOut]; ok && locator.OwnerHash != e.hash {
			conflicts[locator.OwnerHash] = struct{}{}
		}
	}
	if e.tx != nil {
		for _, nf := range e.tx.ShieldedNullifiers {
			if owner, ok := mp.nullifiers[nf]; ok && owner != e.hash {
				conflicts[owner] = struct{}{}
			}
		}
		for _, csw := range e.tx.CswInputs {
			if sce, ok := mp.sidechains.Entry(csw.SidechainID); ok {
				if owner, ok := sce.CswOwner(csw.Nullifier); ok && owner != e.hash {
					conflicts[owner] = struct{}{}
				}
			}
		}
	}

	for h := range conflicts {
		if _, stillPending := mp.lookupLocked(h); !stillPending {
			continue
		}
		txs, certs := mp.removeLocked(h, true)
		removedTxs = append(removedTxs, txs...)
		removedCerts = append(removedCerts, certs...)
	}

	if e.cert != nil {
		for _, certHash := range mp.sidechains.CertificatesForEpoch(e.scID, e.epoch) {
			if certHash == e.hash {
				continue
			}
			other, ok := mp.certs[certHash]
			if !ok || other.quality > e.quality {
				continue
			}
			txs, certs := mp.removeLocked(certHash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	return removedTxs, removedCerts
}

// RemoveForBlock processes a connected block. Every blockTxs/blockCerts
// entry the pool already holds is removed non-recursively (the block
// confirmed it; its own in-pool descendants remain valid). Crucially,
// removeConflictsLocked then runs against the block's own tx/cert data
// for every entry regardless of prior pool membership: a block can
// confirm a double-spend this node's pool never saw, and the pool
// transaction or certificate it conflicts with still needs clearing
// (§4.2). The fee estimator is informed of the confirmed transaction
// hashes last.
func (mp *Mempool) RemoveForBlock(blockTxs []*txtypes.Tx, blockCerts []*txtypes.Cert, height int32) (conflictingTxs []*TxEntry, conflictingCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	minedTxHashes := make([]primitives.Hash, 0, len(blockTxs))
	for _, tx := range blockTxs {
		minedTxHashes = append(minedTxHashes, tx.Hash)

		e, ok := mp.txs[tx.Hash]
		if ok {
			// Unlinked directly rather than through removeLocked, which
			// would drop the tx's pending fee-estimator observation
			// before RegisterBlock below can file it.
			mp.unlinkLocked(e)
			removeTotal.WithLabelValues("tx", "removed").Inc()
		} else {
			e = entryFromTx(tx)
		}
		txs, certs := mp.removeConflictsLocked(e)
		conflictingTxs = append(conflictingTxs, txs...)
		conflictingCerts = append(conflictingCerts, certs...)
	}
	for _, cert := range blockCerts {
		e, ok := mp.certs[cert.Hash]
		if ok {
			mp.removeLocked(cert.Hash, false)
		} else {
			e = entryFromCert(cert)
		}
		txs, certs := mp.removeConflictsLocked(e)
		conflictingTxs = append(conflictingTxs, txs...)
		conflictingCerts = append(conflictingCerts, certs...)
	}

	txCountGauge.Set(float64(len(mp.txs)))
	mp.estimator.RegisterBlock(height, minedTxHashes)
	xlog.DebugS(context.Background(), xlog.Mempool, "block connected", "height", height,
		"minedTxs", len(minedTxHashes), "conflictingTxs", len(conflictingTxs), "conflictingCerts", len(conflictingCerts))
	return conflictingTxs, conflictingCerts
}

// RemoveStale prunes entries that chain events have invalidated: CSWs
// whose sidechain is no longer CEASED, forward transfers/BTRs whose
// sidechain creation is neither pending nor alive on chain, BTRs whose
// active-cert-data-hash snapshot has gone stale, and entries whose
// sidechain timing the chain view no longer accepts.
func (mp *Mempool) RemoveStale(cv chainview.ChainView) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for hash, e := range mp.txs {
		if _, ok := mp.txs[hash]; !ok {
			continue
		}
		if !mp.txIsFreshLocked(e, cv) {
			txs, certs := mp.removeLocked(hash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	for hash, e := range mp.certs {
		if _, ok := mp.certs[hash]; !ok {
			continue
		}
		if !cv.CheckCertTiming(e.scID, e.epoch) {
			txs, certs := mp.removeLocked(hash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	return removedTxs, removedCerts
}

func (mp *Mempool) txIsFreshLocked(e *poolEntry, cv chainview.ChainView) bool {
	for _, csw := range e.tx.CswInputs {
		if cv.GetSidechainState(csw.SidechainID) != chainview.SidechainCeased {
			return false
		}
	}
	for _, sc := range e.tx.ScCreations {
		if !cv.CheckScTxTiming(sc.SidechainID) {
			return false
		}
	}
	for _, ft := range e.tx.ForwardTransfers {
		if !mp.sidechainReachableLocked(ft.SidechainID, cv) {
			return false
		}
	}
	for _, btr := range e.tx.BTRs {
		if !mp.sidechainReachableLocked(btr.SidechainID, cv) {
			return false
		}
		sce, ok := mp.sidechains.Entry(btr.SidechainID)
		if !ok {
			continue
		}
		snapshot, ok := sce.ActiveCertDataHashFor(e.hash)
		if !ok {
			continue
		}
		current, ok := cv.GetActiveCertDataHash(btr.SidechainID)
		if ok && current != snapshot {
			return false
		}
	}
	return true
}

func (mp *Mempool) sidechainReachableLocked(scID primitives.Hash, cv chainview.ChainView) bool {
	if sce, ok := mp.sidechains.Entry(scID); ok && sce.ScCreationTxHash != primitives.ZeroHash {
		return true
	}
	return cv.HaveSidechain(scID)
}

// RemoveOutOfScBalanceCsw removes every CSW-bearing transaction for any
// sidechain whose pool-aggregate cswTotalAmount exceeds the chain-side
// balance.
func (mp *Mempool) RemoveOutOfScBalanceCsw(cv chainview.ChainView) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for _, scID := range mp.sidechains.ScIDs() {
		entry, ok := mp.sidechains.Entry(scID)
		if !ok {
			continue
		}
		var balance primitives.Amount
		if chainSc, ok := cv.GetSidechain(scID); ok {
			balance = chainSc.Balance
		}
		if entry.CswTotalAmount <= balance {
			continue
		}
		for hash, e := range mp.txs {
			if _, ok := mp.txs[hash]; !ok {
				continue
			}
			if !txSpendsSidechainCsw(e, scID) {
				continue
			}
			txs, certs := mp.removeLocked(hash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	return removedTxs, removedCerts
}

func txSpendsSidechainCsw(e *poolEntry, scID primitives.Hash) bool {
	if e.tx == nil {
		return false
	}
	for _, csw := range e.tx.CswInputs {
		if csw.SidechainID == scID {
			return true
		}
	}
	return false
}

// RemoveWithAnchor removes every transaction using the given shielded
// anchor, and their descendants. A second call with an already-cleared
// anchor is a no-op.
func (mp *Mempool) RemoveWithAnchor(anchor primitives.Hash) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for hash, e := range mp.txs {
		if _, ok := mp.txs[hash]; !ok {
			continue
		}
		if e.tx.ShieldedAnchor == nil || *e.tx.ShieldedAnchor != anchor {
			continue
		}
		txs, certs := mp.removeLocked(hash, true)
		removedTxs = append(removedTxs, txs...)
		removedCerts = append(removedCerts, certs...)
	}
	return removedTxs, removedCerts
}

// Expire removes every entry that arrived before cutoff. This is a
// supplemented feature relative to the public interface list: the
// reference node's real mempool expires stale entries on a timer so the
// pool does not grow unbounded between blocks, and nothing in the
// Non-goals excludes it.
func (mp *Mempool) Expire(cutoff time.Time) (removedTxs []*TxEntry, removedCerts []*CertEntry) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	for hash, e := range mp.txs {
		if _, ok := mp.txs[hash]; !ok {
			continue
		}
		if e.arrivalTime.Before(cutoff) {
			txs, certs := mp.removeLocked(hash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	for hash, e := range mp.certs {
		if _, ok := mp.certs[hash]; !ok {
			continue
		}
		if e.arrivalTime.Before(cutoff) {
			txs, certs := mp.removeLocked(hash, true)
			removedTxs = append(removedTxs, txs...)
			removedCerts = append(removedCerts, certs...)
		}
	}
	return removedTxs, removedCerts
}
