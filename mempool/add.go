// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/cockroachdb/errors"

	xlog "github.com/hznlabs/coretx/internal/log"
	"github.com/hznlabs/coretx/internal/invariant"
	"github.com/hznlabs/coretx/primitives"
)

// AddUncheckedTx inserts te under hash, assuming an external validator
// has already approved it for admission. Every secondary index is
// updated atomically under the mempool lock (§4.2). scIDToCertDataHash
// supplies the active-cert-data-hash snapshot for each sidechain ID
// targeted by one of te's backward-transfer requests.
//
// It always returns true. If te.Tx.Hash already names a pool entry,
// which is a caller programming error (checkIncomingTxConflicts exists
// precisely to prevent this), it panics through invariant.Violation
// rather than silently overwriting an owned entry.
func (mp *Mempool) AddUncheckedTx(te TxEntry, currentHeight int32, scIDToCertDataHash map[primitives.Hash]primitives.Hash) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	hash := te.Tx.Hash
	if _, exists := mp.lookupLocked(hash); exists {
		invariant.Violation(errors.AssertionFailedWithDepthf(1, "addUncheckedTx: %s already present in pool", hash))
	}

	e := newTxPoolEntry(te)
	e.hadNoInMempoolParents = len(mp.directAncestorsLocked(e)) == 0
	e.memoryUsage = dynamicMemUsage(te.Tx)
	e.sequence = mp.nextSequenceLocked()

	mp.txs[hash] = e
	for i, in := range e.vin {
		mp.nextUser[in.PrevOut] = primitives.InputLocator{OwnerHash: hash, VinIndex: uint32(i)}
		mp.addSpentByLocked(in.PrevOut.Hash, hash)
	}
	for _, nf := range te.Tx.ShieldedNullifiers {
		mp.nullifiers[nf] = hash
	}
	for _, sc := range te.Tx.ScCreations {
		mp.sidechains.AddScCreation(sc.SidechainID, hash)
	}
	for _, ft := range te.Tx.ForwardTransfers {
		mp.sidechains.AddForwardTransfer(ft.SidechainID, hash)
	}
	for _, btr := range te.Tx.BTRs {
		mp.sidechains.AddBackwardTransferRequest(btr.SidechainID, hash, scIDToCertDataHash[btr.SidechainID])
	}
	for _, csw := range te.Tx.CswInputs {
		mp.sidechains.AddCswInput(csw.SidechainID, csw.Nullifier, hash, csw.Value)
	}

	mp.recentlyAdded = append(mp.recentlyAdded, hash)
	mp.rejected.Delete(hash)
	mp.estimator.ObserveTransaction(hash, uint32(te.SerializeSize), te.Fee, currentHeight)

	addTotal.WithLabelValues("tx").Inc()
	txCountGauge.Set(float64(len(mp.txs)))
	xlog.DebugS(context.Background(), xlog.Mempool, "tx added", "hash", hash, "vin", len(e.vin))
	return true
}

// AddUncheckedCert inserts ce under hash, assuming an external validator
// has already approved it.
func (mp *Mempool) AddUncheckedCert(ce CertEntry) bool {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	hash := ce.Cert.Hash
	if _, exists := mp.lookupLocked(hash); exists {
		invariant.Violation(errors.AssertionFailedWithDepthf(1, "addUncheckedCert: %s already present in pool", hash))
	}

	e := newCertPoolEntry(ce)
	e.hadNoInMempoolParents = len(mp.directAncestorsLocked(e)) == 0
	e.memoryUsage = dynamicMemUsage(ce.Cert)
	e.sequence = mp.nextSequenceLocked()

	mp.certs[hash] = e
	for i, in := range e.vin {
		mp.nextUser[in.PrevOut] = primitives.InputLocator{OwnerHash: hash, VinIndex: uint32(i)}
		mp.addSpentByLocked(in.PrevOut.Hash, hash)
	}
	mp.sidechains.AddCertificate(ce.Cert.SidechainID, ce.Cert.Epoch, hash, ce.Cert.Quality)

	mp.recentlyAdded = append(mp.recentlyAdded, hash)
	mp.rejected.Delete(hash)

	addTotal.WithLabelValues("cert").Inc()
	certCountGauge.Set(float64(len(mp.certs)))
	xlog.DebugS(context.Background(), xlog.Mempool, "cert added", "hash", hash, "scID", ce.Cert.SidechainID, "quality", ce.Cert.Quality)
	return true
}

func (mp *Mempool) nextSequenceLocked() uint64 {
	mp.sequenceCounter++
	return mp.sequenceCounter
}
