// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sidechain holds the per-sidechain view the mempool core keeps
// on top of its primary tx/cert tables: which in-mempool transaction (if
// any) created a sidechain, which forward transfers and backward
// transfer requests target it, which ceased-sidechain-withdrawal
// nullifiers it has seen and their running total, and the
// highest-quality pending certificate for each of its epochs. All of it
// is mutated exclusively by the mempool core under the mempool's own
// lock (§3, §4.2, §5); this package does no locking of its own.
package sidechain

import "github.com/hznlabs/coretx/primitives"

// Entry is everything the mempool tracks about one sidechain ID across
// its pending transactions and certificates.
type Entry struct {
	// ScCreationTxHash is the hash of the in-mempool transaction that
	// created this sidechain, or the zero hash if the sidechain already
	// existed on-chain (or its creation isn't in the mempool).
	ScCreationTxHash primitives.Hash

	forwardTransferTxHashes map[primitives.Hash]struct{}

	// backwardTransferRequests maps a BTR-bearing tx hash to the
	// active-cert-data-hash it was built against, so the mempool can
	// detect when that snapshot goes stale (§4.2 invariant on BTR
	// validity).
	backwardTransferRequests map[primitives.Hash]primitives.Hash

	// cswNullifiers maps a ceased-sidechain-withdrawal nullifier to the
	// hash of the tx that spends it.
	cswNullifiers map[primitives.Hash]primitives.Hash
	CswTotalAmount primitives.Amount

	// certsByEpoch tracks, per epoch, every pending certificate
	// competing to be the active one, ordered by quality.
	certsByEpoch map[uint32]*qualityTable
}

func newEntry() *Entry {
	return &Entry{
		forwardTransferTxHashes:  make(map[primitives.Hash]struct{}),
		backwardTransferRequests: make(map[primitives.Hash]primitives.Hash),
		cswNullifiers:            make(map[primitives.Hash]primitives.Hash),
		certsByEpoch:             make(map[uint32]*qualityTable),
	}
}

// isNull reports whether this entry carries no pending state at all and
// can be dropped from the index.
func (e *Entry) isNull() bool {
	if e.ScCreationTxHash != primitives.ZeroHash {
		return false
	}
	if len(e.forwardTransferTxHashes) != 0 || len(e.backwardTransferRequests) != 0 {
		return false
	}
	if len(e.cswNullifiers) != 0 {
		return false
	}
	for _, t := range e.certsByEpoch {
		if !t.isEmpty() {
			return false
		}
	}
	return true
}

// ForwardTransferTxHashes returns the set of in-mempool transaction
// hashes carrying a forward transfer into this sidechain.
func (e *Entry) ForwardTransferTxHashes() []primitives.Hash {
	out := make([]primitives.Hash, 0, len(e.forwardTransferTxHashes))
	for h := range e.forwardTransferTxHashes {
		out = append(out, h)
	}
	return out
}

// BackwardTransferRequestTxHashes returns the in-mempool transaction
// hashes carrying a BTR against this sidechain.
func (e *Entry) BackwardTransferRequestTxHashes() []primitives.Hash {
	out := make([]primitives.Hash, 0, len(e.backwardTransferRequests))
	for h := range e.backwardTransferRequests {
		out = append(out, h)
	}
	return out
}

// ActiveCertDataHashFor returns the active-cert-data-hash snapshot a
// given BTR-bearing tx was built against.
func (e *Entry) ActiveCertDataHashFor(txHash primitives.Hash) (primitives.Hash, bool) {
	h, ok := e.backwardTransferRequests[txHash]
	return h, ok
}

// HaveCswNullifier reports whether a CSW input with this nullifier is
// already pending against this sidechain.
func (e *Entry) HaveCswNullifier(nullifier primitives.Hash) bool {
	_, ok := e.cswNullifiers[nullifier]
	return ok
}

// CswOwner returns the hash of the transaction that spends nullifier
// against this sidechain, if any.
func (e *Entry) CswOwner(nullifier primitives.Hash) (primitives.Hash, bool) {
	h, ok := e.cswNullifiers[nullifier]
	return h, ok
}

// Index is the sidechain-keyed side table the mempool core owns.
type Index struct {
	entries map[primitives.Hash]*Entry
}

// New builds an empty sidechain index.
func New() *Index {
	return &Index{entries: make(map[primitives.Hash]*Entry)}
}

// Entry returns the entry for a sidechain ID, if any pending state
// exists for it.
func (idx *Index) Entry(scID primitives.Hash) (*Entry, bool) {
	e, ok := idx.entries[scID]
	return e, ok
}

// ScIDs returns every sidechain ID currently carrying pending state.
func (idx *Index) ScIDs() []primitives.Hash {
	out := make([]primitives.Hash, 0, len(idx.entries))
	for id := range idx.entries {
		out = append(out, id)
	}
	return out
}

func (idx *Index) entryForWrite(scID primitives.Hash) *Entry {
	e, ok := idx.entries[scID]
	if !ok {
		e = newEntry()
		idx.entries[scID] = e
	}
	return e
}

// pruneIfEmpty drops scID's entry once it no longer carries any pending
// state, keeping the index from accumulating empty entries as
// transactions and certificates leave the pool.
func (idx *Index) pruneIfEmpty(scID primitives.Hash) {
	if e, ok := idx.entries[scID]; ok && e.isNull() {
		delete(idx.entries, scID)
	}
}

// AddScCreation records that txHash creates scID.
func (idx *Index) AddScCreation(scID, txHash primitives.Hash) {
	idx.entryForWrite(scID).ScCreationTxHash = txHash
}

// RemoveScCreation clears the creation record for scID, if it was set to
// txHash.
func (idx *Index) RemoveScCreation(scID, txHash primitives.Hash) {
	e, ok := idx.entries[scID]
	if !ok || e.ScCreationTxHash != txHash {
		return
	}
	e.ScCreationTxHash = primitives.ZeroHash
	idx.pruneIfEmpty(scID)
}

// AddForwardTransfer records that txHash carries a forward transfer into
// scID.
func (idx *Index) AddForwardTransfer(scID, txHash primitives.Hash) {
	idx.entryForWrite(scID).forwardTransferTxHashes[txHash] = struct{}{}
}

// RemoveForwardTransfer undoes AddForwardTransfer.
func (idx *Index) RemoveForwardTransfer(scID, txHash primitives.Hash) {
	e, ok := idx.entries[scID]
	if !ok {
		return
	}
	delete(e.forwardTransferTxHashes, txHash)
	idx.pruneIfEmpty(scID)
}

// AddBackwardTransferRequest records that txHash carries a BTR against
// scID, built against the given active-cert-data-hash snapshot.
func (idx *Index) AddBackwardTransferRequest(scID, txHash, activeCertDataHash primitives.Hash) {
	idx.entryForWrite(scID).backwardTransferRequests[txHash] = activeCertDataHash
}

// RemoveBackwardTransferRequest undoes AddBackwardTransferRequest.
func (idx *Index) RemoveBackwardTransferRequest(scID, txHash primitives.Hash) {
	e, ok := idx.entries[scID]
	if !ok {
		return
	}
	delete(e.backwardTransferRequests, txHash)
	idx.pruneIfEmpty(scID)
}

// AddCswInput records a ceased-sidechain-withdrawal input spending
// nullifier from scID, owned by txHash, and folds value into the
// sidechain's pending CSW total.
func (idx *Index) AddCswInput(scID, nullifier, txHash primitives.Hash, value primitives.Amount) {
	e := idx.entryForWrite(scID)
	e.cswNullifiers[nullifier] = txHash
	e.CswTotalAmount += value
}

// RemoveCswInput undoes AddCswInput.
func (idx *Index) RemoveCswInput(scID, nullifier primitives.Hash, value primitives.Amount) {
	e, ok := idx.entries[scID]
	if !ok {
		return
	}
	if _, present := e.cswNullifiers[nullifier]; !present {
		return
	}
	delete(e.cswNullifiers, nullifier)
	e.CswTotalAmount -= value
	idx.pruneIfEmpty(scID)
}

// AddCertificate records certHash as a pending candidate for scID's
// given epoch, at the given quality.
func (idx *Index) AddCertificate(scID primitives.Hash, epoch uint32, certHash primitives.Hash, quality int64) {
	e := idx.entryForWrite(scID)
	t, ok := e.certsByEpoch[epoch]
	if !ok {
		t = &qualityTable{}
		e.certsByEpoch[epoch] = t
	}
	t.insert(certHash, quality)
}

// RemoveCertificate undoes AddCertificate.
func (idx *Index) RemoveCertificate(scID primitives.Hash, epoch uint32, certHash primitives.Hash) {
	e, ok := idx.entries[scID]
	if !ok {
		return
	}
	t, ok := e.certsByEpoch[epoch]
	if !ok {
		return
	}
	t.remove(certHash)
	if t.isEmpty() {
		delete(e.certsByEpoch, epoch)
	}
	idx.pruneIfEmpty(scID)
}

// BestCertificate returns the highest-quality pending certificate for
// (scID, epoch), if any.
func (idx *Index) BestCertificate(scID primitives.Hash, epoch uint32) (primitives.Hash, bool) {
	e, ok := idx.entries[scID]
	if !ok {
		return primitives.ZeroHash, false
	}
	t, ok := e.certsByEpoch[epoch]
	if !ok {
		return primitives.ZeroHash, false
	}
	return t.best()
}

// CertificateWithQuality returns the pending certificate for scID,
// in any of its epochs, ranked at exactly the given quality.
func (idx *Index) CertificateWithQuality(scID primitives.Hash, quality int64) (primitives.Hash, bool) {
	e, ok := idx.entries[scID]
	if !ok {
		return primitives.ZeroHash, false
	}
	for _, t := range e.certsByEpoch {
		if h, ok := t.withQuality(quality); ok {
			return h, true
		}
	}
	return primitives.ZeroHash, false
}

// CertificatesForEpoch returns every pending certificate hash competing
// for (scID, epoch), best quality first.
func (idx *Index) CertificatesForEpoch(scID primitives.Hash, epoch uint32) []primitives.Hash {
	e, ok := idx.entries[scID]
	if !ok {
		return nil
	}
	t, ok := e.certsByEpoch[epoch]
	if !ok {
		return nil
	}
	return t.hashes()
}
