// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/cockroachdb/errors"

	xlog "github.com/hznlabs/coretx/internal/log"
	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

// CheckIncomingTxConflicts reports whether tx may be admitted. A false
// return carries a diagnostic reason the caller should log and act on
// by dropping tx (§4.2 admission pre-check); it is never a fatal
// condition.
func (mp *Mempool) CheckIncomingTxConflicts(tx *txtypes.Tx) (bool, string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.rejected.Contains(tx.Hash) {
		return mp.refuse(tx.Hash, "recently rejected")
	}
	if _, ok := mp.lookupLocked(tx.Hash); ok {
		return mp.refuse(tx.Hash, "hash already pending")
	}
	for _, in := range tx.Vin {
		if _, ok := mp.nextUser[in.PrevOut]; ok {
			return mp.refuse(tx.Hash, "double spend of pool outpoint")
		}
		// BTRs must mature on-chain before their outputs can be spent;
		// change outputs of the certificate transaction itself are not
		// modeled separately here, so any spend of an in-pool cert's
		// output is refused.
		if _, ok := mp.certs[in.PrevOut.Hash]; ok {
			return mp.refuse(tx.Hash, "spends output of in-pool certificate before maturity")
		}
	}
	for _, nf := range tx.ShieldedNullifiers {
		if _, ok := mp.nullifiers[nf]; ok {
			return mp.refuse(tx.Hash, "shielded nullifier collision")
		}
	}
	for _, csw := range tx.CswInputs {
		if sce, ok := mp.sidechains.Entry(csw.SidechainID); ok && sce.HaveCswNullifier(csw.Nullifier) {
			return mp.refuse(tx.Hash, "csw nullifier collision")
		}
	}
	for _, sc := range tx.ScCreations {
		if sce, ok := mp.sidechains.Entry(sc.SidechainID); ok && sce.ScCreationTxHash != primitives.ZeroHash {
			return mp.refuse(tx.Hash, "sidechain creation already pending")
		}
	}
	return true, ""
}

// CheckIncomingCertConflicts reports whether cert may be admitted. No
// cert may structurally depend (via a vin) on a pool cert for the same
// sidechain at equal or higher quality, since a lower-quality cert can
// never supersede what it spends (§4.2).
func (mp *Mempool) CheckIncomingCertConflicts(cert *txtypes.Cert) (bool, string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.rejected.Contains(cert.Hash) {
		return mp.refuse(cert.Hash, "recently rejected")
	}
	if _, ok := mp.lookupLocked(cert.Hash); ok {
		return mp.refuse(cert.Hash, "hash already pending")
	}
	for _, in := range cert.Vin {
		if _, ok := mp.nextUser[in.PrevOut]; ok {
			return mp.refuse(cert.Hash, "double spend of pool outpoint")
		}
		if owner, ok := mp.certs[in.PrevOut.Hash]; ok && owner.scID == cert.SidechainID && owner.quality >= cert.Quality {
			return mp.refuse(cert.Hash, "depends on equal-or-higher-quality ancestor certificate")
		}
	}
	return true, ""
}

func (mp *Mempool) refuse(hash primitives.Hash, reason string) (bool, string) {
	mp.rejected.Add(hash)
	xlog.WarnS(context.Background(), xlog.Mempool, "admission refused", errors.Newf("%s", reason), "hash", hash)
	return false, reason
}
