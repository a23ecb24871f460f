// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

// TxEntry is the record a validator hands to AddUncheckedTx once it has
// approved a transaction for admission.
type TxEntry struct {
	Tx            *txtypes.Tx
	SerializeSize int
	ModifiedSize  int
	Fee           primitives.Amount
	ArrivalTime   time.Time
	Priority      float64
	Height        int32
}

// CertEntry is the record a validator hands to AddUncheckedCert once it
// has approved a certificate for admission.
type CertEntry struct {
	Cert          *txtypes.Cert
	SerializeSize int
	ModifiedSize  int
	ArrivalTime   time.Time
	Priority      float64
	Height        int32
}

// poolEntry is the internal owning record for a pending transaction or
// certificate. TxEntry/CertEntry is what callers pass in and read back
// out; poolEntry is the single shape the DAG walk, removal, and
// admission-check code operates on so that code need not branch on
// kind for every field access.
type poolEntry struct {
	hash                  primitives.Hash
	vin                   []txtypes.TxIn
	serializeSize         int
	modifiedSize          int
	memoryUsage           int
	arrivalTime           time.Time
	priority              float64
	height                int32
	hadNoInMempoolParents bool
	sequence              uint64

	tx   *txtypes.Tx   // nil for a certificate entry
	cert *txtypes.Cert // nil for a transaction entry

	// Set only when cert != nil.
	scID    primitives.Hash
	epoch   uint32
	quality int64
}

func (e *poolEntry) isCert() bool { return e.cert != nil }

func newTxPoolEntry(te TxEntry) *poolEntry {
	return &poolEntry{
		hash:          te.Tx.Hash,
		vin:           te.Tx.Vin,
		serializeSize: te.SerializeSize,
		modifiedSize:  te.ModifiedSize,
		arrivalTime:   te.ArrivalTime,
		priority:      te.Priority,
		height:        te.Height,
		tx:            te.Tx,
	}
}

func newCertPoolEntry(ce CertEntry) *poolEntry {
	return &poolEntry{
		hash:          ce.Cert.Hash,
		vin:           ce.Cert.Vin,
		serializeSize: ce.SerializeSize,
		modifiedSize:  ce.ModifiedSize,
		arrivalTime:   ce.ArrivalTime,
		priority:      ce.Priority,
		height:        ce.Height,
		cert:          ce.Cert,
		scID:          ce.Cert.SidechainID,
		epoch:         ce.Cert.Epoch,
		quality:       ce.Cert.Quality,
	}
}

// entryFromTx builds a poolEntry wrapping tx for conflict-detection
// purposes only, without inserting it into any table. It lets the same
// removeConflictsLocked code path run for a confirmed block tx whether
// or not this node's own pool had previously admitted it.
func entryFromTx(tx *txtypes.Tx) *poolEntry {
	return &poolEntry{hash: tx.Hash, vin: tx.Vin, tx: tx}
}

// entryFromCert is entryFromTx's certificate counterpart.
func entryFromCert(cert *txtypes.Cert) *poolEntry {
	return &poolEntry{
		hash:    cert.Hash,
		vin:     cert.Vin,
		cert:    cert,
		scID:    cert.SidechainID,
		epoch:   cert.Epoch,
		quality: cert.Quality,
	}
}

// toTxEntry projects a poolEntry known to wrap a transaction back into
// the public TxEntry shape, for returning to callers in removal lists.
func (e *poolEntry) toTxEntry() *TxEntry {
	return &TxEntry{
		Tx:            e.tx,
		SerializeSize: e.serializeSize,
		ModifiedSize:  e.modifiedSize,
		ArrivalTime:   e.arrivalTime,
		Priority:      e.priority,
		Height:        e.height,
	}
}

func (e *poolEntry) toCertEntry() *CertEntry {
	return &CertEntry{
		Cert:          e.cert,
		SerializeSize: e.serializeSize,
		ModifiedSize:  e.modifiedSize,
		ArrivalTime:   e.arrivalTime,
		Priority:      e.priority,
		Height:        e.height,
	}
}
