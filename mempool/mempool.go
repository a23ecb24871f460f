// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package mempool implements the transaction/certificate mempool core:
// an in-memory index of pending transactions and sidechain certificates
// that tracks outpoints, nullifiers, and per-sidechain state, enforces
// the pool's structural invariants, walks the tx/cert DAG, and prunes
// entries on chain events (§4.2).
package mempool

import (
	"sync"

	"github.com/decred/dcrd/lru"

	"github.com/hznlabs/coretx/feeestimator"
	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/sidechain"
)

// defaultRejectedCacheSize bounds the "recently refused" admission
// cache; it exists purely to avoid repeatedly walking the full
// conflict-check path for a hash a peer keeps re-announcing.
const defaultRejectedCacheSize = 50000

// Config holds the Mempool's tunables. Build one with New's functional
// options rather than constructing it directly.
type Config struct {
	// FeeEstimatorMaxRollback is how many registered blocks the
	// embedded fee estimator keeps enough history to undo.
	FeeEstimatorMaxRollback int

	// RejectedCacheSize bounds the LRU cache of recently refused
	// admission hashes.
	RejectedCacheSize uint
}

// Option configures a Config field.
type Option func(*Config)

// WithFeeEstimatorMaxRollback overrides the embedded fee estimator's
// rollback depth.
func WithFeeEstimatorMaxRollback(n int) Option {
	return func(c *Config) { c.FeeEstimatorMaxRollback = n }
}

// WithRejectedCacheSize overrides the recently-rejected admission cache
// capacity.
func WithRejectedCacheSize(n uint) Option {
	return func(c *Config) { c.RejectedCacheSize = n }
}

func defaultConfig() Config {
	return Config{
		FeeEstimatorMaxRollback: 100,
		RejectedCacheSize:       defaultRejectedCacheSize,
	}
}

type priorityDelta struct {
	dPriority float64
	dFee      primitives.Amount
}

// Mempool is the process-wide pending-entry index. All exported methods
// except Estimator acquire the single internal lock; §5 requires that none of them
// suspend while holding it.
type Mempool struct {
	mu sync.Mutex

	cfg Config

	txs   map[primitives.Hash]*poolEntry
	certs map[primitives.Hash]*poolEntry

	// nextUser records who is spending each outpoint, by hash only
	// (§9 "keep hashes, not raw pointers"), resolved back through txs
	// or certs.
	nextUser map[primitives.Outpoint]primitives.InputLocator

	// spentBy is nextUser's reverse index keyed by the spent
	// transaction's hash alone (ignoring output index), so descendant
	// DAG walks don't need to know how many outputs an entry has.
	spentBy map[primitives.Hash]map[primitives.Hash]struct{}

	// nullifiers tracks shielded-input occupancy; CSW nullifiers are
	// tracked per-sidechain inside sidechains instead, since they are
	// scoped to one sidechain rather than global.
	nullifiers map[primitives.Hash]primitives.Hash

	sidechains *sidechain.Index

	priorityDeltas map[primitives.Hash]priorityDelta

	recentlyAdded   []primitives.Hash
	sequenceCounter uint64
	notifiedUpTo    uint64
	listeners       []func([]primitives.Hash)

	rejected lru.Cache

	estimator *feeestimator.Estimator
}

// New builds an empty Mempool.
func New(opts ...Option) *Mempool {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Mempool{
		cfg:            cfg,
		txs:            make(map[primitives.Hash]*poolEntry),
		certs:          make(map[primitives.Hash]*poolEntry),
		nextUser:       make(map[primitives.Outpoint]primitives.InputLocator),
		spentBy:        make(map[primitives.Hash]map[primitives.Hash]struct{}),
		nullifiers:     make(map[primitives.Hash]primitives.Hash),
		sidechains:     sidechain.New(),
		priorityDeltas: make(map[primitives.Hash]priorityDelta),
		rejected:       lru.NewCache(cfg.RejectedCacheSize),
		estimator:      feeestimator.New(cfg.FeeEstimatorMaxRollback),
	}
}

// Estimator returns the embedded fee/priority estimator. The mempool is
// its only writer (§9); callers outside this package should treat it as
// read-only.
func (mp *Mempool) Estimator() *feeestimator.Estimator {
	return mp.estimator
}

// Count returns the number of pending transactions and certificates.
func (mp *Mempool) Count() (txCount, certCount int) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	return len(mp.txs), len(mp.certs)
}

// Clear drains every entry table and the recently-added queue (§5
// "clear() drains all tables"). The recently-rejected cache, the
// embedded fee estimator, the sequence and notified-up-to counters, and
// the registered listeners are kept as they are.
func (mp *Mempool) Clear() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.txs = make(map[primitives.Hash]*poolEntry)
	mp.certs = make(map[primitives.Hash]*poolEntry)
	mp.nextUser = make(map[primitives.Outpoint]primitives.InputLocator)
	mp.spentBy = make(map[primitives.Hash]map[primitives.Hash]struct{})
	mp.nullifiers = make(map[primitives.Hash]primitives.Hash)
	mp.sidechains = sidechain.New()
	mp.priorityDeltas = make(map[primitives.Hash]priorityDelta)
	mp.recentlyAdded = nil
}

func (mp *Mempool) lookupLocked(hash primitives.Hash) (*poolEntry, bool) {
	if e, ok := mp.txs[hash]; ok {
		return e, true
	}
	if e, ok := mp.certs[hash]; ok {
		return e, true
	}
	return nil, false
}

// LookupTx returns the pending transaction named by hash, if any.
func (mp *Mempool) LookupTx(hash primitives.Hash) (*TxEntry, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.txs[hash]
	if !ok {
		return nil, false
	}
	return e.toTxEntry(), true
}

// LookupCert returns the pending certificate named by hash, if any.
func (mp *Mempool) LookupCert(hash primitives.Hash) (*CertEntry, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.certs[hash]
	if !ok {
		return nil, false
	}
	return e.toCertEntry(), true
}

// FindCertWithQuality returns the pending certificate for scID, across
// any of its epochs, ranked at exactly the given quality (§6
// Block-builder/Wallet surface).
func (mp *Mempool) FindCertWithQuality(scID primitives.Hash, quality int64) (*CertEntry, bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	hash, ok := mp.sidechains.CertificateWithQuality(scID, quality)
	if !ok {
		return nil, false
	}
	e, ok := mp.certs[hash]
	if !ok {
		return nil, false
	}
	return e.toCertEntry(), true
}

// QueryHashes returns every pending transaction and certificate hash.
func (mp *Mempool) QueryHashes() []primitives.Hash {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	out := make([]primitives.Hash, 0, len(mp.txs)+len(mp.certs))
	for h := range mp.txs {
		out = append(out, h)
	}
	for h := range mp.certs {
		out = append(out, h)
	}
	return out
}

// DynamicMemoryUsage estimates the pool's total heap footprint.
func (mp *Mempool) DynamicMemoryUsage() int {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	total := 0
	for _, e := range mp.txs {
		total += e.memoryUsage
	}
	for _, e := range mp.certs {
		total += e.memoryUsage
	}
	return total
}

func (mp *Mempool) addSpentByLocked(ownedHash, spenderHash primitives.Hash) {
	set, ok := mp.spentBy[ownedHash]
	if !ok {
		set = make(map[primitives.Hash]struct{})
		mp.spentBy[ownedHash] = set
	}
	set[spenderHash] = struct{}{}
}

func (mp *Mempool) removeSpentByLocked(ownedHash, spenderHash primitives.Hash) {
	set, ok := mp.spentBy[ownedHash]
	if !ok {
		return
	}
	delete(set, spenderHash)
	if len(set) == 0 {
		delete(mp.spentBy, ownedHash)
	}
}
