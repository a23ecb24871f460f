// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package feeestimator implements the fee/priority estimator the mempool
// core embeds and mutates under its own lock (§4.2, §6): a binned
// history of how many blocks it took a transaction of a given fee rate
// to confirm, with support for rolling a disconnected block back out of
// the history.
package feeestimator

import (
	"context"
	"math/rand"
	"sort"
	"sync"

	xlog "github.com/hznlabs/coretx/internal/log"
	"github.com/hznlabs/coretx/primitives"
)

const (
	// maxConfirmDepth is the number of blocks-to-confirm buckets tracked.
	maxConfirmDepth = 25

	// defaultBinSize caps how many observations are kept per bucket
	// before random replacement kicks in.
	defaultBinSize = 100

	// defaultMaxReplacements bounds how many random replacements a
	// single RegisterBlock call may perform, so a very large block
	// cannot spend unbounded time evicting old observations.
	defaultMaxReplacements = 10
)

// RatePerByte is a fee rate, in Amount per serialized byte.
type RatePerByte float64

// Fee returns the fee implied by this rate for a transaction of the
// given size.
func (r RatePerByte) Fee(size uint32) primitives.Amount {
	return primitives.Amount(float64(r) * float64(size))
}

type observation struct {
	hash        primitives.Hash
	size        uint32
	fee         primitives.Amount
	addedHeight int32
	bin         int // -1 until registered into a confirm-depth bucket
}

// registeredBlock records what a RegisterBlock call did, so a later
// Rollback (triggered by a reorg disconnecting that block) can undo it.
type registeredBlock struct {
	height       int32
	observations []*observation
	replaced     map[int][]*observation // bin -> observations evicted by replacement
}

// Estimator is the concrete fee/priority estimator embedded in the
// mempool core. All exported methods are safe for concurrent use, but in
// practice the mempool core only calls them while already holding its
// own lock (§5 "Shared mutable state with the fee estimator").
type Estimator struct {
	maxRollback     int
	binSize         int
	maxReplacements int

	mtx     sync.RWMutex
	rng     *rand.Rand
	observed map[primitives.Hash]*observation
	bins    [maxConfirmDepth][]*observation
	history []registeredBlock
}

// New builds an Estimator that keeps at most maxRollback registered
// blocks of rollback history.
func New(maxRollback int) *Estimator {
	if maxRollback <= 0 {
		maxRollback = 1
	}
	return &Estimator{
		maxRollback:     maxRollback,
		binSize:         defaultBinSize,
		maxReplacements: defaultMaxReplacements,
		rng:             rand.New(rand.NewSource(0)),
		observed:        make(map[primitives.Hash]*observation),
	}
}

// ObserveTransaction records a transaction that just entered the pool at
// the given height, so its time-to-confirm can be tracked once it is
// mined.
func (e *Estimator) ObserveTransaction(hash primitives.Hash, size uint32, fee primitives.Amount, height int32) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if _, ok := e.observed[hash]; ok {
		return
	}
	e.observed[hash] = &observation{hash: hash, size: size, fee: fee, addedHeight: height, bin: -1}
}

// RemoveTx drops a transaction from observation without ever recording
// how long it took to confirm, used when a tx leaves the pool for a
// reason other than confirmation (double-spend, staleness, ...).
func (e *Estimator) RemoveTx(hash primitives.Hash) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	delete(e.observed, hash)
}

// RegisterBlock files every one of minedHashes that this estimator is
// currently observing into the bucket for how many blocks it took to
// confirm, evicting older observations at random once a bucket is full.
func (e *Estimator) RegisterBlock(height int32, minedHashes []primitives.Hash) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	rec := registeredBlock{height: height, replaced: make(map[int][]*observation)}
	for _, h := range minedHashes {
		obs, ok := e.observed[h]
		if !ok {
			continue
		}
		delete(e.observed, h)

		confirmedIn := int(height - obs.addedHeight)
		if confirmedIn < 0 {
			confirmedIn = 0
		}
		if confirmedIn >= maxConfirmDepth {
			confirmedIn = maxConfirmDepth - 1
		}
		obs.bin = confirmedIn

		bucket := e.bins[confirmedIn]
		if len(bucket) < e.binSize {
			e.bins[confirmedIn] = append(bucket, obs)
		} else if len(rec.replaced[confirmedIn]) < e.maxReplacements {
			victim := e.rng.Intn(len(bucket))
			rec.replaced[confirmedIn] = append(rec.replaced[confirmedIn], bucket[victim])
			bucket[victim] = obs
		}
		rec.observations = append(rec.observations, obs)
	}

	e.history = append(e.history, rec)
	if len(e.history) > e.maxRollback {
		e.history = e.history[len(e.history)-e.maxRollback:]
	}

	xlog.DebugS(context.Background(), xlog.Feeest, "registered block",
		"height", height, "minedObserved", len(rec.observations))
}

// Rollback undoes the most recent RegisterBlock, moving its observations
// back into the pending set and restoring whatever they replaced. Only
// the last maxRollback registered blocks are retained, so it is a no-op
// once every retained block has been rolled back.
func (e *Estimator) Rollback() {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	if len(e.history) == 0 {
		return
	}
	rec := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]

	for _, obs := range rec.observations {
		bucket := e.bins[obs.bin]
		for i, o := range bucket {
			if o == obs {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		e.bins[obs.bin] = bucket
		obs.bin = -1
		e.observed[obs.hash] = obs
	}
	for bin, victims := range rec.replaced {
		e.bins[bin] = append(e.bins[bin], victims...)
	}

	xlog.DebugS(context.Background(), xlog.Feeest, "rolled back block", "height", rec.height)
}

// EstimateFee estimates the fee rate, in Amount/byte, needed to confirm
// within numBlocks blocks, based on the median fee rate among
// observations filed in confirm-depth buckets 0 through numBlocks-1,
// i.e. those mined fewer than numBlocks blocks after the height they
// were observed at. It returns -1 if there is not enough history to
// estimate.
func (e *Estimator) EstimateFee(numBlocks uint32) RatePerByte {
	e.mtx.RLock()
	defer e.mtx.RUnlock()

	depth := int(numBlocks)
	if depth <= 0 {
		depth = 1
	}
	if depth > maxConfirmDepth {
		depth = maxConfirmDepth
	}

	var rates []float64
	for i := 0; i < depth; i++ {
		for _, obs := range e.bins[i] {
			if obs.size == 0 {
				continue
			}
			rates = append(rates, float64(obs.fee)/float64(obs.size))
		}
	}
	if len(rates) == 0 {
		return -1
	}
	sort.Float64s(rates)
	return RatePerByte(rates[len(rates)/2])
}
