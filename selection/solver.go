// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package selection implements the coins-selection engine: three solver
// variants (Sliding Window, Branch & Bound, Notes) sharing one contract
// for synchronous solving plus asynchronous start/stop/poll, modeled
// after the abstract-base-with-owned-children shape of the algorithm
// family this engine was extracted from.
package selection

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	xlog "github.com/hznlabs/coretx/internal/log"
	"github.com/hznlabs/coretx/primitives"
)

// Candidate is a single spendable input: an amount and the size it would
// contribute to a transaction if selected.
type Candidate struct {
	Amount primitives.Amount
	Size   uint32
}

// Selection is a bitmask over the sorted candidate array; Selection[i]
// is true iff the candidate at sorted index i was chosen.
type Selection []bool

// Count returns the number of candidates marked true.
func (s Selection) Count() uint32 {
	var n uint32
	for _, b := range s {
		if b {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of s.
func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	copy(c, s)
	return c
}

// Solver is the common contract every selection algorithm exposes: a
// synchronous solve, an asynchronous start/stop pair, and read access to
// whatever the best-found selection is so far.
type Solver interface {
	// Solve runs the algorithm to completion on the calling goroutine.
	// It is idempotent once Completed reports true.
	Solve() bool
	// StartAsync spawns a single background worker that runs Solve. It
	// may be called once per solver instance; later calls are no-ops.
	StartAsync()
	// Stop requests cooperative cancellation and blocks until any
	// worker spawned by StartAsync has returned. Safe to call multiple
	// times, and safe to call even if StartAsync was never called.
	Stop()
	Completed() bool
	OptimalSelection() Selection
	OptimalTotalAmount() primitives.Amount
	OptimalTotalSize() uint32
	OptimalCount() uint32
}

// base is the state every solver variant shares: the candidates in
// descending-amount order, the three bounds, the mutex-guarded best
// selection found so far, and the completion, cancellation and
// async-start bookkeeping.
type base struct {
	variant variant

	candidates          []Candidate
	targetAmount        primitives.Amount
	targetAmountCeiling primitives.Amount
	sizeCeiling         uint32

	solveImpl func(b *base)

	mu                  sync.Mutex
	optimalSelection    Selection
	optimalTotalAmount  primitives.Amount
	optimalTotalSize    uint32
	optimalCount        uint32

	completed     atomic.Bool
	stopRequested atomic.Bool
	startOnce     sync.Once
	wg            sync.WaitGroup
}

// newBase sorts candidates into descending-amount order (stable over
// ties, so size follows its candidate) and prepares the scratch state
// every variant shares.
func newBase(v variant, candidates []Candidate, targetAmount, targetAmountCeiling primitives.Amount, sizeCeiling uint32, solveImpl func(*base)) *base {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	return &base{
		variant:             v,
		candidates:          sorted,
		targetAmount:        targetAmount,
		targetAmountCeiling: targetAmountCeiling,
		sizeCeiling:         sizeCeiling,
		solveImpl:           solveImpl,
		optimalSelection:    make(Selection, len(sorted)),
	}
}

// stopped reports whether cancellation has been requested; algorithms
// sample it at the boundaries documented for each variant.
func (b *base) stopped() bool {
	return b.stopRequested.Load()
}

// tryRecordBest installs sel as the incumbent if it strictly improves the
// objective: greater count, or equal count with a strictly smaller total
// amount. Callers pass a Selection they no longer need after the call
// returns false, and one they must not mutate afterward if it returns
// true (ownership of the backing array transfers to base).
func (b *base) tryRecordBest(sel Selection, amount primitives.Amount, size uint32, count uint32) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if count > b.optimalCount || (count == b.optimalCount && amount < b.optimalTotalAmount) {
		b.optimalSelection = sel
		b.optimalTotalAmount = amount
		b.optimalTotalSize = size
		b.optimalCount = count
		return true
	}
	return false
}

func (b *base) Solve() bool {
	if b.completed.Load() {
		return true
	}
	start := time.Now()
	b.solveImpl(b)
	solveDuration.WithLabelValues(string(b.variant)).Observe(time.Since(start).Seconds())
	if b.stopped() {
		xlog.DebugS(context.Background(), xlog.Selection, "solve cancelled",
			"variant", b.variant, "candidates", len(b.candidates))
		solveOutcome.WithLabelValues(string(b.variant), "cancelled").Inc()
		return false
	}
	b.completed.Store(true)
	outcome := "admissible"
	if b.OptimalCount() == 0 {
		outcome = "infeasible"
	}
	solveOutcome.WithLabelValues(string(b.variant), outcome).Inc()
	xlog.DebugS(context.Background(), xlog.Selection, "solve completed",
		"variant", b.variant, "candidates", len(b.candidates), "optimalCount", b.OptimalCount())
	return true
}

func (b *base) StartAsync() {
	b.startOnce.Do(func() {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.Solve()
		}()
	})
}

func (b *base) Stop() {
	b.stopRequested.Store(true)
	b.wg.Wait()
}

func (b *base) Completed() bool { return b.completed.Load() }

func (b *base) OptimalSelection() Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimalSelection.Clone()
}

func (b *base) OptimalTotalAmount() primitives.Amount {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimalTotalAmount
}

func (b *base) OptimalTotalSize() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimalTotalSize
}

func (b *base) OptimalCount() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimalCount
}
