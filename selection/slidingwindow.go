// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import "github.com/hznlabs/coretx/primitives"

// SlidingWindowSolver maintains a two-pointer window over the
// descending-amount candidate array. It runs in O(n): each index is
// pushed into the window and popped out of it at most once.
type SlidingWindowSolver struct {
	*base
}

// NewSlidingWindow builds a solver over candidates, ready for Solve or
// StartAsync. targetAmount is the inclusive lower bound, targetAmountCeiling
// the inclusive upper bound on the selected total, and sizeCeiling the
// upper bound on the selected total size.
func NewSlidingWindow(candidates []Candidate, targetAmount, targetAmountCeiling primitives.Amount, sizeCeiling uint32) *SlidingWindowSolver {
	s := &SlidingWindowSolver{}
	s.base = newBase(variantSlidingWindow, candidates, targetAmount, targetAmountCeiling, sizeCeiling, slidingWindowRun)
	return s
}

func slidingWindowRun(b *base) {
	n := len(b.candidates)
	lo, hi := 0, 0
	var amount primitives.Amount
	var size uint32
	window := make(Selection, n)

	for hi < n {
		if b.stopped() {
			return
		}

		// 1. Include candidate hi; advance running totals.
		window[hi] = true
		amount += b.candidates[hi].Amount
		size += b.candidates[hi].Size
		hi++

		// 2. Shrink from lo while either ceiling is violated.
		for lo < hi && (amount > b.targetAmountCeiling || size > b.sizeCeiling) {
			window[lo] = false
			amount -= b.candidates[lo].Amount
			size -= b.candidates[lo].Size
			lo++
		}

		// 3. Record the window as the new best if it is admissible and
		// improves on the incumbent.
		if amount >= b.targetAmount {
			count := uint32(hi - lo)
			b.tryRecordBest(window.Clone(), amount, size, count)
		}
	}
}
