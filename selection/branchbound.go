// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import "github.com/hznlabs/coretx/primitives"

// BranchAndBoundSolver explores the include/exclude decision tree over
// candidates in descending-amount order, pruning on feasibility,
// reachability, and the running objective bound. It yields the exact
// optimum, unlike SlidingWindowSolver.
type BranchAndBoundSolver struct {
	*base
}

// NewBranchAndBound builds a solver over candidates, ready for Solve or
// StartAsync.
func NewBranchAndBound(candidates []Candidate, targetAmount, targetAmountCeiling primitives.Amount, sizeCeiling uint32) *BranchAndBoundSolver {
	s := &BranchAndBoundSolver{}
	s.base = newBase(variantBranchAndBound, candidates, targetAmount, targetAmountCeiling, sizeCeiling, branchAndBoundRun)
	return s
}

// bbFrame is one node of the decision tree: the state of the search
// (how much is committed and which candidates are in) the instant the
// node is visited. Frames carry their own copy of the selection so the
// stack needs no explicit backtracking/undo step.
type bbFrame struct {
	index     int
	amount    primitives.Amount
	size      uint32
	count     uint32
	selection Selection
}

// branchAndBoundRun explores the tree with an explicit stack, as the
// spec recommends over deep native recursion once candidate counts grow
// past a few thousand. Cancellation is sampled once per popped frame,
// i.e. once per recursion entry.
func branchAndBoundRun(b *base) {
	n := len(b.candidates)

	// cumulativeAmountForward[i] = sum of amounts at indices >= i; used
	// by the reachability prune.
	cumulativeAmountForward := make([]primitives.Amount, n+1)
	for i := n - 1; i >= 0; i-- {
		cumulativeAmountForward[i] = cumulativeAmountForward[i+1] + b.candidates[i].Amount
	}

	stack := make([]bbFrame, 0, n+1)
	stack = append(stack, bbFrame{index: 0, selection: make(Selection, n)})

	for len(stack) > 0 {
		if b.stopped() {
			return
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		// 1. Feasibility prune (upper bounds).
		if f.amount > b.targetAmountCeiling || f.size > b.sizeCeiling {
			continue
		}
		// 2. Reachability prune (lower bound): no descendant can reach
		// targetAmount even by taking every remaining candidate.
		if f.amount+cumulativeAmountForward[f.index] < b.targetAmount {
			continue
		}

		// 4. Leaf.
		if f.index == n {
			if f.amount >= b.targetAmount {
				b.tryRecordBest(f.selection, f.amount, f.size, f.count)
			}
			continue
		}

		// 3. Bounding prune (objective): no descendant subtree can beat
		// the incumbent's count, or tie it with a smaller amount.
		remaining := uint32(n - f.index)
		bestCount, bestAmount := b.incumbent()
		if f.count+remaining < bestCount {
			continue
		}
		if f.count+remaining == bestCount && f.amount >= bestAmount {
			continue
		}

		// 5. Recurse: push exclude first so include pops first (LIFO),
		// matching "include branch first, then exclude branch".
		stack = append(stack, bbFrame{
			index:     f.index + 1,
			amount:    f.amount,
			size:      f.size,
			count:     f.count,
			selection: f.selection,
		})

		included := f.selection.Clone()
		included[f.index] = true
		stack = append(stack, bbFrame{
			index:     f.index + 1,
			amount:    f.amount + b.candidates[f.index].Amount,
			size:      f.size + b.candidates[f.index].Size,
			count:     f.count + 1,
			selection: included,
		})
	}
}

// incumbent is a small accessor used mid-search by the bounding prune;
// it takes the lock briefly rather than exposing the raw fields.
func (b *base) incumbent() (count uint32, amount primitives.Amount) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimalCount, b.optimalTotalAmount
}
