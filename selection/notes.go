// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import "github.com/hznlabs/coretx/primitives"

// NotesSolver shares SlidingWindowSolver's outer loop shape but charges
// size non-additively: inputs are grouped into joinsplits of bounded
// arity, and only opening a new joinsplit adds structural size. The
// joinsplit arity is protocol-defined and must come from the external
// validator's parameters (the spec leaves this as an explicit open
// question); callers supply it at construction rather than it being a
// package constant.
type NotesSolver struct {
	*base

	joinsplitArity uint32
	joinsplitSize  uint32
	mandatorySize  uint32
}

// NewNotes builds a solver over candidates (notes), ready for Solve or
// StartAsync. joinsplitOutputAmounts is the fixed sequence of output
// amounts that must be paid out of this transaction; the joinsplits
// required to cover them are charged unconditionally. joinsplitArity is
// the maximum number of notes a single joinsplit can consume, and
// joinsplitSize is the structural size added each time a new joinsplit
// is opened.
func NewNotes(candidates []Candidate, targetAmount, targetAmountCeiling primitives.Amount, sizeCeiling uint32, joinsplitOutputAmounts []primitives.Amount, joinsplitArity, joinsplitSize uint32) *NotesSolver {
	ns := &NotesSolver{
		joinsplitArity: joinsplitArity,
		joinsplitSize:  joinsplitSize,
	}
	mandatoryJoinsplits := ceilDiv(uint32(len(joinsplitOutputAmounts)), joinsplitArity)
	ns.mandatorySize = mandatoryJoinsplits * joinsplitSize
	ns.base = newBase(variantNotes, candidates, targetAmount, targetAmountCeiling, sizeCeiling, func(b *base) {
		notesRun(b, ns)
	})
	return ns
}

func ceilDiv(n, d uint32) uint32 {
	if d == 0 {
		return n
	}
	return (n + d - 1) / d
}

// sizeFor returns the structural size of a window holding count notes:
// the mandatory output joinsplits plus however many input joinsplits
// that many notes require.
func (ns *NotesSolver) sizeFor(count uint32) uint32 {
	return ns.mandatorySize + ceilDiv(count, ns.joinsplitArity)*ns.joinsplitSize
}

func notesRun(b *base, ns *NotesSolver) {
	n := len(b.candidates)
	lo, hi := 0, 0
	var amount primitives.Amount

	for hi < n {
		if b.stopped() {
			return
		}

		amount += b.candidates[hi].Amount
		hi++
		count := uint32(hi - lo)
		size := ns.sizeFor(count)

		if amount > b.targetAmountCeiling || size > b.sizeCeiling {
			// A single popped note does not necessarily free a
			// joinsplit slot, so rather than pop-from-lo like Sliding
			// Window, abandon the whole window and restart just after
			// the smallest note it held (index hi, since notes are
			// sorted descending and the window's smallest sits at hi-1).
			lo = hi
			amount = 0
			continue
		}

		if amount >= b.targetAmount {
			sel := make(Selection, n)
			for i := lo; i < hi; i++ {
				sel[i] = true
			}
			b.tryRecordBest(sel, amount, size, count)
		}
	}
}
