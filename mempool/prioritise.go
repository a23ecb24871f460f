// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "github.com/hznlabs/coretx/primitives"

// Prioritise records an operator-applied bias for hash, accumulating
// with any previous call rather than replacing it.
func (mp *Mempool) Prioritise(hash primitives.Hash, dPriority float64, dFee primitives.Amount) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	d := mp.priorityDeltas[hash]
	d.dPriority += dPriority
	d.dFee += dFee
	mp.priorityDeltas[hash] = d
}

// ClearPrioritisation removes any bias recorded for hash.
func (mp *Mempool) ClearPrioritisation(hash primitives.Hash) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	delete(mp.priorityDeltas, hash)
}

// ApplyDeltas folds hash's recorded bias into a base (priority, fee)
// pair, applied at read time rather than mutating the stored entry
// (SPEC_FULL §2.6).
func (mp *Mempool) ApplyDeltas(hash primitives.Hash, priority float64, fee primitives.Amount) (float64, primitives.Amount) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	d, ok := mp.priorityDeltas[hash]
	if !ok {
		return priority, fee
	}
	return priority + d.dPriority, fee + d.dFee
}
