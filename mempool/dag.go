// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "github.com/hznlabs/coretx/primitives"

// Ancestors returns every pool entry hash reachable by walking direct
// ancestors outward, in breadth-first discovery order (§4.2 DAG
// traversal).
func (mp *Mempool) Ancestors(hash primitives.Hash) []primitives.Hash {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.lookupLocked(hash)
	if !ok {
		return nil
	}
	return mp.ancestorsLocked(e)
}

// ancestorsLocked computes the breadth-first ancestor closure of e,
// excluding e itself.
func (mp *Mempool) ancestorsLocked(e *poolEntry) []primitives.Hash {
	visited := map[primitives.Hash]struct{}{e.hash: {}}
	var order []primitives.Hash
	queue := []primitives.Hash{e.hash}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curEntry, ok := mp.lookupLocked(cur)
		if !ok {
			continue
		}
		for _, parent := range mp.directAncestorsLocked(curEntry) {
			if _, seen := visited[parent]; seen {
				continue
			}
			visited[parent] = struct{}{}
			order = append(order, parent)
			queue = append(queue, parent)
		}
	}
	return order
}

func (mp *Mempool) directAncestorsLocked(e *poolEntry) []primitives.Hash {
	var parents []primitives.Hash
	for _, in := range e.vin {
		if owner, ok := mp.lookupLocked(in.PrevOut.Hash); ok {
			parents = append(parents, owner.hash)
		}
	}
	if e.tx != nil {
		scIDs := make(map[primitives.Hash]struct{})
		for _, ft := range e.tx.ForwardTransfers {
			scIDs[ft.SidechainID] = struct{}{}
		}
		for _, btr := range e.tx.BTRs {
			scIDs[btr.SidechainID] = struct{}{}
		}
		for scID := range scIDs {
			sce, ok := mp.sidechains.Entry(scID)
			if !ok || sce.ScCreationTxHash == primitives.ZeroHash {
				continue
			}
			if sce.ScCreationTxHash == e.hash {
				continue
			}
			parents = append(parents, sce.ScCreationTxHash)
		}
	}
	return parents
}

// Descendants returns every pool entry hash reachable by walking direct
// descendants outward, in depth-first pre-order (§4.2 DAG traversal).
func (mp *Mempool) Descendants(hash primitives.Hash) []primitives.Hash {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	e, ok := mp.lookupLocked(hash)
	if !ok {
		return nil
	}
	return mp.descendantsPreOrderLocked(e, make(map[primitives.Hash]struct{}))
}

func (mp *Mempool) descendantsPreOrderLocked(e *poolEntry, visited map[primitives.Hash]struct{}) []primitives.Hash {
	var order []primitives.Hash
	for _, child := range mp.directDescendantsLocked(e) {
		if _, seen := visited[child]; seen {
			continue
		}
		visited[child] = struct{}{}
		order = append(order, child)
		if childEntry, ok := mp.lookupLocked(child); ok {
			order = append(order, mp.descendantsPreOrderLocked(childEntry, visited)...)
		}
	}
	return order
}

// descendantsPostOrderLocked returns e's descendant closure with every
// entry's own descendants listed before it, the order removeLocked
// needs so dependents are removed before their dependency.
func (mp *Mempool) descendantsPostOrderLocked(e *poolEntry) []primitives.Hash {
	visited := map[primitives.Hash]struct{}{e.hash: {}}
	var order []primitives.Hash
	var visit func(cur *poolEntry)
	visit = func(cur *poolEntry) {
		for _, child := range mp.directDescendantsLocked(cur) {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			if childEntry, ok := mp.lookupLocked(child); ok {
				visit(childEntry)
			}
			order = append(order, child)
		}
	}
	visit(e)
	return order
}

func (mp *Mempool) directDescendantsLocked(e *poolEntry) []primitives.Hash {
	var children []primitives.Hash
	for spender := range mp.spentBy[e.hash] {
		children = append(children, spender)
	}
	if e.tx != nil {
		for _, sc := range e.tx.ScCreations {
			if sce, ok := mp.sidechains.Entry(sc.SidechainID); ok {
				children = append(children, sce.ForwardTransferTxHashes()...)
				children = append(children, sce.BackwardTransferRequestTxHashes()...)
			}
		}
	}
	return children
}
