// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "github.com/hznlabs/coretx/primitives"

// RegisterListener adds fn to the set of listeners invoked by
// NotifyRecentlyAdded. Typically a wallet-sync subscriber.
func (mp *Mempool) RegisterListener(fn func([]primitives.Hash)) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.listeners = append(mp.listeners, fn)
}

// NotifyRecentlyAdded drains the recently-added queue under the lock,
// then calls every registered listener with the drained snapshot after
// releasing the lock, since listeners may suspend (§4.2 concurrency
// surface, §9 "reference-counted ... recently-added queue").
func (mp *Mempool) NotifyRecentlyAdded() {
	mp.mu.Lock()
	if mp.notifiedUpTo >= mp.sequenceCounter || len(mp.recentlyAdded) == 0 {
		mp.mu.Unlock()
		return
	}
	batch := make([]primitives.Hash, len(mp.recentlyAdded))
	copy(batch, mp.recentlyAdded)
	mp.recentlyAdded = mp.recentlyAdded[:0]
	mp.notifiedUpTo = mp.sequenceCounter
	listeners := make([]func([]primitives.Hash), len(mp.listeners))
	copy(listeners, mp.listeners)
	mp.mu.Unlock()

	for _, l := range listeners {
		l(batch)
	}
}
