// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

func TestAddUncheckedTxUpdatesSecondaryIndexes(t *testing.T) {
	mp := New()
	spent := outpoint(hashFromByte(1), 0)
	te := simpleTx(hashFromByte(2), spent)

	require.True(t, mp.AddUncheckedTx(te, 100, nil))

	txCount, certCount := mp.Count()
	require.Equal(t, 1, txCount)
	require.Equal(t, 0, certCount)

	_, ok := mp.LookupTx(hashFromByte(2))
	require.True(t, ok)

	mp.mu.Lock()
	locator, ok := mp.nextUser[spent]
	mp.mu.Unlock()
	require.True(t, ok)
	require.Equal(t, hashFromByte(2), locator.OwnerHash)
}

func TestCheckIncomingTxConflictsDoubleSpend(t *testing.T) {
	mp := New()
	spent := outpoint(hashFromByte(1), 0)
	te := simpleTx(hashFromByte(2), spent)
	require.True(t, mp.AddUncheckedTx(te, 100, nil))

	conflicting := simpleTx(hashFromByte(3), spent).Tx
	ok, reason := mp.CheckIncomingTxConflicts(conflicting)
	require.False(t, ok)
	require.NotEmpty(t, reason)
}

func TestCheckIncomingTxConflictsAlreadyPending(t *testing.T) {
	mp := New()
	te := simpleTx(hashFromByte(2))
	require.True(t, mp.AddUncheckedTx(te, 100, nil))

	ok, _ := mp.CheckIncomingTxConflicts(te.Tx)
	require.False(t, ok)
}

func TestCheckIncomingTxConflictsAdmitsClean(t *testing.T) {
	mp := New()
	te := simpleTx(hashFromByte(2))
	ok, reason := mp.CheckIncomingTxConflicts(te.Tx)
	require.True(t, ok)
	require.Empty(t, reason)
}

// TestCertSupersession exercises scenario S3: a higher-quality cert is
// admitted, then confirmed by a block, and the lower-quality cert for
// the same (sidechain, epoch) is reported as a conflict and removed.
func TestCertSupersession(t *testing.T) {
	mp := New()
	scID := hashFromByte(100)

	a := simpleCert(hashFromByte(1), scID, 1, 10)
	require.True(t, mp.AddUncheckedCert(a))

	bCert := simpleCert(hashFromByte(2), scID, 1, 20)
	ok, reason := mp.CheckIncomingCertConflicts(bCert.Cert)
	require.True(t, ok, reason)
	require.True(t, mp.AddUncheckedCert(bCert))

	_, conflictingCerts := mp.RemoveForBlock(nil, []*txtypes.Cert{bCert.Cert}, 200)
	require.Len(t, conflictingCerts, 1)
	require.Equal(t, hashFromByte(1), conflictingCerts[0].Cert.Hash)

	_, ok = mp.LookupCert(hashFromByte(1))
	require.False(t, ok)
	_, ok = mp.LookupCert(hashFromByte(2))
	require.False(t, ok, "the confirmed cert itself also leaves the pending pool")
}

func TestCheckIncomingCertConflictsRejectsLowerQualityDependency(t *testing.T) {
	mp := New()
	scID := hashFromByte(1)
	parent := simpleCert(hashFromByte(2), scID, 1, 50)
	require.True(t, mp.AddUncheckedCert(parent))

	childSpendsParent := simpleCert(hashFromByte(3), scID, 1, 40, outpoint(hashFromByte(2), 0))
	ok, reason := mp.CheckIncomingCertConflicts(childSpendsParent.Cert)
	require.False(t, ok)
	require.NotEmpty(t, reason)
}

func TestClearDrainsAllTables(t *testing.T) {
	mp := New()
	require.True(t, mp.AddUncheckedTx(simpleTx(hashFromByte(1)), 1, nil))
	mp.Clear()
	txCount, certCount := mp.Count()
	require.Zero(t, txCount)
	require.Zero(t, certCount)
}

func TestPrioritiseAppliesAtReadTime(t *testing.T) {
	mp := New()
	h := hashFromByte(1)
	mp.Prioritise(h, 5.0, 100)
	priority, fee := mp.ApplyDeltas(h, 1.0, 10)
	require.Equal(t, 6.0, priority)
	require.Equal(t, primitives.Amount(110), fee)

	mp.ClearPrioritisation(h)
	priority, fee = mp.ApplyDeltas(h, 1.0, 10)
	require.Equal(t, 1.0, priority)
	require.Equal(t, primitives.Amount(10), fee)
}

func TestNotifyRecentlyAddedDrainsAndDelivers(t *testing.T) {
	mp := New()
	require.True(t, mp.AddUncheckedTx(simpleTx(hashFromByte(1)), 1, nil))
	require.True(t, mp.AddUncheckedTx(simpleTx(hashFromByte(2)), 1, nil))

	var delivered []primitives.Hash
	mp.RegisterListener(func(hashes []primitives.Hash) { delivered = append(delivered, hashes...) })

	mp.NotifyRecentlyAdded()
	require.ElementsMatch(t, []primitives.Hash{hashFromByte(1), hashFromByte(2)}, delivered)

	delivered = nil
	mp.NotifyRecentlyAdded()
	require.Empty(t, delivered, "draining twice without a new add should not redeliver")
}
