// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sidechain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hznlabs/coretx/primitives"
)

func hashFromByte(b byte) primitives.Hash {
	var h primitives.Hash
	h[0] = b
	return h
}

func TestScCreationLifecycle(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	txHash := hashFromByte(2)

	idx.AddScCreation(scID, txHash)
	e, ok := idx.Entry(scID)
	require.True(t, ok)
	require.Equal(t, txHash, e.ScCreationTxHash)

	idx.RemoveScCreation(scID, txHash)
	_, ok = idx.Entry(scID)
	require.False(t, ok, "entry should be pruned once empty")
}

func TestForwardTransferTracking(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	tx1, tx2 := hashFromByte(2), hashFromByte(3)

	idx.AddForwardTransfer(scID, tx1)
	idx.AddForwardTransfer(scID, tx2)
	e, ok := idx.Entry(scID)
	require.True(t, ok)
	require.ElementsMatch(t, []primitives.Hash{tx1, tx2}, e.ForwardTransferTxHashes())

	idx.RemoveForwardTransfer(scID, tx1)
	e, _ = idx.Entry(scID)
	require.Equal(t, []primitives.Hash{tx2}, e.ForwardTransferTxHashes())

	idx.RemoveForwardTransfer(scID, tx2)
	_, ok = idx.Entry(scID)
	require.False(t, ok)
}

func TestBackwardTransferRequestSnapshot(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	txHash := hashFromByte(2)
	certDataHash := hashFromByte(3)

	idx.AddBackwardTransferRequest(scID, txHash, certDataHash)
	e, ok := idx.Entry(scID)
	require.True(t, ok)
	got, ok := e.ActiveCertDataHashFor(txHash)
	require.True(t, ok)
	require.Equal(t, certDataHash, got)

	idx.RemoveBackwardTransferRequest(scID, txHash)
	_, ok = idx.Entry(scID)
	require.False(t, ok)
}

func TestCswNullifierAccumulatesTotal(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	n1, n2 := hashFromByte(2), hashFromByte(3)
	tx1, tx2 := hashFromByte(4), hashFromByte(5)

	idx.AddCswInput(scID, n1, tx1, 100)
	idx.AddCswInput(scID, n2, tx2, 50)
	e, ok := idx.Entry(scID)
	require.True(t, ok)
	require.Equal(t, primitives.Amount(150), e.CswTotalAmount)
	require.True(t, e.HaveCswNullifier(n1))

	idx.RemoveCswInput(scID, n1, 100)
	e, _ = idx.Entry(scID)
	require.Equal(t, primitives.Amount(50), e.CswTotalAmount)
	require.False(t, e.HaveCswNullifier(n1))
}

func TestCertificateQualityOrdering(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	epoch := uint32(7)
	low, mid, high := hashFromByte(2), hashFromByte(3), hashFromByte(4)

	idx.AddCertificate(scID, epoch, low, 10)
	idx.AddCertificate(scID, epoch, high, 30)
	idx.AddCertificate(scID, epoch, mid, 20)

	best, ok := idx.BestCertificate(scID, epoch)
	require.True(t, ok)
	require.Equal(t, high, best)
	require.Equal(t, []primitives.Hash{high, mid, low}, idx.CertificatesForEpoch(scID, epoch))

	idx.RemoveCertificate(scID, epoch, high)
	best, ok = idx.BestCertificate(scID, epoch)
	require.True(t, ok)
	require.Equal(t, mid, best)

	idx.RemoveCertificate(scID, epoch, mid)
	idx.RemoveCertificate(scID, epoch, low)
	_, ok = idx.Entry(scID)
	require.False(t, ok)
}

func TestCertificateRequalify(t *testing.T) {
	idx := New()
	scID := hashFromByte(1)
	epoch := uint32(1)
	cert := hashFromByte(2)

	idx.AddCertificate(scID, epoch, cert, 5)
	idx.AddCertificate(scID, epoch, cert, 50)

	hashes := idx.CertificatesForEpoch(scID, epoch)
	require.Len(t, hashes, 1, "re-adding the same cert hash must update, not duplicate")
}

func TestScIDsListsEverythingPending(t *testing.T) {
	idx := New()
	sc1, sc2 := hashFromByte(1), hashFromByte(2)
	idx.AddForwardTransfer(sc1, hashFromByte(10))
	idx.AddScCreation(sc2, hashFromByte(11))

	require.ElementsMatch(t, []primitives.Hash{sc1, sc2}, idx.ScIDs())
}
