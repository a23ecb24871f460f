// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

// TestRecursiveRemovalOrder exercises scenario S4: T1 creates sidechain
// S, T2 forwards into S, T3 spends T2's output. Removing T1 recursively
// must remove T3, then T2, then T1, in that order.
func TestRecursiveRemovalOrder(t *testing.T) {
	mp := New()
	scID := hashFromByte(200)
	t1, t2, t3 := hashFromByte(1), hashFromByte(2), hashFromByte(3)

	te1 := TxEntry{
		Tx:            &txtypes.Tx{Hash: t1, ScCreations: []txtypes.ScCreation{{SidechainID: scID}}},
		ArrivalTime:   time.Unix(1, 0),
	}
	te2 := TxEntry{
		Tx:            &txtypes.Tx{Hash: t2, ForwardTransfers: []txtypes.ForwardTransfer{{SidechainID: scID, Value: 10}}},
		ArrivalTime:   time.Unix(2, 0),
	}
	te3 := TxEntry{
		Tx:            &txtypes.Tx{Hash: t3, Vin: []txtypes.TxIn{{PrevOut: outpoint(t2, 0)}}},
		ArrivalTime:   time.Unix(3, 0),
	}

	require.True(t, mp.AddUncheckedTx(te1, 1, nil))
	require.True(t, mp.AddUncheckedTx(te2, 1, nil))
	require.True(t, mp.AddUncheckedTx(te3, 1, nil))

	descendants := mp.Descendants(t1)
	require.ElementsMatch(t, []primitives.Hash{t2, t3}, descendants)

	removedTxs, removedCerts := mp.Remove(t1, true)
	require.Empty(t, removedCerts)
	require.Len(t, removedTxs, 3)
	require.Equal(t, []primitives.Hash{t3, t2, t1}, []primitives.Hash{
		removedTxs[0].Tx.Hash, removedTxs[1].Tx.Hash, removedTxs[2].Tx.Hash,
	})

	txCount, _ := mp.Count()
	require.Zero(t, txCount)
}

func TestAncestorsFindsScCreationParent(t *testing.T) {
	mp := New()
	scID := hashFromByte(200)
	t1, t2 := hashFromByte(1), hashFromByte(2)

	te1 := TxEntry{Tx: &txtypes.Tx{Hash: t1, ScCreations: []txtypes.ScCreation{{SidechainID: scID}}}}
	te2 := TxEntry{Tx: &txtypes.Tx{Hash: t2, BTRs: []txtypes.BackwardTransferRequest{{SidechainID: scID}}}}

	require.True(t, mp.AddUncheckedTx(te1, 1, nil))
	require.True(t, mp.AddUncheckedTx(te2, 1, nil))

	ancestors := mp.Ancestors(t2)
	require.Equal(t, []primitives.Hash{t1}, ancestors)
}

func TestAncestorsChainIsTransitive(t *testing.T) {
	mp := New()
	t1, t2, t3 := hashFromByte(1), hashFromByte(2), hashFromByte(3)
	require.True(t, mp.AddUncheckedTx(TxEntry{Tx: &txtypes.Tx{Hash: t1}}, 1, nil))
	require.True(t, mp.AddUncheckedTx(TxEntry{Tx: &txtypes.Tx{Hash: t2, Vin: []txtypes.TxIn{{PrevOut: outpoint(t1, 0)}}}}, 1, nil))
	require.True(t, mp.AddUncheckedTx(TxEntry{Tx: &txtypes.Tx{Hash: t3, Vin: []txtypes.TxIn{{PrevOut: outpoint(t2, 0)}}}}, 1, nil))

	require.ElementsMatch(t, []primitives.Hash{t1, t2}, mp.Ancestors(t3))
	require.ElementsMatch(t, []primitives.Hash{t2, t3}, mp.Descendants(t1))
}
