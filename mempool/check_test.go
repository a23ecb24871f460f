// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hznlabs/coretx/chainview"
	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

// permissiveChain treats every outpoint as unspent on chain, so the DAG
// replay half of Check exercises only the pool's own bookkeeping rather
// than asserting anything about a particular backing chain.
type permissiveChain struct{ fakeChain }

func (*permissiveChain) AccessCoins(primitives.Hash) (chainview.Coins, bool) {
	return chainview.Coins{OutputSpent: make([]bool, 16)}, true
}

var _ chainview.ChainView = &permissiveChain{}

// TestCheckSurvivesRandomSequences exercises property 5: after arbitrary
// sequences of add and remove operations, Check never finds the
// pool's own bookkeeping in disagreement with itself.
func TestCheckSurvivesRandomSequences(t *testing.T) {
	mp := New()
	rng := rand.New(rand.NewSource(1))

	scIDs := []primitives.Hash{hashFromByte(201), hashFromByte(202), hashFromByte(203)}
	var liveTxHashes []primitives.Hash

	for round := 0; round < 500; round++ {
		switch rng.Intn(4) {
		case 0: // add a plain spend, maybe of a live output, maybe dangling
			h := hashFromByte(byte(rng.Intn(250)))
			var spends []primitives.Outpoint
			if len(liveTxHashes) > 0 && rng.Intn(2) == 0 {
				spends = append(spends, outpoint(liveTxHashes[rng.Intn(len(liveTxHashes))], uint32(rng.Intn(3))))
			}
			te := simpleTx(h, spends...)
			if ok, _ := mp.CheckIncomingTxConflicts(te.Tx); ok && mp.AddUncheckedTx(te, int32(round), nil) {
				liveTxHashes = append(liveTxHashes, h)
			}
		case 1: // add a CSW-bearing tx
			h := hashFromByte(byte(rng.Intn(250)))
			scID := scIDs[rng.Intn(len(scIDs))]
			te := TxEntry{Tx: &txtypes.Tx{
				Hash: h,
				CswInputs: []txtypes.CswInput{{
					SidechainID: scID,
					Nullifier:   hashFromByte(byte(rng.Intn(250))),
					Value:       primitives.Amount(rng.Intn(100)),
				}},
			}}
			if ok, _ := mp.CheckIncomingTxConflicts(te.Tx); ok && mp.AddUncheckedTx(te, int32(round), nil) {
				liveTxHashes = append(liveTxHashes, h)
			}
		case 2: // add a cert
			h := hashFromByte(byte(rng.Intn(250)))
			scID := scIDs[rng.Intn(len(scIDs))]
			ce := simpleCert(h, scID, uint32(rng.Intn(3)), int64(rng.Intn(1000)))
			if ok, _ := mp.CheckIncomingCertConflicts(ce.Cert); ok {
				mp.AddUncheckedCert(ce)
			}
		case 3: // remove something at random
			if len(liveTxHashes) > 0 {
				victim := liveTxHashes[rng.Intn(len(liveTxHashes))]
				mp.Remove(victim, rng.Intn(2) == 0)
			}
		}
		cv := &permissiveChain{fakeChain: *newFakeChain()}
		require.NotPanics(t, func() { mp.Check(cv) })
	}
}

// TestCheckRejectsChainThatForgetsAnOutpoint exercises the DAG-replay
// half of Check directly: a pool tx whose only prevout the chain view
// no longer recognizes as unspent, and which no pool entry owns
// either, can never become ready and must trip the invariant.
func TestCheckRejectsChainThatForgetsAnOutpoint(t *testing.T) {
	mp := New()
	te := simpleTx(hashFromByte(1), outpoint(hashFromByte(99), 0))
	require.True(t, mp.AddUncheckedTx(te, 1, nil))

	require.Panics(t, func() { mp.Check(newFakeChain()) })
}
