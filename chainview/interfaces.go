// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainview defines the read-through layer the mempool core and
// its callers use to answer coin, sidechain, and nullifier questions
// without caring whether the answer lives in the pool or on the
// committed chain (§4.3).
package chainview

import "github.com/hznlabs/coretx/primitives"

// MempoolHeight is the sentinel height Coins carries when it was
// synthesized from a pool entry rather than a committed block.
const MempoolHeight = 0x7fffffff

// SidechainState is the committed lifecycle stage of a sidechain.
type SidechainState int

const (
	SidechainUnconfirmed SidechainState = iota
	SidechainAlive
	SidechainCeased
)

func (s SidechainState) String() string {
	switch s {
	case SidechainUnconfirmed:
		return "unconfirmed"
	case SidechainAlive:
		return "alive"
	case SidechainCeased:
		return "ceased"
	default:
		return "unknown"
	}
}

// Coins is a minimal, read-only view of a transaction's outputs as the
// chain view and pool both need to expose them: which height it
// confirmed at (or MempoolHeight) and which outputs remain unspent.
type Coins struct {
	Height     int32
	OutputSpent []bool
}

// IsUnspent reports whether output index is present and unspent.
func (c Coins) IsUnspent(index uint32) bool {
	i := int(index)
	return i >= 0 && i < len(c.OutputSpent) && !c.OutputSpent[i]
}

// Sidechain is the read-only view of a sidechain's on-chain-or-pending
// state that getSidechain synthesizes.
type Sidechain struct {
	Balance        primitives.Amount
	CreatingTxHash primitives.Hash
}

// ChainView is the committed-chain half of the read-through layer
// (§6 "Chain View (consumed)"). Implementations answer strictly from
// confirmed state; the pool-aware adapter in this package is what
// layers pending state on top.
type ChainView interface {
	AccessCoins(txHash primitives.Hash) (Coins, bool)
	HaveSidechain(scID primitives.Hash) bool
	GetSidechain(scID primitives.Hash) (Sidechain, bool)
	GetSidechainState(scID primitives.Hash) SidechainState
	GetActiveCertDataHash(scID primitives.Hash) (primitives.Hash, bool)
	CheckCertTiming(scID primitives.Hash, epoch uint32) bool
	CheckScTxTiming(scID primitives.Hash) bool
	GetNullifier(nf primitives.Hash) bool
	GetAnchorAt(anchor primitives.Hash) bool
	GetScIds() []primitives.Hash
}

// PoolView is the narrow slice of the mempool core the adapter needs to
// consult, kept as an interface here (rather than importing the mempool
// package directly) so chainview has no dependency on mempool's
// internals and mempool can depend on chainview instead.
type PoolView interface {
	LookupCoins(txHash primitives.Hash) (Coins, bool)
	HaveNullifier(nf primitives.Hash) bool
	SidechainCreationTxHash(scID primitives.Hash) (primitives.Hash, bool)
	HaveCswNullifier(scID, nf primitives.Hash) bool
	CswTotalAmount(scID primitives.Hash) primitives.Amount
	ScIDs() []primitives.Hash
}
