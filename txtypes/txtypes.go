// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txtypes holds the minimal transaction and certificate shapes
// the mempool core needs: just enough of each entry's structure to
// compute outpoints, nullifiers, sidechain references, and sizes,
// without pulling in script or proof validation.
package txtypes

import "github.com/hznlabs/coretx/primitives"

// TxIn is a transparent input: a reference to the output it spends.
type TxIn struct {
	PrevOut primitives.Outpoint
}

// CswInput is a ceased-sidechain-withdrawal input: it drains value from
// a ceased sidechain and carries a unique nullifier.
type CswInput struct {
	SidechainID primitives.Hash
	Nullifier   primitives.Hash
	Value       primitives.Amount
}

// ScCreation declares a new sidechain.
type ScCreation struct {
	SidechainID primitives.Hash
}

// ForwardTransfer deposits value into an existing or concurrently
// created sidechain.
type ForwardTransfer struct {
	SidechainID primitives.Hash
	Value       primitives.Amount
}

// BackwardTransferRequest asks a sidechain to perform a withdrawal; it
// snapshots the active-cert-data-hash it was built against so the
// mempool can detect when that snapshot goes stale.
type BackwardTransferRequest struct {
	SidechainID        primitives.Hash
	ActiveCertDataHash primitives.Hash
}

// Tx is a transparent or mixed transaction as the mempool needs to see
// it: its spends, its shielded footprint, and any sidechain operations
// it carries.
type Tx struct {
	Hash          primitives.Hash
	Vin           []TxIn
	SerializeSize int

	ShieldedNullifiers []primitives.Hash
	ShieldedAnchor     *primitives.Hash

	CswInputs        []CswInput
	ScCreations      []ScCreation
	ForwardTransfers []ForwardTransfer
	BTRs             []BackwardTransferRequest
}

// Cert is a sidechain certificate: it authorizes backward transfers for
// one (sidechain, epoch) and carries a quality used to rank competing
// certificates for the same pair.
type Cert struct {
	Hash          primitives.Hash
	Vin           []TxIn
	SerializeSize int

	SidechainID primitives.Hash
	Epoch       uint32
	Quality     int64
}
