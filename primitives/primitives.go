// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package primitives holds the value types shared by every other package
// in coretx: a signed-amount type, a 256-bit hash, and the outpoint and
// input-locator pairs used to cross-reference pool entries.
package primitives

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// Amount is a signed quantity of the smallest indivisible unit of the
// ledger's native token.
type Amount = btcutil.Amount

// Hash is a 256-bit opaque identifier: a transaction hash, certificate
// hash, sidechain id, nullifier, or shielded anchor all share this type.
type Hash = chainhash.Hash

// ZeroHash is the all-zero Hash, used as a sentinel for "no value".
var ZeroHash = chainhash.Hash{}

// Outpoint references a specific output of a specific transaction.
type Outpoint struct {
	Hash  Hash
	Index uint32
}

// String returns "hash:index".
func (o Outpoint) String() string {
	return fmt.Sprintf("%s:%d", o.Hash, o.Index)
}

// InputLocator names the pool entry that spends an outpoint and which
// of its inputs does so. Only the
// owning hash is kept, never a live pointer, so a locator never
// dangles when its owner is moved or replaced; resolve it back to the
// owning entry through the mempool's primary tables.
type InputLocator struct {
	OwnerHash Hash
	VinIndex  uint32
}
