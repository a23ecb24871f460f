// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/hznlabs/coretx/primitives"
	"github.com/hznlabs/coretx/txtypes"
)

func hashFromByte(b byte) primitives.Hash {
	var h primitives.Hash
	h[0] = b
	return h
}

func outpoint(txHash primitives.Hash, index uint32) primitives.Outpoint {
	return primitives.Outpoint{Hash: txHash, Index: index}
}

func simpleTx(hash primitives.Hash, spends ...primitives.Outpoint) TxEntry {
	vin := make([]txtypes.TxIn, len(spends))
	for i, o := range spends {
		vin[i] = txtypes.TxIn{PrevOut: o}
	}
	return TxEntry{
		Tx:            &txtypes.Tx{Hash: hash, Vin: vin, SerializeSize: 250},
		SerializeSize: 250,
		ModifiedSize:  250,
		Fee:           1000,
		ArrivalTime:   time.Unix(1000, 0),
		Height:        100,
	}
}

func simpleCert(hash, scID primitives.Hash, epoch uint32, quality int64, spends ...primitives.Outpoint) CertEntry {
	vin := make([]txtypes.TxIn, len(spends))
	for i, o := range spends {
		vin[i] = txtypes.TxIn{PrevOut: o}
	}
	return CertEntry{
		Cert: &txtypes.Cert{
			Hash: hash, Vin: vin, SerializeSize: 500,
			SidechainID: scID, Epoch: epoch, Quality: quality,
		},
		SerializeSize: 500,
		ModifiedSize:  500,
		ArrivalTime:   time.Unix(1000, 0),
		Height:        100,
	}
}
