// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimator

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/hznlabs/coretx/primitives"
)

// ClientVersion is the host binary's persistence version. Write stamps
// every snapshot with it; Read refuses any snapshot whose
// versionRequired exceeds it, per §6.
const ClientVersion = 1

// snapshotVersion is this package's own on-disk body format, bumped
// whenever the bin layout below changes.
const snapshotVersion = 1

// Write serializes the estimator as
// [u32 versionRequired][u32 versionThatWrote][body], where body is this
// package's own binned-observation layout. versionRequired is always
// snapshotVersion; versionThatWrote records the caller's ClientVersion
// so a future incompatible rewrite of this format can still tell which
// build produced a given file.
func (e *Estimator) Write(w io.Writer, versionThatWrote uint32) error {
	e.mtx.RLock()
	defer e.mtx.RUnlock()

	if err := binary.Write(w, binary.LittleEndian, uint32(snapshotVersion)); err != nil {
		return errors.Wrap(err, "write versionRequired")
	}
	if err := binary.Write(w, binary.LittleEndian, versionThatWrote); err != nil {
		return errors.Wrap(err, "write versionThatWrote")
	}

	if err := binary.Write(w, binary.LittleEndian, int32(e.maxRollback)); err != nil {
		return errors.Wrap(err, "write maxRollback")
	}

	for bin := 0; bin < maxConfirmDepth; bin++ {
		bucket := e.bins[bin]
		if err := binary.Write(w, binary.LittleEndian, uint32(len(bucket))); err != nil {
			return errors.Wrapf(err, "write bucket %d length", bin)
		}
		for _, obs := range bucket {
			if err := writeObservation(w, obs); err != nil {
				return errors.Wrapf(err, "write bucket %d observation", bin)
			}
		}
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(e.observed))); err != nil {
		return errors.Wrap(err, "write pending count")
	}
	for _, obs := range e.observed {
		if err := writeObservation(w, obs); err != nil {
			return errors.Wrap(err, "write pending observation")
		}
	}

	return nil
}

// Read restores an Estimator from a snapshot produced by Write. It
// rejects any snapshot whose versionRequired exceeds the running
// binary's ClientVersion, since this package cannot promise it
// understands a body layout introduced after it was built.
func Read(r io.Reader, maxRollback int) (*Estimator, error) {
	var versionRequired, versionThatWrote uint32
	if err := binary.Read(r, binary.LittleEndian, &versionRequired); err != nil {
		return nil, errors.Wrap(err, "read versionRequired")
	}
	if err := binary.Read(r, binary.LittleEndian, &versionThatWrote); err != nil {
		return nil, errors.Wrap(err, "read versionThatWrote")
	}
	if versionRequired > ClientVersion {
		return nil, errors.Newf("fee estimator snapshot requires version %d, running %d", versionRequired, ClientVersion)
	}

	var storedMaxRollback int32
	if err := binary.Read(r, binary.LittleEndian, &storedMaxRollback); err != nil {
		return nil, errors.Wrap(err, "read maxRollback")
	}

	e := New(maxRollback)

	for bin := 0; bin < maxConfirmDepth; bin++ {
		var count uint32
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return nil, errors.Wrapf(err, "read bucket %d length", bin)
		}
		for i := uint32(0); i < count; i++ {
			obs, err := readObservation(r)
			if err != nil {
				return nil, errors.Wrapf(err, "read bucket %d observation", bin)
			}
			obs.bin = bin
			e.bins[bin] = append(e.bins[bin], obs)
		}
	}

	var pending uint32
	if err := binary.Read(r, binary.LittleEndian, &pending); err != nil {
		return nil, errors.Wrap(err, "read pending count")
	}
	for i := uint32(0); i < pending; i++ {
		obs, err := readObservation(r)
		if err != nil {
			return nil, errors.Wrap(err, "read pending observation")
		}
		obs.bin = -1
		e.observed[obs.hash] = obs
	}

	return e, nil
}

func writeObservation(w io.Writer, obs *observation) error {
	if _, err := w.Write(obs.hash[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, obs.size); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int64(obs.fee)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, obs.addedHeight)
}

func readObservation(r io.Reader) (*observation, error) {
	obs := &observation{}
	if _, err := io.ReadFull(r, obs.hash[:]); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &obs.size); err != nil {
		return nil, err
	}
	var fee int64
	if err := binary.Read(r, binary.LittleEndian, &fee); err != nil {
		return nil, err
	}
	obs.fee = primitives.Amount(fee)
	if err := binary.Read(r, binary.LittleEndian, &obs.addedHeight); err != nil {
		return nil, err
	}
	return obs, nil
}
