// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package invariant holds the single fatal-assertion path shared by
// every package that maintains secondary indexes alongside an owning
// table: once those are found to disagree, nothing can recover the
// process into a trustworthy state.
package invariant

// Violation panics with err, which callers build with one of
// cockroachdb/errors' assertion constructors (AssertionFailedf,
// NewAssertionErrorWithWrappedErrf, ...). There is no recovery path:
// reaching this means a primary/secondary index pair has diverged,
// which is a programming error, not a condition any caller can handle.
func Violation(err error) {
	panic(err)
}
