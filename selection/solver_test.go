// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import (
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/hznlabs/coretx/primitives"
)

func amounts(vals ...int64) []Candidate {
	c := make([]Candidate, len(vals))
	for i, v := range vals {
		c[i] = Candidate{Amount: primitives.Amount(v), Size: 1}
	}
	return c
}

// bruteForceOptimum verifies Branch & Bound against exhaustive search for
// small n, per property 2.
func bruteForceOptimum(t *testing.T, candidates []Candidate, target, ceiling primitives.Amount, sizeCeiling uint32) (bestCount uint32, bestAmount primitives.Amount) {
	t.Helper()
	n := len(candidates)
	require.LessOrEqual(t, n, 20)
	found := false
	for mask := 0; mask < (1 << n); mask++ {
		var amt primitives.Amount
		var sz uint32
		var cnt uint32
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				amt += candidates[i].Amount
				sz += candidates[i].Size
				cnt++
			}
		}
		if amt < target || amt > ceiling || sz > sizeCeiling {
			continue
		}
		if !found || cnt > bestCount || (cnt == bestCount && amt < bestAmount) {
			found = true
			bestCount = cnt
			bestAmount = amt
		}
	}
	return bestCount, bestAmount
}

func TestBranchAndBoundOptimality_S2(t *testing.T) {
	candidates := amounts(10, 9, 6, 5, 5)
	s := NewBranchAndBound(candidates, 15, 20, 5)
	require.True(t, s.Solve())
	require.Equal(t, uint32(3), s.OptimalCount())
	require.Equal(t, primitives.Amount(16), s.OptimalTotalAmount())
}

func TestSlidingWindow_S1Shape(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	candidates := make([]Candidate, 97)
	for i := range candidates {
		candidates[i] = Candidate{Amount: primitives.Amount(1 + rng.Intn(30)), Size: uint32(50 + rng.Intn(100))}
	}
	s := NewSlidingWindow(candidates, 50, 60, 14700)
	require.True(t, s.Solve())
	if s.OptimalCount() > 0 {
		require.GreaterOrEqual(t, int64(s.OptimalTotalAmount()), int64(50))
		require.LessOrEqual(t, int64(s.OptimalTotalAmount()), int64(60))
		require.LessOrEqual(t, s.OptimalTotalSize(), uint32(14700))
	}
}

func TestSolverAgreementOnEasyCases(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 25; trial++ {
		n := 5 + rng.Intn(10)
		candidates := make([]Candidate, n)
		var total int64
		for i := range candidates {
			a := int64(1 + rng.Intn(50))
			candidates[i] = Candidate{Amount: primitives.Amount(a), Size: 1}
			total += a
		}
		target := primitives.Amount(total / 4)
		ceiling := primitives.Amount(total)
		sw := NewSlidingWindow(candidates, target, ceiling, uint32(n))
		bb := NewBranchAndBound(candidates, target, ceiling, uint32(n))
		require.True(t, sw.Solve())
		require.True(t, bb.Solve())

		if sw.OptimalCount() > 0 {
			require.GreaterOrEqualf(t, bb.OptimalCount(), sw.OptimalCount(), "trial %d: %s", trial, spew.Sdump(candidates))
		}
	}
}

func TestBranchAndBoundMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 40; trial++ {
		n := 1 + rng.Intn(12)
		candidates := make([]Candidate, n)
		var total int64
		for i := range candidates {
			a := int64(1 + rng.Intn(40))
			candidates[i] = Candidate{Amount: primitives.Amount(a), Size: uint32(1 + rng.Intn(5))}
			total += a
		}
		target := primitives.Amount(rng.Int63n(total + 1))
		ceiling := target + primitives.Amount(rng.Int63n(total+1))
		sizeCeiling := uint32(rng.Intn(n*5 + 1))

		bb := NewBranchAndBound(candidates, target, ceiling, sizeCeiling)
		require.True(t, bb.Solve())

		wantCount, wantAmount := bruteForceOptimum(t, candidates, target, ceiling, sizeCeiling)
		require.Equalf(t, wantCount, bb.OptimalCount(), "trial %d candidates=%s", trial, spew.Sdump(candidates))
		if wantCount > 0 {
			require.Equal(t, wantAmount, bb.OptimalTotalAmount())
		}
	}
}

func TestSelectionSoundness(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 30; trial++ {
		n := 1 + rng.Intn(15)
		candidates := make([]Candidate, n)
		for i := range candidates {
			candidates[i] = Candidate{Amount: primitives.Amount(1 + rng.Intn(30)), Size: uint32(1 + rng.Intn(10))}
		}
		target := primitives.Amount(rng.Intn(60))
		ceiling := target + primitives.Amount(rng.Intn(40))
		sizeCeiling := uint32(rng.Intn(50))

		for _, s := range []Solver{
			NewSlidingWindow(candidates, target, ceiling, sizeCeiling),
			NewBranchAndBound(candidates, target, ceiling, sizeCeiling),
		} {
			require.True(t, s.Solve())
			if s.OptimalCount() == 0 {
				continue
			}
			require.GreaterOrEqual(t, int64(s.OptimalTotalAmount()), int64(target))
			require.LessOrEqual(t, int64(s.OptimalTotalAmount()), int64(ceiling))
			require.LessOrEqual(t, s.OptimalTotalSize(), sizeCeiling)
			require.Equal(t, s.OptimalCount(), s.OptimalSelection().Count())
		}
	}
}

func TestInfeasibleReturnsZero(t *testing.T) {
	candidates := amounts(1, 1, 1)
	s := NewBranchAndBound(candidates, 1000, 2000, 10)
	require.True(t, s.Solve())
	require.Equal(t, uint32(0), s.OptimalCount())
	require.Zero(t, s.OptimalSelection().Count())
}

func TestCancellation(t *testing.T) {
	n := 24
	candidates := make([]Candidate, n)
	for i := range candidates {
		candidates[i] = Candidate{Amount: primitives.Amount(n - i), Size: 1}
	}
	s := NewBranchAndBound(candidates, primitives.Amount(n*2), primitives.Amount(n*n), uint32(n))
	// Pre-set the stop flag so the worker observes cancellation on its
	// very first boundary check, deterministically exercising the same
	// path StartAsync+Stop would race on.
	s.base.stopRequested.Store(true)
	require.False(t, s.Solve())
	require.False(t, s.Completed())
	// Reading fields after cancellation must not panic or race; they may
	// be zero or a partial best-so-far, but never uninitialized memory.
	_ = s.OptimalSelection()
	_ = s.OptimalTotalAmount()
	_ = s.OptimalTotalSize()
	_ = s.OptimalCount()

	// Stop must also be safe to call without StartAsync ever having run.
	s2 := NewSlidingWindow(candidates, primitives.Amount(n*2), primitives.Amount(n*n), uint32(n))
	s2.Stop()
	s2.Stop()
}

func TestSolveIdempotent(t *testing.T) {
	s := NewSlidingWindow(amounts(10, 9, 6, 5, 5), 15, 20, 5)
	require.True(t, s.Solve())
	count := s.OptimalCount()
	amt := s.OptimalTotalAmount()
	require.True(t, s.Solve())
	require.Equal(t, count, s.OptimalCount())
	require.Equal(t, amt, s.OptimalTotalAmount())
}

var (
	_ Solver = (*SlidingWindowSolver)(nil)
	_ Solver = (*BranchAndBoundSolver)(nil)
	_ Solver = (*NotesSolver)(nil)
)
