// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package selection

import (
	"github.com/prometheus/client_golang/prometheus"
)

// variant labels the three closed solver kinds for metric emission.
type variant string

const (
	variantSlidingWindow variant = "sliding_window"
	variantBranchAndBound variant = "branch_and_bound"
	variantNotes          variant = "notes"
)

var (
	solveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "coretx",
		Subsystem: "selection",
		Name:      "solve_duration_seconds",
		Help:      "Wall-clock time spent inside Solve, by solver variant.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"variant"})

	solveOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coretx",
		Subsystem: "selection",
		Name:      "solve_outcomes_total",
		Help:      "Count of Solve runs by variant and outcome (admissible, infeasible, cancelled).",
	}, []string{"variant", "outcome"})
)

func init() {
	prometheus.MustRegister(solveDuration, solveOutcome)
}
