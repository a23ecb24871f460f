// Copyright (c) 2025 The coretx developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import "github.com/prometheus/client_golang/prometheus"

var (
	txCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "coretx",
		Subsystem: "mempool",
		Name:      "tx_count",
		Help:      "Number of pending transactions in the pool.",
	})
	certCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "coretx",
		Subsystem: "mempool",
		Name:      "cert_count",
		Help:      "Number of pending certificates in the pool.",
	})
	addTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coretx",
		Subsystem: "mempool",
		Name:      "add_total",
		Help:      "Entries admitted, labeled by kind.",
	}, []string{"kind"})
	removeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coretx",
		Subsystem: "mempool",
		Name:      "remove_total",
		Help:      "Entries removed, labeled by kind and reason.",
	}, []string{"kind", "reason"})
)

func init() {
	prometheus.MustRegister(txCountGauge, certCountGauge, addTotal, removeTotal)
}
