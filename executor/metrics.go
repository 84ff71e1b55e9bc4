// Copyright 2024 The evmaot Authors
// This file is part of the evmaot library.
//
// The evmaot library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmaot library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmaot library. If not, see <http://www.gnu.org/licenses/>.

package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics mirrors what the teacher's full node tracks per block
// (core/vm/runtime's gas/time counters), scoped down to one contract
// invocation at a time since there is no block loop in this module.
type metrics struct {
	invocations *prometheus.CounterVec
	faults      *prometheus.CounterVec
	gasUsed     prometheus.Histogram
	precompiles *prometheus.CounterVec
}

// newMetrics registers a fresh set of collectors against reg. New gives an
// Executor built with a nil Registry its own registry, so repeated Executor
// construction in a test binary never hits prometheus's "duplicate metrics
// collector registration" panic; the CLI uses DefaultOptions, which
// registers against prometheus's global default registerer.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evmaot_invocations_total",
			Help: "Number of contract invocations, labeled by exit status.",
		}, []string{"status"}),
		faults: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evmaot_faults_total",
			Help: "Number of runtime faults, labeled by reason.",
		}, []string{"reason"}),
		gasUsed: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "evmaot_gas_used",
			Help:    "Gas consumed per invocation.",
			Buckets: prometheus.ExponentialBuckets(21000, 2, 16),
		}),
		precompiles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "evmaot_precompile_invocations_total",
			Help: "Number of precompile invocations, labeled by address byte.",
		}, []string{"address"}),
	}
}
