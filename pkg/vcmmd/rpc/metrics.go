// Copyright The libvcmmd Authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// codeLabelOK labels calls whose reply carries no result code.
	codeLabelOK = "ok"
	// codeLabelError labels calls which failed at the transport level.
	codeLabelError = "error"
)

var (
	callsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vcmmd",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Number of vcmmd method calls, by method and result code.",
		},
		[]string{"method", "code"},
	)
	callDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vcmmd",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Latency of vcmmd method calls, by method.",
		},
		[]string{"method"},
	)
)

// RegisterMetrics registers the client call metrics with the given
// prometheus registerer. The metrics are always recorded; registration
// is up to the host application.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{callsTotal, callDuration} {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func observeCall(method, code string) {
	callsTotal.WithLabelValues(method, code).Inc()
}

func observeLatency(method string, d time.Duration) {
	callDuration.WithLabelValues(method).Observe(d.Seconds())
}
