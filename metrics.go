// Copyright 2026 Patrick J. Scruggs
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

package httplog

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics records what the stages already measure. A nil *metrics is valid
// and records nothing.
type metrics struct {
	pipelineDuration *prometheus.HistogramVec
	slowRequests     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil
	}

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "httplog",
		Name:      "pipeline_duration_seconds",
		Help:      "Time spent in the outbound HTTP pipeline, measured by the scope stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"client", "method", "code"})
	duration, err := registerOrReuse(reg, duration)
	if err != nil {
		return nil, fmt.Errorf("register pipeline duration histogram: %w", err)
	}

	slow := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httplog",
		Name:      "slow_requests_total",
		Help:      "End events logged with the slow request variant.",
	}, []string{"client", "stage"})
	slow, err = registerOrReuse(reg, slow)
	if err != nil {
		return nil, fmt.Errorf("register slow request counter: %w", err)
	}

	return &metrics{pipelineDuration: duration, slowRequests: slow}, nil
}

// registerOrReuse registers c, returning the existing collector when an
// identical one is already registered so several pipelines can share reg.
func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observePipeline(client, method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.pipelineDuration.WithLabelValues(client, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func (m *metrics) observeSlow(client, stage string) {
	if m == nil {
		return
	}
	m.slowRequests.WithLabelValues(client, stage).Inc()
}
