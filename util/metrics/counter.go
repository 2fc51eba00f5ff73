// Copyright (C) 2024-2025 solkit contributors
// This file is part of solkit
//
// solkit is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// solkit is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with solkit.  If not, see <https://www.gnu.org/licenses/>.

package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter is a monotonically increasing metric. The value is kept locally as
// well so callers can report it without scraping.
type Counter struct {
	intValue atomic.Uint64
	prom     prometheus.Counter
}

// MakeCounter creates a counter that is not yet registered anywhere.
func MakeCounter(metric MetricName) *Counter {
	return &Counter{prom: prometheus.NewCounter(prometheus.CounterOpts{
		Name: sanitizePrometheusName(metric.Name),
		Help: metric.Description,
	})}
}

// NewCounter is a shortcut for MakeCounter.
func NewCounter(name, desc string) *Counter {
	return MakeCounter(MetricName{Name: name, Description: desc})
}

// Register adds the counter to reg, or to the default registry when reg is nil.
func (counter *Counter) Register(reg *Registry) error {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return reg.Register(counter.prom)
}

// Deregister removes the counter from reg, or from the default registry when reg is nil.
func (counter *Counter) Deregister(reg *Registry) {
	if reg == nil {
		reg = DefaultRegistry()
	}
	reg.Deregister(counter.prom)
}

// Inc adds one.
func (counter *Counter) Inc() {
	counter.AddUint64(1)
}

// AddUint64 adds x.
func (counter *Counter) AddUint64(x uint64) {
	counter.intValue.Add(x)
	counter.prom.Add(float64(x))
}

// GetUint64Value returns the current value.
func (counter *Counter) GetUint64Value() uint64 {
	return counter.intValue.Load()
}
