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
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Registry is a set of collectors served together.
type Registry struct {
	reg *prometheus.Registry
}

var defaultRegistry = MakeRegistry()

// DefaultRegistry returns the process wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// MakeRegistry creates an empty registry.
func MakeRegistry() *Registry {
	return &Registry{reg: prometheus.NewRegistry()}
}

// Register adds a collector. Registering the same collector twice is not an error.
func (r *Registry) Register(c prometheus.Collector) error {
	err := r.reg.Register(c)
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) && already.ExistingCollector == c {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMetricUnableToRegister, err)
	}
	return nil
}

// Deregister removes a collector.
func (r *Registry) Deregister(c prometheus.Collector) {
	r.reg.Unregister(c)
}

// Gatherer exposes the registry to HTTP handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// AddMetrics adds the current value of every counter and gauge to values,
// keyed by metric name.
func (r *Registry) AddMetrics(values map[string]float64) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			values[family.GetName()+labelSuffix(m.GetLabel())] = metricValue(m)
		}
	}
	return nil
}

func labelSuffix(labels []*dto.LabelPair) string {
	var sb strings.Builder
	for _, l := range labels {
		sb.WriteString("_" + l.GetName() + "_" + sanitizeTelemetryName(l.GetValue()))
	}
	return sb.String()
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}

var sanitizeTelemetryCharactersRegexp = regexp.MustCompile("(^[^a-zA-Z_]|[^a-zA-Z0-9_-])")

func sanitizeTelemetryName(name string) string {
	return sanitizeTelemetryCharactersRegexp.ReplaceAllString(name, "_")
}

func sanitizePrometheusName(name string) string {
	return strings.ReplaceAll(sanitizeTelemetryName(name), "-", "_")
}
