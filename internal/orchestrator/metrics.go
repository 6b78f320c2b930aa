// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package orchestrator

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the debug server's process-lifetime counters, collected
// through the otel Prometheus exporter and served at /metrics.
type Metrics struct {
	provider       *sdkmetric.MeterProvider
	extractCounter metric.Int64Counter
	compileCounter metric.Int64Counter
	errorCounter   metric.Int64Counter
}

// NewMetrics builds a Metrics instance backed by a fresh Prometheus
// exporter registered against the default registry.
func NewMetrics() (*Metrics, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter("clewbraid/internal/orchestrator")

	extractCounter, err := meter.Int64Counter("clewbraid_extract_requests_total")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new extract counter: %w", err)
	}
	compileCounter, err := meter.Int64Counter("clewbraid_compile_requests_total")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new compile counter: %w", err)
	}
	errorCounter, err := meter.Int64Counter("clewbraid_request_errors_total")
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new error counter: %w", err)
	}

	return &Metrics{
		provider:       provider,
		extractCounter: extractCounter,
		compileCounter: compileCounter,
		errorCounter:   errorCounter,
	}, nil
}

func (m *Metrics) recordExtract(ctx context.Context, ok bool) {
	m.extractCounter.Add(ctx, 1)
	if !ok {
		m.errorCounter.Add(ctx, 1)
	}
}

func (m *Metrics) recordCompile(ctx context.Context, ok bool) {
	m.compileCounter.Add(ctx, 1)
	if !ok {
		m.errorCounter.Add(ctx, 1)
	}
}

// Shutdown flushes and releases the underlying meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
