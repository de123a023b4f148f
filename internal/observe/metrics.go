// Package observe provides application-wide observability primitives for
// the simulation engine: OpenTelemetry metrics, distributed tracing,
// structured logging, and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all engine metrics.
const meterName = "github.com/mrwong99/worldforge"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per tick stage ---

	// GrowthTickDuration tracks one growth tick's wall time (select, expand,
	// place, commit, lineage, validate).
	GrowthTickDuration metric.Float64Histogram

	// SystemTickDuration tracks one system-phase tick's wall time across
	// every simulation system.
	SystemTickDuration metric.Float64Histogram

	// PlacementDuration tracks one placement-scheme invocation's latency.
	PlacementDuration metric.Float64Histogram

	// --- Counters ---

	// TemplatesFired counts growth-template selections. Use with attributes:
	//   attribute.String("template_id", ...)
	TemplatesFired metric.Int64Counter

	// TemplatesSkipped counts gate/saturation refusals. Use with attributes:
	//   attribute.String("template_id", ...), attribute.String("reason", ...)
	TemplatesSkipped metric.Int64Counter

	// SystemsFired counts simulation-system applications. Use with
	// attributes: attribute.String("system_id", ...)
	SystemsFired metric.Int64Counter

	// PlacementAttempts counts placement-scheme invocations. Use with
	// attributes: attribute.String("scheme", ...), attribute.String("status", ...)
	PlacementAttempts metric.Int64Counter

	// ContractGateDenials counts templates/systems refused by the contract
	// enforcer. Use with attributes: attribute.String("id", ...),
	// attribute.String("reason", ...)
	ContractGateDenials metric.Int64Counter

	// CascadeEvents counts saturation-cascade placement fallbacks.
	CascadeEvents metric.Int64Counter

	// SafetyValveTrips counts driver runs halted by the entity-count safety
	// valve.
	SafetyValveTrips metric.Int64Counter

	// EraTransitions counts completed era advances.
	EraTransitions metric.Int64Counter

	// --- Gauges ---

	// EntityCount tracks the graph's total live entity count.
	EntityCount metric.Int64UpDownCounter

	// PopulationDeviation tracks the latest population-tracker deviation per
	// (kind, subtype). Use with attribute.String("entity_key", ...).
	PopulationDeviation metric.Float64Gauge

	// DistributionOverall tracks the latest distribution-tracker overall
	// deviation score.
	DistributionOverall metric.Float64Gauge

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time for the
	// optional diagnostics/report endpoint. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) optimised
// for tick-pipeline latencies.
var latencyBuckets = []float64{
	0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.GrowthTickDuration, err = m.Float64Histogram("worldgen.growth_tick.duration",
		metric.WithDescription("Latency of one growth tick."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SystemTickDuration, err = m.Float64Histogram("worldgen.system_tick.duration",
		metric.WithDescription("Latency of one system-phase tick across all systems."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PlacementDuration, err = m.Float64Histogram("worldgen.placement.duration",
		metric.WithDescription("Latency of one placement-scheme invocation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.TemplatesFired, err = m.Int64Counter("worldgen.templates.fired",
		metric.WithDescription("Total growth-template selections by template id."),
	); err != nil {
		return nil, err
	}
	if met.TemplatesSkipped, err = m.Int64Counter("worldgen.templates.skipped",
		metric.WithDescription("Total growth templates skipped by gate or saturation, by reason."),
	); err != nil {
		return nil, err
	}
	if met.SystemsFired, err = m.Int64Counter("worldgen.systems.fired",
		metric.WithDescription("Total simulation-system applications by system id."),
	); err != nil {
		return nil, err
	}
	if met.PlacementAttempts, err = m.Int64Counter("worldgen.placement.attempts",
		metric.WithDescription("Total placement-scheme invocations by scheme and status."),
	); err != nil {
		return nil, err
	}
	if met.ContractGateDenials, err = m.Int64Counter("worldgen.contract.gate_denials",
		metric.WithDescription("Total contract-gate refusals by id and reason."),
	); err != nil {
		return nil, err
	}
	if met.CascadeEvents, err = m.Int64Counter("worldgen.placement.cascade_events",
		metric.WithDescription("Total saturation-cascade placement fallbacks."),
	); err != nil {
		return nil, err
	}
	if met.SafetyValveTrips, err = m.Int64Counter("worldgen.driver.safety_valve_trips",
		metric.WithDescription("Total simulation runs halted by the safety valve."),
	); err != nil {
		return nil, err
	}
	if met.EraTransitions, err = m.Int64Counter("worldgen.driver.era_transitions",
		metric.WithDescription("Total completed era transitions."),
	); err != nil {
		return nil, err
	}

	// Gauges.
	if met.EntityCount, err = m.Int64UpDownCounter("worldgen.graph.entity_count",
		metric.WithDescription("Total live entity count in the graph."),
	); err != nil {
		return nil, err
	}
	if met.PopulationDeviation, err = m.Float64Gauge("worldgen.population.deviation",
		metric.WithDescription("Latest population-tracker deviation per entity key."),
	); err != nil {
		return nil, err
	}
	if met.DistributionOverall, err = m.Float64Gauge("worldgen.distribution.overall",
		metric.WithDescription("Latest distribution-tracker overall deviation score."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("worldgen.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTemplateFired is a convenience method recording a template
// selection.
func (m *Metrics) RecordTemplateFired(ctx context.Context, templateID string) {
	m.TemplatesFired.Add(ctx, 1, metric.WithAttributes(attribute.String("template_id", templateID)))
}

// RecordTemplateSkipped is a convenience method recording a gate or
// saturation refusal.
func (m *Metrics) RecordTemplateSkipped(ctx context.Context, templateID, reason string) {
	m.TemplatesSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template_id", templateID),
		attribute.String("reason", reason),
	))
}

// RecordPlacementAttempt is a convenience method recording one
// placement-scheme invocation.
func (m *Metrics) RecordPlacementAttempt(ctx context.Context, scheme, status string) {
	m.PlacementAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.String("status", status),
	))
}

// RecordContractGateDenial is a convenience method recording a contract-gate
// refusal.
func (m *Metrics) RecordContractGateDenial(ctx context.Context, id, reason string) {
	m.ContractGateDenials.Add(ctx, 1, metric.WithAttributes(
		attribute.String("id", id),
		attribute.String("reason", reason),
	))
}

// RecordPopulationDeviation is a convenience method recording the latest
// population deviation for an entity key.
func (m *Metrics) RecordPopulationDeviation(ctx context.Context, entityKey string, deviation float64) {
	m.PopulationDeviation.Record(ctx, deviation, metric.WithAttributes(attribute.String("entity_key", entityKey)))
}
