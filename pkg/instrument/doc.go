// Package instrument provides safecontext.Observer implementations backed
// by Prometheus and OpenTelemetry.
//
// # Prometheus
//
//	metrics := instrument.NewMetrics(
//	    instrument.WithNamespace("myapp"),
//	)
//	Menu := safecontext.WithContext(contexts, project,
//	    safecontext.WithObserver(metrics),
//	).Wrap(menu)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
//
// Metrics collected (namespace "safecontext" by default):
//   - renders_total: Counter of wrapped renders by component
//   - render_duration_seconds: Histogram of wrapped render duration by component
//   - resolutions_total: Counter of complete context resolutions by component
//   - missing_contexts_total: Counter of consumers without a provider by context
//   - memo_decisions_total: Counter of memoized renders by component and outcome
//
// # OpenTelemetry
//
// Tracing starts one span per wrapped render and records resolutions,
// memo decisions and missing contexts on it:
//
//	tracing := instrument.NewTracing(instrument.WithTracerName("myapp"))
//	observer := safecontext.Observers(metrics, tracing)
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given.
package instrument
