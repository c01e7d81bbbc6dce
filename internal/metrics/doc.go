// Package metrics provides the observability hooks for compilation batches.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never need nil checks:
//
//	driver := build.NewDriver(cfg, store, assembler).WithRecorder(metrics.NoopRecorder{})
//
// When metrics are enabled in configuration, a PrometheusRecorder is built on
// a dedicated registry and exposed through HTTPHandler:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	mux.Handle(cfg.Metrics.Path, metrics.HTTPHandler(reg))
package metrics
