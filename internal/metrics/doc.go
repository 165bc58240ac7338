// Package metrics records generation metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics stay
// optional:
//
//	gen := generator.New(cfg, generator.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The registry behind a PrometheusRecorder is exported either over HTTP
// (HTTPHandler, used by the watch command) or as a node exporter textfile
// after a single run (WriteTextfile).
package metrics
