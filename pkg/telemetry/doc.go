// Package telemetry provides subject.Recorder implementations backed by
// Prometheus and OpenTelemetry.
//
// Install them once at startup:
//
//	reg := prometheus.NewRegistry()
//	subject.SetRecorder(subject.MultiRecorder(
//	    telemetry.NewMetrics(telemetry.WithRegistry(reg)),
//	    telemetry.NewTracing(telemetry.WithTracerName("thermostat")),
//	))
//
// Metrics collected (namespace "observer" by default):
//   - observer_notifications_total: Notify calls by subject kind
//   - observer_deliveries_total: callback invocations by subject kind
//   - observer_notify_restarts_total: walks restarted after a removal
//   - observer_notify_dropped_total: Notify calls refused by the depth guard
//   - observer_notify_duration_seconds: time spent delivering
//   - observer_observers: attached observers by subject kind
//   - observer_problems_total: reported misuse by error code
package telemetry
