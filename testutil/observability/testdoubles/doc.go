// Package testdoubles provides spies for the observability interfaces of the event store and the
// command and query handlers. They capture calls so tests can assert on logs, metrics and spans
// without a telemetry backend.
package testdoubles
