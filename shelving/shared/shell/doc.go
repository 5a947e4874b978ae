// Package shell holds the infrastructure every feature slice shares: mapping between domain events
// and storable events, event metadata, the retry loop for conditional appends, handler results and
// the logging, metrics and tracing helpers used by the observable wrappers.
//
// In hexagonal terms this is the adapter side; the decisions live in core and in the slices.
package shell
