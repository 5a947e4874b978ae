// Package observable decorates command and query handlers with logging, metrics and tracing.
//
// A core handler only runs the Query -> Decide -> Append workflow and reports its outcome in a
// shell.HandlerResult. The wrappers translate that outcome into a status:
//
//	success              state changed
//	idempotent           nothing to change
//	rejected             a domain rule said no (not found, conflict, capacity, invalid input)
//	concurrency_conflict retries exhausted
//	canceled, timeout    the context ended
//	error                anything technical
//
// Every collector is optional.
package observable
