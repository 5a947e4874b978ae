package app

import (
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/reconcile"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shelf"
)

type settings struct {
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	policy           shelf.CascadePolicy
	retryOptions     []shell.RetryOption
	now              func() time.Time
	staleAfter       time.Duration
}

type Option func(*settings)

func WithLogger(logger shell.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *settings) {
		s.contextualLogger = logger
	}
}

func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *settings) {
		s.metrics = collector
	}
}

func WithTracing(collector shell.TracingCollector) Option {
	return func(s *settings) {
		s.tracing = collector
	}
}

// WithCascadePolicy decides what happens to the books on the shelves of a deleted bookcase.
func WithCascadePolicy(policy shelf.CascadePolicy) Option {
	return func(s *settings) {
		s.policy = policy
	}
}

// WithRetryOptions applies to every command handler and to the book port's bulk operations.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(s *settings) {
		s.retryOptions = opts
	}
}

// WithClock sets the time source for facts the app appends on its own, like cascade steps and rollbacks.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func WithStaleAfter(d time.Duration) Option {
	return func(s *settings) {
		s.staleAfter = d
	}
}

func defaultSettings() settings {
	return settings{
		policy:     shelf.CascadeUnassign,
		now:        time.Now,
		staleAfter: reconcile.DefaultStaleAfter,
	}
}
