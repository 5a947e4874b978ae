package testdoubles

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/dynamic-streams-shelving/eventstore"
)

// ContextualLoggerSpy captures contextual log calls per level.
type ContextualLoggerSpy struct {
	records map[string][]SpyContextualLogRecord
	mu      sync.Mutex
}

// SpyContextualLogRecord represents a recorded contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{records: make(map[string][]SpyContextualLogRecord)}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// Records returns a copy of the records logged at level.
func (s *ContextualLoggerSpy) Records(level string) []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyContextualLogRecord(nil), s.records[level]...)
}

// HasLog checks if a log with the message exists at level.
func (s *ContextualLoggerSpy) HasLog(level string, message string) bool {
	for _, record := range s.Records(level) {
		if record.Message == message {
			return true
		}
	}

	return false
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[level] = append(s.records[level], SpyContextualLogRecord{
		Level:   level,
		Message: msg,
		Args:    args,
		Context: ctx,
	})
}

var _ eventstore.ContextualLogger = (*ContextualLoggerSpy)(nil)
