package app

import (
	"fmt"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell/observable"
)

func wrapCommand[C shell.Command](handler shell.CoreCommandHandler[C], s settings) (shell.CoreCommandHandler[C], error) {
	wrapper, err := observable.NewCommandWrapper(handler,
		observable.WithCommandMetrics[C](s.metrics),
		observable.WithCommandTracing[C](s.tracing),
		observable.WithCommandContextualLogging[C](s.contextualLogger),
		observable.WithCommandLogging[C](s.logger),
	)
	if err != nil {
		var zero C
		return nil, fmt.Errorf("failed to wrap %s handler: %w", zero.CommandType(), err)
	}

	return wrapper, nil
}

func wrapQuery[Q shell.Query, R any](handler shell.CoreQueryHandler[Q, R], s settings) (shell.CoreQueryHandler[Q, R], error) {
	wrapper, err := observable.NewQueryWrapper(handler,
		observable.WithQueryMetrics[Q, R](s.metrics),
		observable.WithQueryTracing[Q, R](s.tracing),
		observable.WithQueryContextualLogging[Q, R](s.contextualLogger),
		observable.WithQueryLogging[Q, R](s.logger),
	)
	if err != nil {
		var zero Q
		return nil, fmt.Errorf("failed to wrap %s handler: %w", zero.QueryType(), err)
	}

	return wrapper, nil
}
