package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkowalski/kpiq"
)

// Ensure LoggingGateway implements kpiq.Gateway.
var _ kpiq.Gateway = (*LoggingGateway)(nil)

// LoggingGateway wraps a Gateway with logging for each model call.
type LoggingGateway struct {
	next   kpiq.Gateway
	logger *slog.Logger
}

// NewLoggingGateway creates a new LoggingGateway.
func NewLoggingGateway(next kpiq.Gateway, logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger}
}

// Complete delegates to the wrapped gateway and logs the outcome. Failed
// completions are logged as warnings since callers absorb them.
func (g *LoggingGateway) Complete(ctx context.Context, prompt string) kpiq.Completion {
	begin := time.Now()
	completion := g.next.Complete(ctx, prompt)

	if completion.Failed() {
		g.logger.Warn("model call failed",
			"kind", completion.Failure.Kind,
			"error", completion.Failure.Message,
			"promptBytes", len(prompt),
			"duration", time.Since(begin),
		)
		return completion
	}

	g.logger.Debug("model call",
		"promptBytes", len(prompt),
		"responseBytes", len(completion.Text),
		"duration", time.Since(begin),
	)
	return completion
}
