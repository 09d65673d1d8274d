// Package slog provides logging decorators for kpiq services using the
// standard library structured logger.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkowalski/kpiq"
)

// Ensure LoggingRetriever implements kpiq.Retriever.
var _ kpiq.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with debug logging for each query.
type LoggingRetriever struct {
	next   kpiq.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next kpiq.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the query shape,
// result count and duration.
func (r *LoggingRetriever) Retrieve(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error) {
	begin := time.Now()
	results, err := r.next.Retrieve(ctx, question, opts)
	if err != nil {
		r.logger.Error("retrieval failed",
			"k", opts.K,
			"docTypes", opts.AllowedDocTypes,
			"error", kpiq.ErrorMessage(err),
			"duration", time.Since(begin),
		)
		return nil, err
	}

	top := 0.0
	if len(results) > 0 {
		top = results[0].Similarity
	}
	r.logger.Debug("retrieval",
		"k", opts.K,
		"docTypes", opts.AllowedDocTypes,
		"results", len(results),
		"topSimilarity", top,
		"duration", time.Since(begin),
	)
	return results, nil
}
