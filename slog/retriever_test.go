package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/mock"
	kpiqslog "github.com/mkowalski/kpiq/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRetriever_Retrieve(t *testing.T) {
	t.Parallel()

	t.Run("logs query shape, result count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error) {
				return []kpiq.ScoredFragment{
					{Fragment: &kpiq.Fragment{ID: 1, Text: "t", Source: "a.pdf", DocType: kpiq.DocTypeESG, Year: 2024}, Similarity: 0.9},
					{Fragment: &kpiq.Fragment{ID: 2, Text: "t", Source: "b.pdf", DocType: kpiq.DocTypeESG, Year: 2024}, Similarity: 0.4},
				}, nil
			},
		}

		r := kpiqslog.NewLoggingRetriever(inner, logger)
		results, err := r.Retrieve(context.Background(), "emissions?", kpiq.RetrieveOptions{K: 2})

		require.NoError(t, err)
		assert.Len(t, results, 2)
		output := buf.String()
		assert.Contains(t, output, "retrieval")
		assert.Contains(t, output, "k=2")
		assert.Contains(t, output, "results=2")
		assert.Contains(t, output, "topSimilarity=0.9")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Retriever{
			RetrieveFn: func(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error) {
				return nil, kpiq.Errorf(kpiq.EINVALID, "no fragments available for the given allowed doc types")
			},
		}

		r := kpiqslog.NewLoggingRetriever(inner, logger)
		_, err := r.Retrieve(context.Background(), "emissions?", kpiq.RetrieveOptions{K: 6})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "retrieval failed")
		assert.Contains(t, output, "no fragments available")
	})
}
