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
)

func TestLoggingGateway_Complete(t *testing.T) {
	t.Parallel()

	t.Run("logs byte counts and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Gateway{
			CompleteFn: func(ctx context.Context, prompt string) kpiq.Completion {
				return kpiq.CompletionText("answer")
			},
		}

		g := kpiqslog.NewLoggingGateway(inner, logger)
		completion := g.Complete(context.Background(), "prompt text")

		assert.False(t, completion.Failed())
		output := buf.String()
		assert.Contains(t, output, "model call")
		assert.Contains(t, output, "promptBytes=11")
		assert.Contains(t, output, "responseBytes=6")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs failed calls as warnings and passes them through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Gateway{
			CompleteFn: func(ctx context.Context, prompt string) kpiq.Completion {
				return kpiq.CompletionFailure("APIError", "quota exhausted", prompt)
			},
		}

		g := kpiqslog.NewLoggingGateway(inner, logger)
		completion := g.Complete(context.Background(), "prompt text")

		assert.True(t, completion.Failed())
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "model call failed")
		assert.Contains(t, output, "kind=APIError")
		assert.Contains(t, output, "quota exhausted")
	})
}
