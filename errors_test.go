package kpiq_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mkowalski/kpiq"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("application error returns its code", func(t *testing.T) {
		t.Parallel()

		err := kpiq.Errorf(kpiq.ENOTFOUND, "similarity index not found")
		assert.Equal(t, kpiq.ENOTFOUND, kpiq.ErrorCode(err))
	})

	t.Run("wrapped application error is unwrapped", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("loading artifacts: %w", kpiq.Errorf(kpiq.ECONFLICT, "stale index"))
		assert.Equal(t, kpiq.ECONFLICT, kpiq.ErrorCode(err))
	})

	t.Run("non-application error is internal", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, kpiq.EINTERNAL, kpiq.ErrorCode(errors.New("disk failure")))
	})

	t.Run("nil error has no code", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, kpiq.ErrorCode(nil))
	})
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("application error returns its message", func(t *testing.T) {
		t.Parallel()

		err := kpiq.Errorf(kpiq.EINVALID, "missing required column in raw fragment table: %s", "text")
		assert.Equal(t, "missing required column in raw fragment table: text", kpiq.ErrorMessage(err))
	})

	t.Run("non-application error is masked", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Internal error.", kpiq.ErrorMessage(errors.New("disk failure")))
	})
}
