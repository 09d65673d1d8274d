package kpiq_test

import (
	"testing"

	"github.com/mkowalski/kpiq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want *float64
	}{
		{"thousands separators", "1,234.56", ptr(1234.56)},
		{"trailing percent", "17%", ptr(17.0)},
		{"percent with space", "17 %", ptr(17.0)},
		{"plain float", "2.65", ptr(2.65)},
		{"negative", "-12.5", ptr(-12.5)},
		{"integer", "591742", ptr(591742.0)},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"non-numeric", "n/a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := kpiq.ParseValue(tt.raw)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestParseExtraction(t *testing.T) {
	t.Parallel()

	t.Run("parses a well-formed extraction", func(t *testing.T) {
		t.Parallel()

		raw := `{"value": 591742, "unit": "tCO2e", "chunk_ids": [3, 14], "confidence": "high", "reason": "stated directly", "raw_snippet": "total emissions of 591,742 tCO2e"}`

		result := kpiq.ParseExtraction(raw)

		require.NotNil(t, result.Value)
		assert.InDelta(t, 591742.0, *result.Value, 1e-9)
		require.NotNil(t, result.Unit)
		assert.Equal(t, "tCO2e", *result.Unit)
		assert.Equal(t, []int{3, 14}, result.ChunkIDs)
		assert.Equal(t, kpiq.ConfidenceHigh, result.Confidence)
		assert.Equal(t, "stated directly", result.Reason)
		assert.Equal(t, raw, result.RawResponse)
	})

	t.Run("null value passes through", func(t *testing.T) {
		t.Parallel()

		raw := `{"value": null, "unit": null, "chunk_ids": [], "confidence": "low", "reason": "not stated", "raw_snippet": ""}`

		result := kpiq.ParseExtraction(raw)

		assert.Nil(t, result.Value)
		assert.Nil(t, result.Unit)
		assert.Empty(t, result.ChunkIDs)
		assert.Equal(t, kpiq.ConfidenceLow, result.Confidence)
	})

	t.Run("malformed JSON degrades without raising", func(t *testing.T) {
		t.Parallel()

		raw := `{"value": 591742, "unit": "tCO2e", "chunk_ids": [3,`

		result := kpiq.ParseExtraction(raw)

		assert.Nil(t, result.Value)
		assert.Equal(t, []int{}, result.ChunkIDs)
		assert.Equal(t, kpiq.ConfidenceLow, result.Confidence)
		assert.Contains(t, result.Reason, "Failed to parse JSON")
		assert.Equal(t, raw, result.RawResponse, "raw text preserved unchanged for audit")
	})

	t.Run("prose instead of JSON degrades", func(t *testing.T) {
		t.Parallel()

		raw := "The total emissions were 591,742 tCO2e."

		result := kpiq.ParseExtraction(raw)

		assert.Nil(t, result.Value)
		assert.Equal(t, kpiq.ConfidenceLow, result.Confidence)
		assert.Equal(t, raw, result.RawResponse)
	})

	t.Run("missing chunk_ids normalizes to empty list", func(t *testing.T) {
		t.Parallel()

		raw := `{"value": 2.65, "unit": "EUR bn", "confidence": "medium", "reason": "", "raw_snippet": ""}`

		result := kpiq.ParseExtraction(raw)

		require.NotNil(t, result.Value)
		assert.Equal(t, []int{}, result.ChunkIDs)
	})

	t.Run("non-list chunk_ids normalizes to empty list", func(t *testing.T) {
		t.Parallel()

		raw := `{"value": 2.65, "unit": "EUR bn", "chunk_ids": "3, 14", "confidence": "medium", "reason": "", "raw_snippet": ""}`

		result := kpiq.ParseExtraction(raw)

		require.NotNil(t, result.Value)
		assert.Equal(t, []int{}, result.ChunkIDs)
	})
}

func TestKPI_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires name", func(t *testing.T) {
		t.Parallel()

		k := &kpiq.KPI{Category: kpiq.CategoryESG}
		err := k.Validate()
		require.Error(t, err)
		assert.Equal(t, kpiq.EINVALID, kpiq.ErrorCode(err))
	})

	t.Run("requires category", func(t *testing.T) {
		t.Parallel()

		k := &kpiq.KPI{Name: "Revenue"}
		err := k.Validate()
		require.Error(t, err)
		assert.Equal(t, kpiq.EINVALID, kpiq.ErrorCode(err))
	})
}

func ptr(v float64) *float64 { return &v }
