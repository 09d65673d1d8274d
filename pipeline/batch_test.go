package pipeline_test

import (
	"context"
	"testing"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/mock"
	"github.com/mkowalski/kpiq/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func scored(id int, source string) kpiq.ScoredFragment {
	return kpiq.ScoredFragment{
		Fragment: &kpiq.Fragment{
			ID: id, Text: "text", Source: source,
			DocType: kpiq.DocTypeESG, Year: 2024,
		},
		Similarity: 0.5,
	}
}

func TestBatch_Run(t *testing.T) {
	t.Parallel()

	t.Run("produces one record per catalog entry, in order", func(t *testing.T) {
		t.Parallel()

		catalog := []kpiq.Spec{
			{Name: "Revenue", Category: kpiq.CategoryFinancial, Question: "What was revenue?", Unit: "EUR", Year: 2024},
			{Name: "Headcount", Category: kpiq.CategoryOther, Question: "How many employees?", Unit: "employees", Year: 2024},
		}

		var questions []string
		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(_ context.Context, question, _ string, _ kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					questions = append(questions, question)
					return &kpiq.KPIResult{
						Value:      ptr(42.0),
						Confidence: kpiq.ConfidenceHigh,
						ChunkIDs:   []int{1},
					}, nil
				},
			},
			Catalog: catalog,
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, kpis, 2)

		assert.Equal(t, []string{"What was revenue?", "How many employees?"}, questions, "catalog order preserved")
		assert.Equal(t, "Revenue", kpis[0].Name)
		assert.Equal(t, "Headcount", kpis[1].Name)
		assert.Equal(t, kpiq.CategoryFinancial, kpis[0].Category)
		assert.Equal(t, 2024, kpis[0].Year)
		assert.Equal(t, "What was revenue?", kpis[0].Description, "catalog question becomes the description")
	})

	t.Run("passes allowed doc types through to retrieval", func(t *testing.T) {
		t.Parallel()

		var gotOpts kpiq.RetrieveOptions
		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(_ context.Context, _, _ string, opts kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					gotOpts = opts
					return &kpiq.KPIResult{}, nil
				},
			},
			Catalog: []kpiq.Spec{
				{Name: "x", Question: "q", Unit: "u", AllowedDocTypes: []kpiq.DocType{kpiq.DocTypeESG, kpiq.DocTypeAnnual}},
			},
		}

		_, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, pipeline.DefaultKPIK, gotOpts.K)
		assert.Equal(t, []kpiq.DocType{kpiq.DocTypeESG, kpiq.DocTypeAnnual}, gotOpts.AllowedDocTypes)
	})

	t.Run("model-reported unit wins over the catalog unit", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return &kpiq.KPIResult{Unit: ptr("ktCO2e"), Confidence: kpiq.ConfidenceMedium}, nil
				},
			},
			Catalog: []kpiq.Spec{{Name: "x", Question: "q", Unit: "tCO2e"}},
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ktCO2e", kpis[0].Unit)
	})

	t.Run("missing or empty unit falls back to the catalog unit", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return &kpiq.KPIResult{Unit: ptr("")}, nil
				},
			},
			Catalog: []kpiq.Spec{{Name: "x", Question: "q", Unit: "tCO2e"}},
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tCO2e", kpis[0].Unit)
	})

	t.Run("missing confidence defaults to unknown", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return &kpiq.KPIResult{Value: ptr(1.0)}, nil
				},
			},
			Catalog: []kpiq.Spec{{Name: "x", Question: "q", Unit: "u"}},
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, kpiq.ConfidenceUnknown, kpis[0].Confidence)
	})

	t.Run("sources are deduplicated in order of first appearance", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return &kpiq.KPIResult{
						Fragments: []kpiq.ScoredFragment{
							scored(1, "esg.pdf"),
							scored(2, "annual.pdf"),
							scored(3, "esg.pdf"),
						},
					}, nil
				},
			},
			Catalog: []kpiq.Spec{{Name: "x", Question: "q", Unit: "u"}},
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "esg.pdf, annual.pdf", kpis[0].Source)
	})

	t.Run("structural extraction error aborts the run", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return nil, kpiq.Errorf(kpiq.ECONFLICT, "index is stale")
				},
			},
			Catalog: kpiq.Catalog(),
		}

		_, err := b.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, kpiq.ECONFLICT, kpiq.ErrorCode(err))
	})

	t.Run("full catalog yields the full dataset", func(t *testing.T) {
		t.Parallel()

		b := &pipeline.Batch{
			Extractor: &mock.KPIExtractor{
				ExtractKPIFn: func(context.Context, string, string, kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
					return &kpiq.KPIResult{Confidence: kpiq.ConfidenceLow}, nil
				},
			},
			Catalog: kpiq.Catalog(),
		}

		kpis, err := b.Run(context.Background())
		require.NoError(t, err)
		require.Len(t, kpis, len(kpiq.Catalog()))
		assert.Equal(t, kpiq.KPITotalGHG, kpis[0].Name, "catalog order carries into the dataset")
	})
}

func TestApplyOverrides(t *testing.T) {
	t.Parallel()

	t.Run("applies each override in order", func(t *testing.T) {
		t.Parallel()

		var applied []string
		svc := &mock.KPIService{
			ApplyOverrideFn: func(_ context.Context, override kpiq.Override) error {
				applied = append(applied, override.Name)
				return nil
			},
		}

		err := pipeline.ApplyOverrides(context.Background(), svc, kpiq.ManualOverrides())
		require.NoError(t, err)
		assert.Equal(t, []string{kpiq.KPIScope1, kpiq.KPIScope2}, applied)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		t.Parallel()

		var calls int
		svc := &mock.KPIService{
			ApplyOverrideFn: func(context.Context, kpiq.Override) error {
				calls++
				return kpiq.Errorf(kpiq.ENOTFOUND, "KPI not found")
			},
		}

		err := pipeline.ApplyOverrides(context.Background(), svc, kpiq.ManualOverrides())
		require.Error(t, err)
		assert.Equal(t, kpiq.ENOTFOUND, kpiq.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})
}
