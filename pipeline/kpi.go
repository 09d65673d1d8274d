package pipeline

import (
	"context"

	"github.com/mkowalski/kpiq"
)

// DefaultKPIK is the retrieval depth for numeric KPI extraction.
const DefaultKPIK = 8

// Ensure Extractor implements kpiq.KPIExtractor at compile time.
var _ kpiq.KPIExtractor = (*Extractor)(nil)

// Extractor composes retrieval, the numeric-KPI prompt and the model
// gateway into the KPI extraction pipeline.
type Extractor struct {
	Retriever kpiq.Retriever
	Gateway   kpiq.Gateway
}

// ExtractKPI retrieves grounding fragments, asks the model for a single
// JSON object and strictly parses it. Gateway failures and malformed model
// output both degrade into a low-confidence nil-value result with the raw
// text preserved; structural retrieval errors propagate.
func (e *Extractor) ExtractKPI(ctx context.Context, question, expectedUnit string, opts kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
	if question == "" {
		return nil, kpiq.Errorf(kpiq.EINVALID, "question required")
	}
	if opts.K <= 0 {
		opts.K = DefaultKPIK
	}

	fragments, err := e.Retriever.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	prompt := kpiq.BuildKPIPrompt(question, expectedUnit, fragments)
	completion := e.Gateway.Complete(ctx, prompt)

	// A failed call carries no JSON; the sentinel text fails the strict
	// parse and yields the low-confidence fallback, with the diagnostic
	// preserved in RawResponse for audit.
	result := kpiq.ParseExtraction(completion.Sentinel())
	result.Fragments = fragments
	return &result, nil
}
