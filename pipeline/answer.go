// Package pipeline provides the retrieval-and-extraction orchestration:
// free-form question answering, numeric KPI extraction, batch runs over the
// KPI catalog and cross-KPI consistency checks. It coordinates the
// similarity index, the grounding prompt builders and the model gateway.
package pipeline

import (
	"context"

	"github.com/mkowalski/kpiq"
)

// DefaultAnswerK is the retrieval depth for free-form answers.
const DefaultAnswerK = 6

// Ensure Answerer implements kpiq.Answerer at compile time.
var _ kpiq.Answerer = (*Answerer)(nil)

// Answerer composes retrieval, prompt building and the model gateway into
// the free-form answer pipeline. Calls are synchronous and idempotent given
// identical index, store, question and options.
type Answerer struct {
	Retriever kpiq.Retriever
	Gateway   kpiq.Gateway
}

// Answer retrieves grounding fragments, builds the free-form prompt, asks
// the model and returns the answer together with the fragments and the
// prompt used. Gateway failures surface as a degraded result carrying the
// failure diagnostic, never as an error.
func (a *Answerer) Answer(ctx context.Context, question string, opts kpiq.RetrieveOptions) (*kpiq.Answer, error) {
	if question == "" {
		return nil, kpiq.Errorf(kpiq.EINVALID, "question required")
	}
	if opts.K <= 0 {
		opts.K = DefaultAnswerK
	}

	fragments, err := a.Retriever.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	prompt := kpiq.BuildAnswerPrompt(question, fragments)
	completion := a.Gateway.Complete(ctx, prompt)

	return &kpiq.Answer{
		Answer:    completion.Sentinel(),
		Fragments: fragments,
		Prompt:    prompt,
		Degraded:  completion.Failed(),
	}, nil
}
