package mock

import (
	"context"

	"github.com/mkowalski/kpiq"
)

var _ kpiq.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of kpiq.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, question string, opts kpiq.RetrieveOptions) (*kpiq.Answer, error)
}

func (a *Answerer) Answer(ctx context.Context, question string, opts kpiq.RetrieveOptions) (*kpiq.Answer, error) {
	return a.AnswerFn(ctx, question, opts)
}
