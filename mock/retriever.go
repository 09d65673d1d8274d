// Package mock provides function-field mock implementations of kpiq
// interfaces for testing.
package mock

import (
	"context"

	"github.com/mkowalski/kpiq"
)

var _ kpiq.Retriever = (*Retriever)(nil)

// Retriever is a mock implementation of kpiq.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error)
}

func (r *Retriever) Retrieve(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error) {
	return r.RetrieveFn(ctx, question, opts)
}
