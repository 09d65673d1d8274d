package mock

import (
	"context"

	"github.com/mkowalski/kpiq"
)

var _ kpiq.Gateway = (*Gateway)(nil)

// Gateway is a mock implementation of kpiq.Gateway.
type Gateway struct {
	CompleteFn func(ctx context.Context, prompt string) kpiq.Completion
}

func (g *Gateway) Complete(ctx context.Context, prompt string) kpiq.Completion {
	return g.CompleteFn(ctx, prompt)
}
