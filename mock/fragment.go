package mock

import (
	"context"

	"github.com/mkowalski/kpiq"
)

var _ kpiq.FragmentService = (*FragmentService)(nil)

// FragmentService is a mock implementation of kpiq.FragmentService.
type FragmentService struct {
	ReplaceFragmentsFn func(ctx context.Context, fragments []*kpiq.Fragment) error
	FindFragmentsFn    func(ctx context.Context, filter kpiq.FragmentFilter) ([]*kpiq.Fragment, error)
	FingerprintFn      func(ctx context.Context) (string, error)
}

func (s *FragmentService) ReplaceFragments(ctx context.Context, fragments []*kpiq.Fragment) error {
	return s.ReplaceFragmentsFn(ctx, fragments)
}

func (s *FragmentService) FindFragments(ctx context.Context, filter kpiq.FragmentFilter) ([]*kpiq.Fragment, error) {
	return s.FindFragmentsFn(ctx, filter)
}

func (s *FragmentService) Fingerprint(ctx context.Context) (string, error) {
	return s.FingerprintFn(ctx)
}
