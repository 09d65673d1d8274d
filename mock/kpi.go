package mock

import (
	"context"

	"github.com/mkowalski/kpiq"
)

var _ kpiq.KPIService = (*KPIService)(nil)

// KPIService is a mock implementation of kpiq.KPIService.
type KPIService struct {
	ReplaceKPIsFn   func(ctx context.Context, kpis []*kpiq.KPI) error
	FindKPIsFn      func(ctx context.Context, filter kpiq.KPIFilter) ([]*kpiq.KPI, error)
	ApplyOverrideFn func(ctx context.Context, override kpiq.Override) error
}

func (s *KPIService) ReplaceKPIs(ctx context.Context, kpis []*kpiq.KPI) error {
	return s.ReplaceKPIsFn(ctx, kpis)
}

func (s *KPIService) FindKPIs(ctx context.Context, filter kpiq.KPIFilter) ([]*kpiq.KPI, error) {
	return s.FindKPIsFn(ctx, filter)
}

func (s *KPIService) ApplyOverride(ctx context.Context, override kpiq.Override) error {
	return s.ApplyOverrideFn(ctx, override)
}

var _ kpiq.KPIExtractor = (*KPIExtractor)(nil)

// KPIExtractor is a mock implementation of kpiq.KPIExtractor.
type KPIExtractor struct {
	ExtractKPIFn func(ctx context.Context, question, expectedUnit string, opts kpiq.RetrieveOptions) (*kpiq.KPIResult, error)
}

func (e *KPIExtractor) ExtractKPI(ctx context.Context, question, expectedUnit string, opts kpiq.RetrieveOptions) (*kpiq.KPIResult, error) {
	return e.ExtractKPIFn(ctx, question, expectedUnit, opts)
}
