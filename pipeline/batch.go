package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mkowalski/kpiq"
	"golang.org/x/time/rate"
)

// Batch runs the KPI extraction pipeline over a catalog, one entry at a
// time, producing one KPI record per entry in catalog order. There is no
// partial-batch parallelism.
type Batch struct {
	Extractor kpiq.KPIExtractor
	Catalog   []kpiq.Spec

	// Limiter paces gateway calls. Nil means no pacing.
	Limiter *rate.Limiter

	// Logger receives per-entry progress. Nil disables logging.
	Logger *slog.Logger
}

// Run executes the batch and returns the produced records. Degraded
// extractions become low-confidence rows; only structural errors (empty
// candidate sets, stale artifacts) abort the run.
func (b *Batch) Run(ctx context.Context) ([]*kpiq.KPI, error) {
	runID := uuid.New().String()
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	kpis := make([]*kpiq.KPI, 0, len(b.Catalog))
	for _, spec := range b.Catalog {
		if b.Limiter != nil {
			if err := b.Limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		logger.Info("extracting KPI",
			"run", runID,
			"name", spec.Name,
			"docTypes", spec.AllowedDocTypes,
		)

		result, err := b.Extractor.ExtractKPI(ctx, spec.Question, spec.Unit, kpiq.RetrieveOptions{
			K:               DefaultKPIK,
			AllowedDocTypes: spec.AllowedDocTypes,
		})
		if err != nil {
			return nil, err
		}

		kpi := shapeKPI(spec, result)
		logger.Info("extracted KPI",
			"run", runID,
			"name", kpi.Name,
			"value", kpi.Value,
			"confidence", kpi.Confidence,
		)
		kpis = append(kpis, kpi)
	}

	return kpis, nil
}

// shapeKPI folds one extraction result into its catalog entry's record.
func shapeKPI(spec kpiq.Spec, result *kpiq.KPIResult) *kpiq.KPI {
	unit := spec.Unit
	if result.Unit != nil && *result.Unit != "" {
		unit = *result.Unit
	}

	confidence := result.Confidence
	if confidence == "" {
		confidence = kpiq.ConfidenceUnknown
	}

	return &kpiq.KPI{
		Name:        spec.Name,
		Category:    spec.Category,
		Value:       result.Value,
		Unit:        unit,
		Year:        spec.Year,
		Description: spec.Question,
		Source:      joinSources(result.Fragments),
		ChunkIDs:    result.ChunkIDs,
		Confidence:  confidence,
		Reason:      result.Reason,
		RawSnippet:  result.RawSnippet,
	}
}

// joinSources aggregates supporting fragment sources, deduplicated in order
// of first appearance.
func joinSources(fragments []kpiq.ScoredFragment) string {
	seen := make(map[string]struct{}, len(fragments))
	var sources []string
	for _, sf := range fragments {
		src := sf.Fragment.Source
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}
		sources = append(sources, src)
	}
	return strings.Join(sources, ", ")
}

// ApplyOverrides applies human-verified corrections to the stored dataset.
// Each override touches only its named record, setting manual confidence.
func ApplyOverrides(ctx context.Context, kpis kpiq.KPIService, overrides []kpiq.Override) error {
	for _, o := range overrides {
		if err := kpis.ApplyOverride(ctx, o); err != nil {
			return err
		}
	}
	return nil
}
