package main

import (
	"fmt"
	"os"

	"github.com/mkowalski/kpiq"
	kpiqcsv "github.com/mkowalski/kpiq/csv"
	"github.com/mkowalski/kpiq/pipeline"
	"golang.org/x/time/rate"
)

// Run executes the extract command: one KPI record per catalog entry, in
// catalog order, then the emissions consistency check.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	batch := &pipeline.Batch{
		Extractor: &pipeline.Extractor{
			Retriever: deps.Retriever,
			Gateway:   deps.Gateway,
		},
		Catalog: kpiq.Catalog(),
		Logger:  deps.Logger,
	}
	if c.RPS > 0 {
		batch.Limiter = rate.NewLimiter(rate.Limit(c.RPS), 1)
	}

	kpis, err := batch.Run(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	if err := deps.KPIs.ReplaceKPIs(deps.Ctx, kpis); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Extracted %d KPI records\n", len(kpis))

	report := pipeline.CheckEmissions(kpis)
	fmt.Fprintf(deps.Stdout, "Emissions check: %s\n", report)

	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("failed to create dataset export: %w", err)
		}
		defer f.Close()
		if err := kpiqcsv.WriteKPIDataset(f, kpis); err != nil {
			return fmt.Errorf("failed to export dataset: %w", err)
		}
		fmt.Fprintf(deps.Stdout, "Exported dataset to %s\n", c.Out)
	}

	return nil
}
