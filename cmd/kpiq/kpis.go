package main

import (
	"fmt"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/pipeline"
)

// Run executes the patch command.
func (c *PatchCmd) Run(deps *Dependencies) error {
	overrides := kpiq.ManualOverrides()
	if err := pipeline.ApplyOverrides(deps.Ctx, deps.KPIs, overrides); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	for _, o := range overrides {
		fmt.Fprintf(deps.Stdout, "Patched %q\n", o.Name)
	}
	return nil
}

// Run executes the kpis command.
func (c *KpisCmd) Run(deps *Dependencies) error {
	var filter kpiq.KPIFilter
	if c.Category != "" {
		category := kpiq.Category(c.Category)
		filter.Category = &category
	}

	kpis, err := deps.KPIs.FindKPIs(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	if len(kpis) == 0 {
		fmt.Fprintln(deps.Stdout, "No KPI records found. Run 'kpiq extract' first.")
		return nil
	}

	for _, k := range kpis {
		value := "null"
		if k.Value != nil {
			value = fmt.Sprintf("%g", *k.Value)
		}
		fmt.Fprintf(deps.Stdout, "%-40s %12s %-18s %-10s [%s]\n",
			k.Name, value, k.Unit, k.Confidence, k.Category)
	}
	return nil
}

// Run executes the check command.
func (c *CheckCmd) Run(deps *Dependencies) error {
	kpis, err := deps.KPIs.FindKPIs(deps.Ctx, kpiq.KPIFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	report := pipeline.CheckEmissions(kpis)
	fmt.Fprintf(deps.Stdout, "Emissions check: %s\n", report)
	return nil
}
