package pipeline

import (
	"fmt"
	"math"

	"github.com/mkowalski/kpiq"
)

// EmissionsReport is the outcome of the cross-KPI emissions sanity check.
// It is purely diagnostic: it never alters stored data and never fails a
// batch.
type EmissionsReport struct {
	// Ran is false when any required record was missing or non-numeric,
	// in which case Failure explains why.
	Ran     bool   `json:"ran"`
	Failure string `json:"failure,omitempty"`

	Total      float64 `json:"total"`
	ScopeSum   float64 `json:"scopeSum"`
	Difference float64 `json:"difference"`
}

// String renders the report for display.
func (r EmissionsReport) String() string {
	if !r.Ran {
		return "check failed: " + r.Failure
	}
	return fmt.Sprintf("total=%g sum(scopes)=%g difference=%g", r.Total, r.ScopeSum, r.Difference)
}

// CheckEmissions compares the total GHG emissions record against the sum of
// the three scope records and reports the absolute difference. A missing or
// non-numeric record makes the check report failure instead of raising.
func CheckEmissions(kpis []*kpiq.KPI) EmissionsReport {
	byName := make(map[string]*kpiq.KPI, len(kpis))
	for _, k := range kpis {
		byName[k.Name] = k
	}

	values := make(map[string]float64, 4)
	for _, name := range []string{kpiq.KPITotalGHG, kpiq.KPIScope1, kpiq.KPIScope2, kpiq.KPIScope3} {
		k, ok := byName[name]
		if !ok {
			return EmissionsReport{Failure: fmt.Sprintf("record %q missing", name)}
		}
		if k.Value == nil {
			return EmissionsReport{Failure: fmt.Sprintf("record %q has no numeric value", name)}
		}
		values[name] = *k.Value
	}

	total := values[kpiq.KPITotalGHG]
	sum := values[kpiq.KPIScope1] + values[kpiq.KPIScope2] + values[kpiq.KPIScope3]

	return EmissionsReport{
		Ran:        true,
		Total:      total,
		ScopeSum:   sum,
		Difference: math.Abs(total - sum),
	}
}
