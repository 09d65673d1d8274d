package kpiq

// Company names the organization the corpus covers. Prompt role statements
// and catalog questions reference it.
const Company = "EssilorLuxottica"

// Names of the emissions records the consistency check compares.
const (
	KPITotalGHG = "Total GHG emissions (Scope 1+2+3)"
	KPIScope1   = "Scope 1 emissions"
	KPIScope2   = "Scope 2 emissions (market-based)"
	KPIScope3   = "Scope 3 emissions"
)

// Spec is one declarative catalog entry: pure data driving exactly one KPI
// extraction per batch run. Adding a KPI is a data-only change.
type Spec struct {
	Name            string    `json:"name"`
	Category        Category  `json:"category"`
	Question        string    `json:"question"`
	Unit            string    `json:"unit"`
	Year            int       `json:"year"`
	AllowedDocTypes []DocType `json:"allowedDocTypes,omitempty"`
}

// Catalog returns the fixed, ordered list of KPI questions a batch run
// extracts. The batch produces one KPI record per entry, in this order.
func Catalog() []Spec {
	return []Spec{
		{
			Name:            KPITotalGHG,
			Category:        CategoryESG,
			Question:        "What are EssilorLuxottica's total Scope 1, 2 and 3 emissions for FY24?",
			Unit:            "tCO2e",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeESG},
		},
		{
			Name:            KPIScope1,
			Category:        CategoryESG,
			Question:        "What is the numeric value of EssilorLuxottica's Scope 1 emissions (in tCO2e) for FY24?",
			Unit:            "tCO2e",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeESG},
		},
		{
			Name:            KPIScope2,
			Category:        CategoryESG,
			Question:        "What is the numeric value of EssilorLuxottica's Scope 2 emissions (market-based, in tCO2e) for FY24?",
			Unit:            "tCO2e",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeESG},
		},
		{
			Name:            KPIScope3,
			Category:        CategoryESG,
			Question:        "What are EssilorLuxottica's Scope 3 emissions for FY24?",
			Unit:            "tCO2e",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeESG},
		},
		{
			Name:            "Revenue",
			Category:        CategoryFinancial,
			Question:        "What is EssilorLuxottica's total revenue for FY24?",
			Unit:            "EUR bn",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeFinancial, DocTypeAnnual},
		},
		{
			Name:            "EBITDA",
			Category:        CategoryFinancial,
			Question:        "What is EssilorLuxottica's EBITDA for FY24?",
			Unit:            "EUR bn",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeFinancial, DocTypeAnnual},
		},
		{
			Name:            "Operating margin",
			Category:        CategoryFinancial,
			Question:        "What is EssilorLuxottica's operating margin for FY24 (in %)?",
			Unit:            "%",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeFinancial, DocTypeAnnual},
		},
		{
			Name:            "Total GHG intensity",
			Category:        CategoryESG,
			Question:        "What is EssilorLuxottica's total greenhouse gas emissions intensity (tCO2e per EUR million EVIC) for FY24?",
			Unit:            "tCO2e / EURm EVIC",
			Year:            2024,
			AllowedDocTypes: []DocType{DocTypeESG},
		},
	}
}

// ManualOverrides returns the human-verified corrections applied after a
// batch run, sourced from the audited ESG report figures.
func ManualOverrides() []Override {
	scope1 := 116092.0
	scope2 := 475555.0
	return []Override{
		{Name: KPIScope1, Value: &scope1, Reason: "Manually set from verified ESG figures."},
		{Name: KPIScope2, Value: &scope2, Reason: "Manually set from verified ESG figures."},
	}
}
