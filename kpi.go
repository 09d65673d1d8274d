package kpiq

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// Category classifies a KPI.
type Category string

// Known KPI categories.
const (
	CategoryFinancial Category = "financial"
	CategoryESG       Category = "esg"
	CategoryOther     Category = "other"
)

// Confidence is a qualitative trust label on a KPI value. ConfidenceManual
// is reserved for human-verified overrides and is never produced by the
// model.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceManual  Confidence = "manual"
	ConfidenceUnknown Confidence = "unknown"
)

// KPI is a typed, confidence-scored numeric fact extracted from the corpus
// for one catalog question. Value is nil when extraction failed or the
// figure is absent from the source material.
type KPI struct {
	Name        string     `json:"name"`
	Category    Category   `json:"category"`
	Value       *float64   `json:"value"`
	Unit        string     `json:"unit"`
	Year        int        `json:"year"`
	Description string     `json:"description"`
	Source      string     `json:"source"`
	ChunkIDs    []int      `json:"chunkIds"`
	Confidence  Confidence `json:"confidence"`
	Reason      string     `json:"reason"`
	RawSnippet  string     `json:"rawSnippet"`
}

// Validate returns an error if the KPI contains invalid fields.
func (k *KPI) Validate() error {
	if k.Name == "" {
		return Errorf(EINVALID, "KPI name required")
	}
	if k.Category == "" {
		return Errorf(EINVALID, "KPI category required")
	}
	return nil
}

// ParseValue converts a raw tabular value into a number. It strips thousands
// separators and a trailing percent sign ("1,234.56" -> 1234.56, "17%" ->
// 17); empty or non-numeric input yields nil. Negative and plain numeric
// inputs pass through unchanged.
func ParseValue(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ",", "")
	if strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// KPIResult is the full outcome of one KPI extraction: the parsed (or
// fallback) extraction fields plus the raw model text and retrieved
// fragments, attached regardless of parse outcome so consumers can inspect
// provenance either way.
type KPIResult struct {
	Value      *float64   `json:"value"`
	Unit       *string    `json:"unit"`
	ChunkIDs   []int      `json:"chunkIds"`
	Confidence Confidence `json:"confidence"`
	Reason     string     `json:"reason"`
	RawSnippet string     `json:"rawSnippet"`

	RawResponse string           `json:"rawResponse"`
	Fragments   []ScoredFragment `json:"fragments"`
}

// extractionWire mirrors the JSON object the numeric-KPI prompt demands.
// chunk_ids stays raw so a missing or malformed field degrades to an empty
// list without failing the whole parse.
type extractionWire struct {
	Value      *float64        `json:"value"`
	Unit       *string         `json:"unit"`
	ChunkIDs   json.RawMessage `json:"chunk_ids"`
	Confidence Confidence      `json:"confidence"`
	Reason     string          `json:"reason"`
	RawSnippet string          `json:"raw_snippet"`
}

// ParseExtraction strictly parses model output as the numeric-KPI JSON
// object. Malformed JSON does not propagate: it yields a low-confidence
// nil-value result with the raw text preserved for audit. The returned
// result never has nil ChunkIDs.
func ParseExtraction(raw string) KPIResult {
	var wire extractionWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return KPIResult{
			ChunkIDs:    []int{},
			Confidence:  ConfidenceLow,
			Reason:      "Failed to parse JSON. Raw response not valid JSON.",
			RawResponse: raw,
		}
	}

	chunkIDs := []int{}
	if len(wire.ChunkIDs) > 0 {
		var ids []int
		if err := json.Unmarshal(wire.ChunkIDs, &ids); err == nil && ids != nil {
			chunkIDs = ids
		}
	}

	return KPIResult{
		Value:       wire.Value,
		Unit:        wire.Unit,
		ChunkIDs:    chunkIDs,
		Confidence:  wire.Confidence,
		Reason:      wire.Reason,
		RawSnippet:  wire.RawSnippet,
		RawResponse: raw,
	}
}

// KPIExtractor provides single numeric KPI extraction over the corpus.
type KPIExtractor interface {
	// ExtractKPI retrieves grounding fragments for the question, asks the
	// model for one JSON object and returns the parsed result. Model-side
	// failures (transport errors, bad JSON) degrade the result; they are
	// never returned as errors.
	ExtractKPI(ctx context.Context, question, expectedUnit string, opts RetrieveOptions) (*KPIResult, error)
}

// KPIService represents a service for managing the persisted KPI dataset.
type KPIService interface {
	// ReplaceKPIs rewrites the dataset wholesale, preserving order.
	ReplaceKPIs(ctx context.Context, kpis []*KPI) error

	// FindKPIs retrieves KPI records matching the filter, in dataset order.
	FindKPIs(ctx context.Context, filter KPIFilter) ([]*KPI, error)

	// ApplyOverride rewrites value, confidence and reason for the named
	// record only. Returns ENOTFOUND if no record has the override's name.
	ApplyOverride(ctx context.Context, override Override) error
}

// KPIFilter represents a filter for FindKPIs.
type KPIFilter struct {
	Name     *string   `json:"name"`
	Category *Category `json:"category"`
}

// Override is a human-verified correction applied to one named KPI record
// after a batch run. Overridden records carry ConfidenceManual.
type Override struct {
	Name   string   `json:"name"`
	Value  *float64 `json:"value"`
	Reason string   `json:"reason"`
}
