package kpiq

import (
	"context"
	"strings"
)

// DocType is a coarse classification of a fragment's originating document.
type DocType string

// Known document types. Inference falls back to DocTypeOther.
const (
	DocTypeESG       DocType = "esg"
	DocTypeFinancial DocType = "financial"
	DocTypeAnnual    DocType = "annual"
	DocTypeNews      DocType = "news"
	DocTypeOther     DocType = "other"
)

// DefaultYear is attributed to fragments whose source name carries no
// recognizable year token.
const DefaultYear = 2024

// Fragment represents one unit of source text with provenance metadata.
// Fragments are immutable once stored; the store is rebuilt wholesale.
type Fragment struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	Source  string  `json:"source"`
	DocType DocType `json:"docType"`
	Year    int     `json:"year"`
}

// Validate returns an error if the fragment contains invalid fields.
func (f *Fragment) Validate() error {
	if f.Text == "" {
		return Errorf(EINVALID, "fragment text required")
	}
	if f.Source == "" {
		return Errorf(EINVALID, "fragment source required")
	}
	return nil
}

// RawFragment is a row of the external pre-chunked fragment table before
// normalization. Extra columns in the source table are ignored.
type RawFragment struct {
	ID     int
	Text   string
	Source string
}

// Normalize derives the canonical fragment from a raw row, inferring the
// document type and year from the source name.
func (r RawFragment) Normalize() *Fragment {
	return &Fragment{
		ID:      r.ID,
		Text:    r.Text,
		Source:  r.Source,
		DocType: InferDocType(r.Source),
		Year:    InferYear(r.Source),
	}
}

// NormalizeFragments maps raw rows to canonical fragments, preserving order.
func NormalizeFragments(raw []RawFragment) []*Fragment {
	fragments := make([]*Fragment, 0, len(raw))
	for _, r := range raw {
		fragments = append(fragments, r.Normalize())
	}
	return fragments
}

// docTypeRule maps source-name substrings to a document type. A rule matches
// when any term in match is present and, if requireAll is set, all terms in
// requireAll are present too.
type docTypeRule struct {
	docType    DocType
	requireAll []string
	match      []string
}

// docTypeRules is evaluated in order and the first matching rule wins. The
// order is load-bearing: a "sustainability annual report" is classified esg,
// not annual, and catalog doc-type filters depend on that precedence.
var docTypeRules = []docTypeRule{
	{docType: DocTypeESG, match: []string{"esg", "sustain"}},
	{docType: DocTypeFinancial, requireAll: []string{"factset"}, match: []string{"fin", "financial"}},
	{docType: DocTypeAnnual, match: []string{"annual", "10k", "report"}},
	{docType: DocTypeNews, match: []string{"external", "press", "stellest", "summary"}},
}

// InferDocType maps a source file name to a coarse document type using
// ordered substring rules, defaulting to DocTypeOther.
func InferDocType(source string) DocType {
	s := strings.ToLower(source)
	for _, rule := range docTypeRules {
		if !containsAll(s, rule.requireAll) {
			continue
		}
		if containsAny(s, rule.match) {
			return rule.docType
		}
	}
	return DocTypeOther
}

// yearTokens is checked in order; the first token present in the source name
// wins, so a name carrying both "2023" and "2024" infers 2023.
var yearTokens = []struct {
	token string
	year  int
}{
	{"2023", 2023},
	{"2024", 2024},
	{"2025", 2025},
}

// InferYear scans a source file name for a known year token, defaulting to
// DefaultYear when none is found.
func InferYear(source string) int {
	for _, yt := range yearTokens {
		if strings.Contains(source, yt.token) {
			return yt.year
		}
	}
	return DefaultYear
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func containsAll(s string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(s, t) {
			return false
		}
	}
	return true
}

// FragmentService represents a service for managing the canonical fragment
// store.
type FragmentService interface {
	// ReplaceFragments rebuilds the store wholesale from the given
	// fragments, preserving their order.
	ReplaceFragments(ctx context.Context, fragments []*Fragment) error

	// FindFragments retrieves fragments matching the filter, in store order.
	FindFragments(ctx context.Context, filter FragmentFilter) ([]*Fragment, error)

	// Fingerprint returns a content hash over all fragments in store order.
	// Derived artifacts (such as a similarity index) record it at build
	// time so staleness can be detected on load.
	Fingerprint(ctx context.Context) (string, error)
}

// FragmentFilter represents a filter for FindFragments.
type FragmentFilter struct {
	ID       *int      `json:"id"`
	DocTypes []DocType `json:"docTypes"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
