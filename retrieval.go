package kpiq

import (
	"context"
	"fmt"
	"strings"
)

// ScoredFragment is a retrieval match: a fragment plus its cosine
// similarity to the question in [0, 1].
type ScoredFragment struct {
	Fragment   *Fragment `json:"fragment"`
	Similarity float64   `json:"similarity"`
}

// RetrieveOptions configures a retrieval query.
type RetrieveOptions struct {
	// Maximum number of fragments to return. The result may be shorter
	// when fewer candidates exist.
	K int `json:"k"`

	// Restrict candidates to these document types. Nil means no
	// restriction; an allow-list that excludes every stored fragment is
	// an EINVALID error.
	AllowedDocTypes []DocType `json:"allowedDocTypes,omitempty"`
}

// Retriever answers top-k lexical similarity queries over the fragment
// store. Queries are read-only, side-effect-free and deterministic:
// identical (index, question, options) yield identical ordered output.
type Retriever interface {
	// Retrieve returns at most opts.K fragments ordered by similarity
	// descending, ties broken by store order.
	Retrieve(ctx context.Context, question string, opts RetrieveOptions) ([]ScoredFragment, error)
}

// FormatFragments renders retrieved fragments as grounding context for a
// prompt. Each fragment gets a provenance header followed by its text;
// fragments are separated by blank lines, in retrieval order.
func FormatFragments(fragments []ScoredFragment) string {
	if len(fragments) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(fragments))
	for _, sf := range fragments {
		f := sf.Fragment
		header := fmt.Sprintf("[chunk_id=%d, source=%s, doc_type=%s, year=%d]", f.ID, f.Source, f.DocType, f.Year)
		blocks = append(blocks, header+"\n"+f.Text)
	}

	return strings.Join(blocks, "\n\n")
}
