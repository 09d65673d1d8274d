package tfidf

import (
	"context"
	"encoding/gob"
	"os"
	"path/filepath"
	"sort"

	"github.com/mkowalski/kpiq"
)

// Ensure Index implements kpiq.Retriever at compile time.
var _ kpiq.Retriever = (*Index)(nil)

// Index is a fitted similarity index: one weight vector per fragment,
// row-aligned 1:1 with the fragment store by position, plus the store
// fingerprint the rows were built from. Rebuilding the store invalidates
// the index; Load refuses a stale one.
type Index struct {
	fingerprint string
	vectorizer  Vectorizer
	rows        []Vector
	fragments   []*kpiq.Fragment
}

// artifacts is the persisted binary form of an Index.
type artifacts struct {
	Fingerprint string
	Vectorizer  Vectorizer
	Rows        []Vector
}

// Fingerprint returns the fragment-store fingerprint recorded at build time.
func (x *Index) Fingerprint() string { return x.fingerprint }

// Len returns the number of indexed fragments.
func (x *Index) Len() int { return len(x.rows) }

// Build fits the index over every fragment in the store and records the
// store fingerprint so staleness is detectable on load.
func Build(ctx context.Context, fragments kpiq.FragmentService) (*Index, error) {
	frs, err := fragments.FindFragments(ctx, kpiq.FragmentFilter{})
	if err != nil {
		return nil, err
	}
	if len(frs) == 0 {
		return nil, kpiq.Errorf(kpiq.EINVALID, "cannot build similarity index over an empty fragment store")
	}

	texts := make([]string, len(frs))
	for i, f := range frs {
		texts[i] = f.Text
	}

	var v Vectorizer
	v.Fit(texts)

	rows := make([]Vector, len(texts))
	for i, text := range texts {
		rows[i] = v.Transform(text)
	}

	fp, err := fragments.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}

	return &Index{
		fingerprint: fp,
		vectorizer:  v,
		rows:        rows,
		fragments:   frs,
	}, nil
}

// Save persists the fitted vectorizer and matrix to path, creating parent
// directories as needed.
func (x *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(artifacts{
		Fingerprint: x.fingerprint,
		Vectorizer:  x.vectorizer,
		Rows:        x.rows,
	}); err != nil {
		return err
	}
	return f.Close()
}

// Load reads persisted artifacts and re-aligns them with the fragment
// store. Returns ENOTFOUND when the artifacts are absent and ECONFLICT when
// the store has been rebuilt since the index was last built.
func Load(ctx context.Context, path string, fragments kpiq.FragmentService) (*Index, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, kpiq.Errorf(kpiq.ENOTFOUND, "similarity index not found at %q; rebuild it first", path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var art artifacts
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, kpiq.Errorf(kpiq.EINTERNAL, "corrupt similarity index at %q: %s", path, err)
	}

	fp, err := fragments.Fingerprint(ctx)
	if err != nil {
		return nil, err
	}
	if fp != art.Fingerprint {
		return nil, kpiq.Errorf(kpiq.ECONFLICT, "similarity index is stale: fragment store changed since the last build")
	}

	frs, err := fragments.FindFragments(ctx, kpiq.FragmentFilter{})
	if err != nil {
		return nil, err
	}
	if len(frs) != len(art.Rows) {
		return nil, kpiq.Errorf(kpiq.ECONFLICT, "similarity index has %d rows but the store has %d fragments", len(art.Rows), len(frs))
	}

	return &Index{
		fingerprint: art.Fingerprint,
		vectorizer:  art.Vectorizer,
		rows:        art.Rows,
		fragments:   frs,
	}, nil
}

// Retrieve returns the top-k fragments most similar to the question,
// optionally restricted to an allow-list of document types. The query is
// read-only and deterministic: results are ordered by similarity
// descending with ties broken by store order.
func (x *Index) Retrieve(ctx context.Context, question string, opts kpiq.RetrieveOptions) ([]kpiq.ScoredFragment, error) {
	if opts.K <= 0 {
		return nil, kpiq.Errorf(kpiq.EINVALID, "retrieval k must be positive")
	}

	candidates := x.candidateRows(opts.AllowedDocTypes)
	if len(candidates) == 0 {
		return nil, kpiq.Errorf(kpiq.EINVALID, "no fragments available for the given allowed doc types")
	}

	qvec := x.vectorizer.Transform(question)

	results := make([]kpiq.ScoredFragment, 0, len(candidates))
	for _, i := range candidates {
		results = append(results, kpiq.ScoredFragment{
			Fragment:   x.fragments[i],
			Similarity: qvec.Dot(x.rows[i]),
		})
	}

	// Stable sort keeps ties in store order.
	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Similarity > results[b].Similarity
	})

	if opts.K < len(results) {
		results = results[:opts.K]
	}
	return results, nil
}

// candidateRows returns store positions whose fragments pass the doc-type
// allow-list, in store order. A nil allow-list passes everything.
func (x *Index) candidateRows(allowed []kpiq.DocType) []int {
	if allowed == nil {
		rows := make([]int, len(x.fragments))
		for i := range rows {
			rows[i] = i
		}
		return rows
	}

	allow := make(map[kpiq.DocType]struct{}, len(allowed))
	for _, dt := range allowed {
		allow[dt] = struct{}{}
	}

	var rows []int
	for i, f := range x.fragments {
		if _, ok := allow[f.DocType]; ok {
			rows = append(rows, i)
		}
	}
	return rows
}
