package main

import (
	"fmt"
	"os"

	"github.com/mkowalski/kpiq"
	kpiqcsv "github.com/mkowalski/kpiq/csv"
	"github.com/mkowalski/kpiq/tfidf"
)

// Run executes the ingest command: normalize the raw fragment table into
// the canonical store and rebuild the similarity index from it. The two
// artifacts are always rebuilt together.
func (c *IngestCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("failed to open raw fragment table: %w", err)
	}
	defer f.Close()

	raw, err := kpiqcsv.ReadRawFragments(f)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	fragments := kpiq.NormalizeFragments(raw)
	if err := deps.Fragments.ReplaceFragments(deps.Ctx, fragments); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Stored %d fragments\n", len(fragments))

	return rebuildIndex(deps)
}

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	return rebuildIndex(deps)
}

// rebuildIndex fits the similarity index over the current store and
// persists it.
func rebuildIndex(deps *Dependencies) error {
	index, err := tfidf.Build(deps.Ctx, deps.Fragments)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}
	if err := index.Save(deps.IndexPath); err != nil {
		return fmt.Errorf("failed to save similarity index: %w", err)
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d fragments (fingerprint %s)\n", index.Len(), index.Fingerprint())
	return nil
}
