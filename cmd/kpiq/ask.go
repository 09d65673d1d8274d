package main

import (
	"fmt"

	"github.com/mkowalski/kpiq"
	"github.com/mkowalski/kpiq/pipeline"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answerer := &pipeline.Answerer{
		Retriever: deps.Retriever,
		Gateway:   deps.Gateway,
	}

	result, err := answerer.Answer(deps.Ctx, c.Question, kpiq.RetrieveOptions{
		K:               c.K,
		AllowedDocTypes: docTypes(c.Types),
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", kpiq.ErrorMessage(err))
		return err
	}

	if result.Degraded {
		fmt.Fprintln(deps.Stderr, "warning: model call failed; showing the failure diagnostic")
	}
	fmt.Fprintln(deps.Stdout, result.Answer)

	fmt.Fprintln(deps.Stdout, "\nSupporting fragments:")
	for _, sf := range result.Fragments {
		fmt.Fprintf(deps.Stdout, "  [chunk_id=%d] %s (%s, %d) similarity=%.3f\n",
			sf.Fragment.ID, sf.Fragment.Source, sf.Fragment.DocType, sf.Fragment.Year, sf.Similarity)
	}

	if c.ShowPrompt {
		fmt.Fprintln(deps.Stdout, "\nPrompt:")
		fmt.Fprintln(deps.Stdout, result.Prompt)
	}

	return nil
}

// docTypes maps CLI type flags to domain doc types, nil when unrestricted.
func docTypes(types []string) []kpiq.DocType {
	if len(types) == 0 {
		return nil
	}
	out := make([]kpiq.DocType, len(types))
	for i, t := range types {
		out[i] = kpiq.DocType(t)
	}
	return out
}
