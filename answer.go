package kpiq

import "context"

// Answer is the result of one free-form question: the model's answer text,
// the fragments it was grounded on (with similarity scores) and the exact
// prompt that was sent, so every answer is auditable.
type Answer struct {
	Answer    string           `json:"answer"`
	Fragments []ScoredFragment `json:"fragments"`
	Prompt    string           `json:"prompt"`

	// Degraded is set when the gateway call failed and Answer holds the
	// failure diagnostic instead of model output.
	Degraded bool `json:"degraded,omitempty"`
}

// Answerer provides document-grounded question answering over the corpus.
type Answerer interface {
	// Answer retrieves grounding fragments for the question, asks the
	// model and returns the shaped result. Structural failures (empty
	// candidate set, missing artifacts) are returned as errors; gateway
	// failures surface as a degraded result instead.
	Answer(ctx context.Context, question string, opts RetrieveOptions) (*Answer, error)
}
