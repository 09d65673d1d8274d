package kpiq

import "context"

// promptPreviewLimit bounds how much of a failed prompt is preserved in the
// failure diagnostic.
const promptPreviewLimit = 2000

// Gateway sends one rendered prompt to the external language-model service
// and returns its raw text output.
//
// A Gateway fails closed, not open: transport and service errors are
// absorbed into a failed Completion rather than returned as errors, so a
// batch or interactive session can continue past individual failures.
// Callers detect degradation by branching on Completion.Failed, never by
// pattern-matching output text. One attempt per call; no retry or backoff.
type Gateway interface {
	Complete(ctx context.Context, prompt string) Completion
}

// Completion is the tagged result of a Gateway call: either the model's raw
// text or a failure diagnostic, never both.
type Completion struct {
	// Text holds the model output on success.
	Text string `json:"text"`

	// Failure is non-nil when the call did not produce model output.
	Failure *GatewayFailure `json:"failure,omitempty"`
}

// GatewayFailure captures why a Gateway call produced no model output.
type GatewayFailure struct {
	// Kind names the error category (e.g. the transport error type).
	Kind string `json:"kind"`

	// Message is the underlying error message.
	Message string `json:"message"`

	// PromptPreview is a truncated copy of the prompt that was sent,
	// preserved for audit.
	PromptPreview string `json:"promptPreview"`
}

// Failed reports whether the completion carries a failure diagnostic
// instead of model output.
func (c Completion) Failed() bool {
	return c.Failure != nil
}

// Sentinel renders the completion as plain text for audit fields. For a
// successful completion this is the model output; for a failed one it is a
// diagnostic string embedding the error kind, message and prompt preview.
func (c Completion) Sentinel() string {
	if c.Failure == nil {
		return c.Text
	}
	return "LLM CALL FAILED: " + c.Failure.Kind + ": " + c.Failure.Message +
		"\n\n--- PROMPT PREVIEW ---\n\n" + c.Failure.PromptPreview
}

// CompletionText returns a successful completion carrying the given text.
func CompletionText(text string) Completion {
	return Completion{Text: text}
}

// CompletionFailure returns a failed completion for the given error kind
// and message, preserving a truncated preview of the prompt.
func CompletionFailure(kind, message, prompt string) Completion {
	if len(prompt) > promptPreviewLimit {
		prompt = prompt[:promptPreviewLimit]
	}
	return Completion{Failure: &GatewayFailure{
		Kind:          kind,
		Message:       message,
		PromptPreview: prompt,
	}}
}
