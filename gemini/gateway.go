// Package gemini implements the extraction-model gateway using Google
// Gemini.
package gemini

import (
	"context"
	"fmt"

	"github.com/mkowalski/kpiq"
	"google.golang.org/genai"
)

// DefaultModel is the model identifier used unless overridden.
const DefaultModel = "gemini-2.5-flash"

// Generation parameters are fixed per the gateway contract: low temperature
// for extraction work, a hard cap on output length, one attempt per call.
const (
	temperature     = 0.1
	maxOutputTokens = 500
)

// Ensure Gateway implements kpiq.Gateway at compile time.
var _ kpiq.Gateway = (*Gateway)(nil)

// Gateway implements kpiq.Gateway using Google Gemini.
type Gateway struct {
	client *genai.Client
	model  string
}

// NewGateway creates a new Gateway. An empty model selects DefaultModel.
func NewGateway(client *genai.Client, model string) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{client: client, model: model}
}

// Complete sends one rendered prompt to Gemini and returns its raw text
// output. Transport and service errors are absorbed into a failed
// completion; no retry or backoff is performed.
func (g *Gateway) Complete(ctx context.Context, prompt string) kpiq.Completion {
	config := BuildConfig()

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return kpiq.CompletionFailure(fmt.Sprintf("%T", err), err.Error(), prompt)
	}
	if result == nil {
		return kpiq.CompletionFailure("EmptyResult", "gemini returned nil result", prompt)
	}

	return kpiq.CompletionText(result.Text())
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(temperature)
	return &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: maxOutputTokens,
	}
}
