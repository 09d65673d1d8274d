package kpiq

import (
	"fmt"
	"strings"
)

// FallbackAnswer is the exact phrase the model must use verbatim when the
// answer is absent from the supplied fragments.
const FallbackAnswer = "Based on the provided documents, this information is not available."

// answerTemplate is the strict grounding prompt for free-form Q&A. It
// restricts the model to the supplied fragments, mandates bracketed
// chunk-id citations and prefers the most recent year on conflicts.
const answerTemplate = `You are a financial and ESG analyst answering questions about %[1]s.

Use ONLY the information provided in the text chunks below.
If the answer does not appear in the chunks, respond exactly:
"%[2]s"

Rules:
1. Cite chunk_ids like this: [chunk_id=5].
2. Do NOT introduce information that is not in the chunks.
3. Keep the answer to 3-5 sentences.
4. If chunks conflict, choose the one with the most recent year.

User question:
%[3]s

Retrieved chunks:
%[4]s

Now provide:
1. A direct answer (3-5 sentences).
2. A short note on missing or uncertain information.
3. A list of chunk_ids used.`

// kpiTemplate is the strict grounding prompt for single numeric KPI
// extraction. The model must answer with exactly one JSON object and copy
// numbers verbatim.
const kpiTemplate = `You are extracting a single numeric KPI for %[1]s.

User KPI question:
%[2]s

Expected unit for the answer: "%[3]s"

You are given text chunks from official reports. Use ONLY these chunks.
If the exact value is not present, say so.

Text chunks:
%[4]s

TASK:
- Find the SINGLE most relevant numeric value that answers the question.
- Copy the number EXACTLY as written (do NOT round, do NOT change commas).
- Use only the expected unit if it matches (otherwise explain the mismatch).
- Identify which chunk_ids support the value.

Respond ONLY with a valid JSON object in this exact format:

{
  "value": <number or null>,
  "unit": "<unit string or null>",
  "chunk_ids": [<list of integers>],
  "confidence": "<high|medium|low>",
  "reason": "<short explanation>",
  "raw_snippet": "<short snippet where you found the number>"
}

If the value is not in the text, set "value" to null and explain in "reason".`

// BuildAnswerPrompt renders the free-form grounding prompt for a question
// and its retrieved fragments. The template is fixed per call; there is no
// retry or adaptive prompting.
func BuildAnswerPrompt(question string, fragments []ScoredFragment) string {
	context := FormatFragments(fragments)
	return strings.TrimSpace(fmt.Sprintf(answerTemplate, Company, FallbackAnswer, question, context))
}

// BuildKPIPrompt renders the numeric-KPI grounding prompt for a question,
// its expected unit and the retrieved fragments.
func BuildKPIPrompt(question, expectedUnit string, fragments []ScoredFragment) string {
	context := FormatFragments(fragments)
	return strings.TrimSpace(fmt.Sprintf(kpiTemplate, Company, question, expectedUnit, context))
}
