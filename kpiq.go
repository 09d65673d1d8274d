// Package kpiq answers natural-language questions about a fixed corpus of
// company document fragments and extracts numeric KPIs from it. Fragments
// are normalized into a canonical store, indexed for lexical similarity
// search, and retrieved as grounding context for a language model that is
// restricted to the supplied text and must cite the fragments it used.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, tfidf/, gemini/).
package kpiq
