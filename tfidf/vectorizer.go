// Package tfidf implements the similarity index: a term-weighted vector
// space over fragment texts with persisted artifacts and top-k cosine
// queries. It implements kpiq.Retriever.
package tfidf

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// maxDocFreq prunes corpus-level over-frequent terms: any term appearing in
// more than this share of documents is excluded from the vocabulary.
const maxDocFreq = 0.9

var tokenPattern = regexp.MustCompile(`\w\w+`)

// Vector is a sparse weight vector. Indices are vocabulary positions in
// strictly ascending order, Values the corresponding weights.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the dot product of two sparse vectors.
func (v Vector) Dot(other Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(other.Indices) {
		switch {
		case v.Indices[i] == other.Indices[j]:
			sum += v.Values[i] * other.Values[j]
			i++
			j++
		case v.Indices[i] < other.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the L2 norm of the vector.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// normalize scales the vector to unit length in place. Zero vectors are
// left untouched.
func (v Vector) normalize() {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= norm
	}
}

// Vectorizer is a fitted TF-IDF model over unigrams and bigrams. Fields are
// exported for gob persistence; treat a fitted vectorizer as immutable.
type Vectorizer struct {
	// Vocabulary maps a term to its vector index. Terms are assigned
	// indices in sorted order so fitting is deterministic.
	Vocabulary map[string]int

	// IDF holds the smoothed inverse document frequency per term,
	// aligned with Vocabulary indices.
	IDF []float64
}

// Fit builds the vocabulary and IDF weights from the corpus. Stop-words are
// removed before n-gram construction and terms present in more than 90% of
// documents are pruned.
func (v *Vectorizer) Fit(corpus []string) {
	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, term := range analyze(text) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}

	n := len(corpus)
	limit := maxDocFreq * float64(n)
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if float64(count) > limit {
			continue
		}
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		// Smoothed IDF
		v.IDF[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1.0
	}
}

// Transform maps a text into the fitted vector space and L2-normalizes the
// result. Out-of-vocabulary terms contribute zero weight; a text with no
// known terms maps to the zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	tf := make(map[int]float64)
	for _, term := range analyze(text) {
		if idx, ok := v.Vocabulary[term]; ok {
			tf[idx]++
		}
	}

	indices := make([]int, 0, len(tf))
	for idx := range tf {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	for i, idx := range indices {
		values[i] = tf[idx] * v.IDF[idx]
	}

	vec := Vector{Indices: indices, Values: values}
	vec.normalize()
	return vec
}

// analyze tokenizes text into lowercase word tokens, drops stop-words and
// emits unigrams plus adjacent bigrams.
func analyze(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, isStop := stopwords[t]; isStop {
			continue
		}
		tokens = append(tokens, t)
	}

	terms := make([]string, 0, 2*len(tokens))
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "about", "above", "after", "again", "all", "also", "am", "an",
		"and", "any", "are", "as", "at", "be", "because", "been", "before",
		"being", "below", "between", "both", "but", "by", "can", "could",
		"did", "do", "does", "doing", "down", "during", "each", "else",
		"few", "for", "from", "further", "had", "has", "have", "having",
		"he", "her", "here", "hers", "him", "his", "how", "i", "if", "in",
		"into", "is", "it", "its", "itself", "just", "me", "more", "most",
		"my", "no", "nor", "not", "now", "of", "off", "on", "once", "only",
		"or", "other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "would", "you", "your", "yours",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
