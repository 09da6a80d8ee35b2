package tfidf

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Embedder is a local TF-IDF vectorizer. It needs no network access or
// credentials: Prepare builds a vocabulary with smoothed IDF weights
// from the chunk corpus, and Embed produces L2-normalized vectors over
// that vocabulary. Used when the app is configured for offline
// operation and as the deterministic embedder in tests.
type Embedder struct {
	vocab   map[string]int
	idf     []float64
	dim     int
	ready   bool
	wordRe  *regexp.Regexp
	ignored map[string]struct{}
}

// NewEmbedder creates an unprepared TF-IDF embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		vocab:   make(map[string]int),
		wordRe:  regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		ignored: stopwords(),
	}
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "tfidf" }

// Prepare builds the vocabulary and IDF weights from the corpus.
// It must run before Embed; the vector dimension equals the number of
// distinct non-stopword terms seen.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errors.New("empty corpus for TF-IDF prepare")
	}
	docFreq := make(map[string]int)
	for _, text := range corpus {
		for term := range e.termSet(text) {
			docFreq[term]++
		}
	}
	if len(docFreq) == 0 {
		return errors.New("no tokens found in corpus")
	}
	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	e.vocab = make(map[string]int, len(terms))
	e.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		e.vocab[term] = i
		// Smoothed IDF so unseen terms never divide by zero.
		e.idf[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}
	e.dim = len(terms)
	e.ready = true
	return nil
}

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dim }

// Embed computes the L2-normalized TF-IDF vector for the given text.
// Text with no in-vocabulary terms yields the zero vector.
func (e *Embedder) Embed(text string) ([]float64, error) {
	if !e.ready {
		return nil, errors.New("tfidf embedder not prepared")
	}
	vec := make([]float64, e.dim)
	counts := make(map[int]int)
	total := 0
	for _, term := range e.terms(text) {
		if idx, ok := e.vocab[term]; ok {
			counts[idx]++
			total++
		}
	}
	if total == 0 {
		return vec, nil
	}
	norm := 0.0
	for idx, count := range counts {
		v := float64(count) / float64(total) * e.idf[idx]
		vec[idx] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)
	for idx := range counts {
		vec[idx] /= norm
	}
	return vec, nil
}

func (e *Embedder) terms(text string) []string {
	raw := e.wordRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, skip := e.ignored[t]; skip {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (e *Embedder) termSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range e.terms(text) {
		set[t] = struct{}{}
	}
	return set
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "above", "below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
