package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer picks the most representative sentences of a
// transcript by word frequency, stopwords filtered. It produces the
// short overview shown after a video is loaded; no model call is
// involved.
type FrequencySummarizer struct {
	wordRe     *regexp.Regexp
	sentenceRe *regexp.Regexp
	ignored    map[string]struct{}
}

// NewFrequencySummarizer creates a frequency-based sentence ranker.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		wordRe:     regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		ignored:    stopwords(),
	}
}

// Summarize returns up to maxSentences sentences, ranked by normalized
// token frequency but emitted in original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := make(map[string]float64)
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			if _, skip := s.ignored[tok]; skip {
				continue
			}
			freq[tok]++
		}
	}
	maxFreq := 0.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	if maxFreq > 0 {
		for k := range freq {
			freq[k] /= maxFreq
		}
	}

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		score := 0.0
		for _, tok := range toks {
			score += freq[tok]
		}
		// Length normalization so long sentences don't dominate.
		if len(toks) > 0 {
			score /= math.Sqrt(float64(len(toks)))
		}
		scores[i] = ranked{i, score}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}

	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, maxSentences)
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	return s.wordRe.FindAllString(strings.ToLower(text), -1)
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
