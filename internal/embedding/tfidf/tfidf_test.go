package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrepareRequiresCorpus(t *testing.T) {
	e := NewEmbedder()
	require.Error(t, e.Prepare(nil))
}

func TestEmbedBeforePrepareFails(t *testing.T) {
	e := NewEmbedder()
	_, err := e.Embed("hello world")
	require.Error(t, err)
}

func TestDimensionMatchesVocabulary(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"cats chase mice", "dogs chase cats"}))
	// cats, chase, mice, dogs
	require.Equal(t, 4, e.Dimension())

	vec, err := e.Embed("cats chase mice")
	require.NoError(t, err)
	require.Len(t, vec, 4)
}

func TestEmbedIsL2Normalized(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"alpha beta gamma", "beta gamma delta", "unrelated words entirely"}))

	vec, err := e.Embed("alpha beta")
	require.NoError(t, err)
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestSimilarTextScoresHigher(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"the capital of france is paris",
		"whales are large marine mammals",
		"go compiles quickly to native code",
	}
	require.NoError(t, e.Prepare(corpus))

	q, err := e.Embed("what is the capital of france")
	require.NoError(t, err)

	best, bestScore := -1, -1.0
	for i, text := range corpus {
		v, err := e.Embed(text)
		require.NoError(t, err)
		score := dot(q, v)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	require.Equal(t, 0, best)
}

func TestOutOfVocabularyEmbedsToZero(t *testing.T) {
	e := NewEmbedder()
	require.NoError(t, e.Prepare([]string{"alpha beta gamma"}))

	vec, err := e.Embed("zeta omicron")
	require.NoError(t, err)
	for _, v := range vec {
		require.Zero(t, v)
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
