package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"ytchat/internal/answer"
	"ytchat/internal/chunker"
	"ytchat/internal/domain"
	"ytchat/internal/embedding/tfidf"
	"ytchat/internal/summarizer"
	"ytchat/internal/vectorstore/memory"
)

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) Fetch(videoID string) (*domain.Transcript, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Transcript{VideoID: videoID, Text: f.text}, nil
}

type fakeAnswerer struct {
	lastQuestion string
	lastContext  string
	reply        string
	err          error
}

func (f *fakeAnswerer) Answer(question, context string) (string, error) {
	f.lastQuestion = question
	f.lastContext = context
	return f.reply, f.err
}

type failingEmbedder struct{}

func (failingEmbedder) Name() string                  { return "failing" }
func (failingEmbedder) Prepare(corpus []string) error { return nil }
func (failingEmbedder) Dimension() int                { return 0 }
func (failingEmbedder) Embed(text string) ([]float64, error) {
	return nil, errors.New("embedding service down")
}

const testTranscript = "The speaker opens with a joke about compilers. " +
	"Later the discussion turns to memory management and garbage collection. " +
	"The capital of France is Paris, as mentioned in the geography segment. " +
	"Finally the speaker recommends reading the language specification. " +
	"Questions from the audience close out the recording session."

func newTestSession(fetcher domain.Fetcher, ans domain.Answerer, opts Options) *Session {
	return NewSession(
		fetcher,
		chunker.NewRecursiveChunker(80, 10),
		tfidf.NewEmbedder(),
		memory.NewStore(),
		ans,
		summarizer.NewFrequencySummarizer(),
		opts,
	)
}

func TestLoadVideoSuccess(t *testing.T) {
	s := newTestSession(&fakeFetcher{text: testTranscript}, &fakeAnswerer{reply: "ok"}, Options{})

	res, err := s.LoadVideo("https://www.youtube.com/watch?v=vid123&t=5")
	require.NoError(t, err)
	require.Equal(t, "vid123", res.VideoID)
	require.Equal(t, len(testTranscript), res.Characters)
	require.Greater(t, res.ChunkCount, 1)
	require.NotEmpty(t, res.Overview)
	require.True(t, s.Ready())
	require.Equal(t, "Video ID: vid123", s.Label())
}

func TestRetrievalIncludesVerbatimAnswerChunk(t *testing.T) {
	ans := &fakeAnswerer{reply: "Paris"}
	s := newTestSession(&fakeFetcher{text: testTranscript}, ans, Options{TopK: 2})

	_, err := s.LoadVideo("vid123")
	require.NoError(t, err)

	reply, err := s.Ask("What is the capital of France?")
	require.NoError(t, err)
	require.Equal(t, "Paris", reply)
	require.Contains(t, ans.lastContext, "Paris")
	require.Equal(t, "What is the capital of France?", ans.lastQuestion)
}

func TestFullModeStuffsWholeTranscript(t *testing.T) {
	ans := &fakeAnswerer{reply: "ok"}
	s := newTestSession(&fakeFetcher{text: testTranscript}, ans, Options{Mode: answer.ModeFull})

	_, err := s.LoadVideo("vid123")
	require.NoError(t, err)

	_, err = s.Ask("What does the speaker recommend?")
	require.NoError(t, err)
	require.Equal(t, testTranscript, ans.lastContext)
}

func TestCaptionsDisabledPropagates(t *testing.T) {
	s := newTestSession(&fakeFetcher{err: domain.NewCaptionsUnavailable("vid123")}, &fakeAnswerer{}, Options{})

	_, err := s.LoadVideo("vid123")
	require.Error(t, err)
	require.Equal(t, domain.KindCaptionsUnavailable, domain.KindOf(err))
	require.False(t, s.Ready())
}

func TestAskBeforeLoadFails(t *testing.T) {
	s := newTestSession(&fakeFetcher{text: testTranscript}, &fakeAnswerer{}, Options{})

	_, err := s.Ask("anything")
	require.ErrorIs(t, err, ErrNoVideo)
}

func TestClearResetsSession(t *testing.T) {
	s := newTestSession(&fakeFetcher{text: testTranscript}, &fakeAnswerer{reply: "ok"}, Options{})

	_, err := s.LoadVideo("vid123")
	require.NoError(t, err)
	require.True(t, s.Ready())

	s.Clear()
	require.False(t, s.Ready())
	require.Empty(t, s.Label())

	_, err = s.Ask("anything")
	require.ErrorIs(t, err, ErrNoVideo)
}

func TestEmbeddingFailureLeavesSessionNotReady(t *testing.T) {
	s := NewSession(
		&fakeFetcher{text: testTranscript},
		chunker.NewRecursiveChunker(80, 10),
		failingEmbedder{},
		memory.NewStore(),
		&fakeAnswerer{},
		summarizer.NewFrequencySummarizer(),
		Options{},
	)

	_, err := s.LoadVideo("vid123")
	require.Error(t, err)
	require.Equal(t, domain.KindModelInvocationFailed, domain.KindOf(err))
	require.False(t, s.Ready())
}

func TestReloadReplacesPreviousVideo(t *testing.T) {
	fetcher := &fakeFetcher{text: testTranscript}
	ans := &fakeAnswerer{reply: "ok"}
	s := newTestSession(fetcher, ans, Options{TopK: 3})

	_, err := s.LoadVideo("first")
	require.NoError(t, err)

	fetcher.text = "An entirely different recording about sourdough baking techniques. " +
		strings.Repeat("Kneading and proofing are discussed at length. ", 4)
	_, err = s.LoadVideo("second")
	require.NoError(t, err)
	require.Equal(t, "Video ID: second", s.Label())

	_, err = s.Ask("What is discussed?")
	require.NoError(t, err)
	require.NotContains(t, ans.lastContext, "compilers")
}

func TestStopwordOnlyQuestionFallsBackToLexical(t *testing.T) {
	ans := &fakeAnswerer{reply: "ok"}
	s := newTestSession(&fakeFetcher{text: testTranscript}, ans, Options{TopK: 2})

	_, err := s.LoadVideo("vid123")
	require.NoError(t, err)

	// stopwords and out-of-vocabulary tokens only, so the query vector is zero
	reply, err := s.Ask("so what about it")
	require.NoError(t, err)
	require.Equal(t, "ok", reply)
	require.NotEmpty(t, ans.lastContext)
}
