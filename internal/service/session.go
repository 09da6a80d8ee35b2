package service

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"ytchat/internal/answer"
	"ytchat/internal/domain"
	"ytchat/internal/transcript"
)

// ErrNoVideo is returned by Ask before a transcript has been loaded.
var ErrNoVideo = errors.New("no video loaded; fetch a transcript first")

// Options tunes session behavior.
type Options struct {
	// Mode selects retrieval ("rag") or full-transcript stuffing ("full").
	Mode answer.Mode
	// TopK is the number of chunks retrieved per question in rag mode.
	TopK int
	// OverviewSentences caps the post-load transcript overview.
	OverviewSentences int
}

// Session orchestrates one interactive session: it owns the current
// transcript, the vector index built from it, and the display label.
// The index, when present, was always built from the current
// transcript - every load fully resets state before fetching, and any
// failure on the way leaves the session not ready rather than
// partially populated. Calls are strictly sequential per session.
type Session struct {
	fetcher    domain.Fetcher
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	answerer   domain.Answerer
	summarizer domain.Summarizer
	opts       Options

	current *domain.Transcript
	chunks  []domain.Chunk
	label   string
	ready   bool
}

// NewSession wires the session components together.
func NewSession(fetcher domain.Fetcher, chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, answerer domain.Answerer, summarizer domain.Summarizer, opts Options) *Session {
	if opts.Mode != answer.ModeFull {
		opts.Mode = answer.ModeRAG
	}
	if opts.TopK <= 0 {
		opts.TopK = 4
	}
	if opts.OverviewSentences <= 0 {
		opts.OverviewSentences = 3
	}
	return &Session{
		fetcher:    fetcher,
		chunker:    chunker,
		embedder:   embedder,
		store:      store,
		answerer:   answerer,
		summarizer: summarizer,
		opts:       opts,
	}
}

// LoadVideo fetches the transcript for a URL or bare identifier,
// chunks it, and in rag mode embeds and indexes the chunks. On any
// failure the session stays not ready.
func (s *Session) LoadVideo(input string) (*domain.LoadResult, error) {
	s.reset()
	videoID := transcript.ExtractVideoID(input)
	tr, err := s.fetcher.Fetch(videoID)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunker.Chunk(*tr)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, domain.NewCaptionsNotFound(videoID)
	}

	if s.opts.Mode == answer.ModeRAG {
		if err := s.buildIndex(chunks); err != nil {
			s.reset()
			return nil, err
		}
	}

	overview, err := s.summarizer.Summarize(tr.Text, s.opts.OverviewSentences)
	if err != nil {
		overview = ""
	}

	s.current = tr
	s.chunks = chunks
	s.label = "Video ID: " + videoID
	s.ready = true
	return &domain.LoadResult{
		VideoID:    videoID,
		Characters: len(tr.Text),
		ChunkCount: len(chunks),
		Overview:   overview,
	}, nil
}

// buildIndex embeds every chunk and rebuilds the vector index. All
// embedding happens before the store is touched so a mid-flight
// failure never leaves a half-filled index.
func (s *Session) buildIndex(chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	if err := s.embedder.Prepare(texts); err != nil {
		return wrapModelErr(err)
	}
	vectors := make([][]float64, len(chunks))
	for i := range chunks {
		vec, err := s.embedder.Embed(chunks[i].Text)
		if err != nil {
			return wrapModelErr(err)
		}
		vectors[i] = vec
	}
	if err := s.store.Init(s.embedder.Dimension()); err != nil {
		return wrapModelErr(err)
	}
	if err := s.store.Upsert(chunks, vectors); err != nil {
		_ = s.store.Clear()
		return wrapModelErr(err)
	}
	return nil
}

// Ask answers a free-form question about the loaded video. In rag mode
// the question is embedded and the topK nearest chunks become the
// context; in full mode the whole transcript does.
func (s *Session) Ask(question string) (string, error) {
	if !s.ready {
		return "", ErrNoVideo
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("empty question")
	}

	var context string
	if s.opts.Mode == answer.ModeFull {
		context = s.current.Text
	} else {
		results, err := s.retrieve(question)
		if err != nil {
			return "", err
		}
		context = answer.JoinContext(results)
	}
	return s.answerer.Answer(question, context)
}

// retrieve runs similarity search for the question. A question that
// embeds to the zero vector (out-of-vocabulary for local embedders)
// falls back to lexical overlap ranking over the cached chunks.
func (s *Session) retrieve(question string) ([]domain.SearchResult, error) {
	vec, err := s.embedder.Embed(question)
	if err != nil {
		return nil, wrapModelErr(err)
	}
	if isZero(vec) {
		return s.lexicalRank(question), nil
	}
	results, err := s.store.Search(vec, s.opts.TopK)
	if err != nil {
		return nil, wrapModelErr(err)
	}
	return results, nil
}

// Clear resets transcript, index, and label; Ask becomes unavailable
// until the next successful load.
func (s *Session) Clear() {
	s.reset()
}

// Ready reports whether a transcript is loaded and questions can be asked.
func (s *Session) Ready() bool { return s.ready }

// Label returns the display label of the current video, if any.
func (s *Session) Label() string { return s.label }

func (s *Session) reset() {
	s.current = nil
	s.chunks = nil
	s.label = ""
	s.ready = false
	_ = s.store.Clear()
}

func wrapModelErr(err error) error {
	if domain.KindOf(err) != domain.KindUnknown {
		return err
	}
	return domain.NewModelInvocationFailed(err)
}

func isZero(vec []float64) bool {
	for _, v := range vec {
		if v != 0 {
			return false
		}
	}
	return true
}

var wordRe = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// lexicalRank scores chunks by token overlap with the question using
// the Ochiai coefficient |A∩B| / sqrt(|A||B|).
func (s *Session) lexicalRank(question string) []domain.SearchResult {
	qset := tokenSet(question)
	results := make([]domain.SearchResult, len(s.chunks))
	for i, ch := range s.chunks {
		results[i] = domain.SearchResult{Chunk: ch, Score: ochiai(qset, ch.Text)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	topK := s.opts.TopK
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

func tokenSet(text string) map[string]struct{} {
	tokens := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func ochiai(qset map[string]struct{}, text string) float64 {
	tset := tokenSet(text)
	if len(qset) == 0 || len(tset) == 0 {
		return 0
	}
	inter := 0
	for t := range tset {
		if _, ok := qset[t]; ok {
			inter++
		}
	}
	return float64(inter) / (math.Sqrt(float64(len(qset))) * math.Sqrt(float64(len(tset))))
}
