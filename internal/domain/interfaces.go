package domain

// Transcript is the concatenated caption text of a single video.
type Transcript struct {
	VideoID string
	Text    string
}

// Chunk is a bounded, overlapping span of a transcript used for indexing.
type Chunk struct {
	VideoID string
	ChunkID string
	Text    string
	Index   int
}

// SearchResult is a matching chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Fetcher retrieves the caption transcript for a video identifier.
type Fetcher interface {
	Fetch(videoID string) (*Transcript, error)
}

// Chunker splits a transcript into overlapping chunks suitable for retrieval.
type Chunker interface {
	Chunk(transcript Transcript) ([]Chunk, error)
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// VectorStore holds embedded chunks and supports similarity search.
type VectorStore interface {
	Init(dimension int) error
	Upsert(chunks []Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) ([]SearchResult, error)
	Clear() error
}

// Answerer produces a natural-language answer to a question given
// context assembled from the transcript.
type Answerer interface {
	Answer(question, context string) (string, error)
}

// Summarizer produces a brief overview of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}

// LoadResult describes a successfully loaded video.
type LoadResult struct {
	VideoID    string
	Characters int
	ChunkCount int
	Overview   string
}

// SessionService defines the operations exposed by the application core.
type SessionService interface {
	LoadVideo(input string) (*LoadResult, error)
	Ask(question string) (string, error)
	Clear()
	Ready() bool
	Label() string
}
