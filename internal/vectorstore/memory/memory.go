package memory

import (
	"errors"
	"math"
	"sort"
	"sync"

	"ytchat/internal/domain"
)

// Store is an in-memory vector index using brute-force cosine
// similarity. It is rebuilt wholesale per transcript: Init resets it,
// Upsert fills it, and nothing is ever persisted to disk.
type Store struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

// NewStore creates an empty in-memory vector index.
func NewStore() *Store { return &Store{} }

// Init fixes the vector dimension and drops any previous contents.
func (s *Store) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.chunks = nil
	return nil
}

// Upsert adds chunks with their vectors. Every vector must match the
// dimension fixed by Init.
func (s *Store) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK most similar chunks, most-similar first.
func (s *Store) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, len(s.vectors))
	for i := range s.vectors {
		results[i] = domain.SearchResult{
			Chunk: s.chunks[i],
			Score: cosine(s.vectors[i], vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Clear drops all stored chunks and vectors.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.chunks = nil
	return nil
}

func cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
