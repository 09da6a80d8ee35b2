package memory

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ytchat/internal/domain"
)

func chunk(id int, text string) domain.Chunk {
	return domain.Chunk{VideoID: "vid", ChunkID: "vid:" + string(rune('0'+id)), Text: text, Index: id}
}

func TestInitRejectsInvalidDimension(t *testing.T) {
	s := NewStore()
	require.Error(t, s.Init(0))
	require.Error(t, s.Init(-3))
	require.NoError(t, s.Init(4))
}

func TestUpsertValidation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))

	err := s.Upsert([]domain.Chunk{chunk(0, "a")}, nil)
	require.Error(t, err)

	err = s.Upsert([]domain.Chunk{chunk(0, "a")}, [][]float64{{1, 2, 3}})
	require.Error(t, err, "vector dimension must match Init")

	err = s.Upsert([]domain.Chunk{chunk(0, "a")}, [][]float64{{1, 0}})
	require.NoError(t, err)
}

func TestSearchOrdersMostSimilarFirst(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{chunk(0, "east"), chunk(1, "north"), chunk(2, "northeast")}
	vectors := [][]float64{{1, 0}, {0, 1}, {1, 1}}
	require.NoError(t, s.Upsert(chunks, vectors))

	results, err := s.Search([]float64{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "east", results[0].Chunk.Text)
	require.Equal(t, "northeast", results[1].Chunk.Text)
	require.Equal(t, "north", results[2].Chunk.Text)
	require.GreaterOrEqual(t, results[0].Score, results[1].Score)
	require.GreaterOrEqual(t, results[1].Score, results[2].Score)
}

func TestSearchClampsTopK(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Chunk{chunk(0, "only")}, [][]float64{{1, 0}}))

	results, err := s.Search([]float64{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestClearEmptiesStore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Chunk{chunk(0, "a")}, [][]float64{{1, 0}}))
	require.NoError(t, s.Clear())

	results, err := s.Search([]float64{1, 0}, 5)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestInitResetsPreviousContents(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Chunk{chunk(0, "old")}, [][]float64{{1, 0}}))
	require.NoError(t, s.Init(3))

	results, err := s.Search([]float64{1, 0, 0}, 5)
	require.NoError(t, err)
	require.Empty(t, results)
}
