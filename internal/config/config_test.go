package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	require.Equal(t, "https://www.youtube.com", cfg.Transcript.BaseURL)
	require.Equal(t, "en", cfg.Transcript.Language)
	require.Equal(t, 1000, cfg.Chunker.ChunkSize)
	require.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	require.Equal(t, "gemini", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.Gemini)
	require.Equal(t, "GOOGLE_API_KEY", cfg.Embedder.Gemini.APIKeyEnv)
	require.Equal(t, "text-embedding-004", cfg.Embedder.Gemini.Model)
	require.Equal(t, "memory", cfg.VectorStore.Type)
	require.Equal(t, "rag", cfg.Answerer.Mode)
	require.Equal(t, 4, cfg.Answerer.TopK)
	require.InDelta(t, 0.3, cfg.Answerer.Temperature, 1e-9)
	require.Equal(t, "gemini-1.5-flash", cfg.Answerer.Gemini.Model)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("chunker:\n  chunk_size: 500\nanswerer:\n  mode: full\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 500, cfg.Chunker.ChunkSize)
	require.Equal(t, 200, cfg.Chunker.ChunkOverlap)
	require.Equal(t, "full", cfg.Answerer.Mode)
	require.Equal(t, 4, cfg.Answerer.TopK)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  chunk_size: [1, 2\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := defaultConfig()
	cfg.Chunker.ChunkSize = 750
	cfg.VectorStore.Type = "qdrant"
	cfg.VectorStore.Qdrant = &QdrantConfig{URL: "http://localhost:6333", Collection: "videos"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 750, loaded.Chunker.ChunkSize)
	require.Equal(t, "qdrant", loaded.VectorStore.Type)
	require.Equal(t, "videos", loaded.VectorStore.Qdrant.Collection)
	require.Equal(t, 15, loaded.VectorStore.Qdrant.TimeoutSecs)
}
