package cli

import (
	"fmt"
	"time"

	"ytchat/internal/answer"
	answergemini "ytchat/internal/answer/gemini"
	"ytchat/internal/chunker"
	"ytchat/internal/config"
	"ytchat/internal/domain"
	embeddinggemini "ytchat/internal/embedding/gemini"
	"ytchat/internal/embedding/tfidf"
	"ytchat/internal/service"
	"ytchat/internal/summarizer"
	"ytchat/internal/transcript"
	"ytchat/internal/vectorstore/memory"
	"ytchat/internal/vectorstore/qdrant"
)

// buildSession assembles the session components from config. A missing
// API key surfaces here and halts startup.
func buildSession(cfg *config.AppConfig) (*service.Session, error) {
	fetcher := transcript.NewClient(transcript.Config{
		BaseURL:  cfg.Transcript.BaseURL,
		Language: cfg.Transcript.Language,
		Timeout:  time.Duration(cfg.Transcript.TimeoutSecs) * time.Second,
	})

	ch := chunker.NewRecursiveChunker(cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "gemini", "":
		client, err := embeddinggemini.NewClient(embeddinggemini.Config{
			BaseURL:   cfg.Embedder.Gemini.BaseURL,
			APIKeyEnv: cfg.Embedder.Gemini.APIKeyEnv,
			Model:     cfg.Embedder.Gemini.Model,
			Timeout:   time.Duration(cfg.Embedder.Gemini.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini embedder init failed: %w", err)
		}
		emb = client
	case "tfidf":
		emb = tfidf.NewEmbedder()
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.NewStore()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		store = qdrant.NewStore(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	model, err := answergemini.NewClient(answergemini.Config{
		BaseURL:     cfg.Answerer.Gemini.BaseURL,
		APIKeyEnv:   cfg.Answerer.Gemini.APIKeyEnv,
		Model:       cfg.Answerer.Gemini.Model,
		Temperature: cfg.Answerer.Temperature,
		Timeout:     time.Duration(cfg.Answerer.Gemini.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini answerer init failed: %w", err)
	}
	ans := answer.New(model, answer.Mode(cfg.Answerer.Mode))

	return service.NewSession(fetcher, ch, emb, store, ans, summarizer.NewFrequencySummarizer(), service.Options{
		Mode:              ans.Mode(),
		TopK:              cfg.Answerer.TopK,
		OverviewSentences: cfg.Summarizer.MaxSentences,
	}), nil
}
