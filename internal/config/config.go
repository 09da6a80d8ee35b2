package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TranscriptConfig configures the captions fetcher.
type TranscriptConfig struct {
	BaseURL     string `yaml:"base_url"`
	Language    string `yaml:"language"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChunkerConfig configures how transcripts are split into chunks.
type ChunkerConfig struct {
	Type         string `yaml:"type"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
}

// GeminiConfig holds connection details for the Gemini API, shared by
// the embedder and the answerer clients.
type GeminiConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string        `yaml:"type"`
	Gemini *GeminiConfig `yaml:"gemini,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// AnswererConfig configures answer generation. Mode selects between
// retrieval over top_k chunks ("rag") and stuffing the whole transcript
// into the prompt ("full").
type AnswererConfig struct {
	Mode        string        `yaml:"mode"`
	TopK        int           `yaml:"top_k"`
	Temperature float64       `yaml:"temperature"`
	Gemini      *GeminiConfig `yaml:"gemini,omitempty"`
}

// SummarizerConfig configures the transcript overview shown after load.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Transcript  TranscriptConfig  `yaml:"transcript"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Answerer    AnswererConfig    `yaml:"answerer"`
	Summarizer  SummarizerConfig  `yaml:"summarizer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ytchat/config.yaml.
// If neither exists, it writes defaults to ~/.config/ytchat/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ytchat", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Transcript:  TranscriptConfig{},
		Chunker:     ChunkerConfig{Type: "recursive"},
		Embedder:    EmbedderConfig{Type: "gemini"},
		VectorStore: VectorStoreConfig{Type: "memory"},
		Answerer:    AnswererConfig{Mode: "rag"},
		Summarizer:  SummarizerConfig{},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Transcript.BaseURL == "" {
		cfg.Transcript.BaseURL = "https://www.youtube.com"
	}
	if cfg.Transcript.Language == "" {
		cfg.Transcript.Language = "en"
	}
	if cfg.Transcript.TimeoutSecs == 0 {
		cfg.Transcript.TimeoutSecs = 15
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 1000
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 200
	}
	if cfg.Embedder.Type == "gemini" || cfg.Embedder.Type == "" {
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &GeminiConfig{}
		}
		applyGeminiDefaults(cfg.Embedder.Gemini, "text-embedding-004", 30)
	}
	if cfg.VectorStore.Type == "qdrant" && cfg.VectorStore.Qdrant != nil {
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "ytchat"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}
	if cfg.Answerer.Mode == "" {
		cfg.Answerer.Mode = "rag"
	}
	if cfg.Answerer.TopK == 0 {
		cfg.Answerer.TopK = 4
	}
	if cfg.Answerer.Temperature == 0 {
		cfg.Answerer.Temperature = 0.3
	}
	if cfg.Answerer.Gemini == nil {
		cfg.Answerer.Gemini = &GeminiConfig{}
	}
	applyGeminiDefaults(cfg.Answerer.Gemini, "gemini-1.5-flash", 60)
	if cfg.Summarizer.MaxSentences == 0 {
		cfg.Summarizer.MaxSentences = 3
	}
}

func applyGeminiDefaults(g *GeminiConfig, model string, timeoutSecs int) {
	if g.BaseURL == "" {
		g.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if g.APIKeyEnv == "" {
		g.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if g.Model == "" {
		g.Model = model
	}
	if g.TimeoutSecs == 0 {
		g.TimeoutSecs = timeoutSecs
	}
}
