package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"ytchat/internal/domain"
)

// Client calls the Gemini embedContent endpoint. The same client must
// be used for chunk indexing and query-time embedding so all vectors in
// one index come from one model.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// Config configures the embeddings client. The API key is read from
// the environment variable named by APIKeyEnv.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "GOOGLE_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-004"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: 5,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "gemini" }

// Prepare is not required for remote embedding. The dimension is
// latched from the first response.
func (c *Client) Prepare(corpus []string) error { return nil }

// Dimension returns the dimensionality of the produced embedding vectors.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text. Rate limiting
// and transient server errors are retried with exponential backoff,
// honoring Retry-After when present.
func (c *Client) Embed(text string) ([]float64, error) {
	type part struct {
		Text string `json:"text"`
	}
	type reqBody struct {
		Model   string `json:"model"`
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	}
	body := reqBody{Model: "models/" + c.model}
	body.Content.Parts = []part{{Text: text}}
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/v1beta/models/%s:embedContent", c.baseURL, c.model)

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, domain.NewModelInvocationFailed(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			status := resp.Status
			sleepForRetry(resp, attempt)
			if attempt < c.maxRetries {
				continue
			}
			return nil, domain.NewModelInvocationFailed(fmt.Errorf("gemini embeddings failed: %s", status))
		}

		if resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, domain.NewModelInvocationFailed(fmt.Errorf("gemini embeddings failed: %s", resp.Status))
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, domain.NewModelInvocationFailed(err)
		}

		var out struct {
			Embedding struct {
				Values []float64 `json:"values"`
			} `json:"embedding"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, domain.NewModelInvocationFailed(err)
		}
		if len(out.Embedding.Values) == 0 {
			return nil, domain.NewModelInvocationFailed(errors.New("no embedding returned"))
		}
		if c.dimension == 0 {
			c.dimension = len(out.Embedding.Values)
		}
		return out.Embedding.Values, nil
	}
	return nil, domain.NewModelInvocationFailed(errors.New("no embedding returned"))
}

func sleepForRetry(resp *http.Response, attempt int) {
	defer resp.Body.Close()
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			time.Sleep(time.Duration(secs) * time.Second)
			return
		}
	}
	time.Sleep(retryDelay(attempt))
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
