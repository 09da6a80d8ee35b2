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
	"strings"
	"time"

	"ytchat/internal/domain"
)

// Client calls the Gemini generateContent endpoint for answer
// generation.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
	maxRetries  int
}

// Config configures the completion client. The API key is read from
// the environment variable named by APIKeyEnv.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates a new completion client using the provided configuration.
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
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: t},
		maxRetries:  3,
	}, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt to the model and returns its response
// text. Rate limiting and transient server errors are retried with
// exponential backoff, honoring Retry-After when present.
func (c *Client) Generate(systemPrompt, userPrompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: userPrompt}}}},
	}
	if systemPrompt != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	body.GenerationConfig.Temperature = c.temperature
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

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
			return "", domain.NewModelInvocationFailed(err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			status := resp.Status
			sleepForRetry(resp, attempt)
			if attempt < c.maxRetries {
				continue
			}
			return "", domain.NewModelInvocationFailed(fmt.Errorf("gemini completion failed: %s", status))
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return "", domain.NewModelInvocationFailed(err)
		}

		var out generateResponse
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", domain.NewModelInvocationFailed(err)
		}
		if resp.StatusCode >= 300 {
			msg := out.Error.Message
			if msg == "" {
				msg = resp.Status
			}
			return "", domain.NewModelInvocationFailed(errors.New(msg))
		}
		if len(out.Candidates) == 0 {
			return "", domain.NewModelInvocationFailed(errors.New("no candidates returned"))
		}
		var sb strings.Builder
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
		return sb.String(), nil
	}
	return "", domain.NewModelInvocationFailed(errors.New("no response returned"))
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
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
