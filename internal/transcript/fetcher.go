package transcript

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"ytchat/internal/domain"
)

// ExtractVideoID pulls the video identifier out of a watch URL, a
// youtu.be short link, or returns the trimmed input unchanged when it
// already looks like a bare identifier.
func ExtractVideoID(input string) string {
	s := strings.TrimSpace(input)
	if i := strings.Index(s, "v="); i >= 0 {
		id := s[i+2:]
		if j := strings.IndexAny(id, "&#"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	if i := strings.Index(s, "youtu.be/"); i >= 0 {
		id := s[i+len("youtu.be/"):]
		if j := strings.IndexAny(id, "?&#/"); j >= 0 {
			id = id[:j]
		}
		return id
	}
	return s
}

// Client fetches caption transcripts from the YouTube watch page.
// It scrapes the player response for caption tracks and downloads the
// timedtext XML of the best matching track. Single attempt, no retry:
// fetch failures go straight back to the user.
type Client struct {
	baseURL  string
	language string
	client   *http.Client
}

// Config configures the captions client.
type Config struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// NewClient creates a captions client using the provided configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.youtube.com"
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		client:   &http.Client{Timeout: t},
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Fetch retrieves the full transcript text for a video identifier.
// Failures are tagged: captions disabled, no captions, or a generic
// fetch failure wrapping the underlying cause.
func (c *Client) Fetch(videoID string) (*domain.Transcript, error) {
	page, err := c.get(fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID))
	if err != nil {
		return nil, domain.NewFetchFailed(err)
	}
	tracks, err := extractCaptionTracks(page, videoID)
	if err != nil {
		return nil, err
	}
	track := pickTrack(tracks, c.language)
	body, err := c.get(track.BaseURL)
	if err != nil {
		return nil, domain.NewFetchFailed(err)
	}
	text, err := decodeTimedText(body)
	if err != nil {
		return nil, domain.NewFetchFailed(err)
	}
	if text == "" {
		return nil, domain.NewCaptionsNotFound(videoID)
	}
	return &domain.Transcript{VideoID: videoID, Text: text}, nil
}

func (c *Client) get(url string) (string, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// extractCaptionTracks locates the caption track list inside the watch
// page's player response. A page without a captions section means the
// uploader disabled captions; a captions section without tracks means
// none exist.
func extractCaptionTracks(page, videoID string) ([]captionTrack, error) {
	if !strings.Contains(page, `"captions":`) {
		return nil, domain.NewCaptionsUnavailable(videoID)
	}
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, domain.NewCaptionsNotFound(videoID)
	}
	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, domain.NewFetchFailed(fmt.Errorf("parsing caption tracks: %w", err))
	}
	if len(tracks) == 0 {
		return nil, domain.NewCaptionsNotFound(videoID)
	}
	return tracks, nil
}

// pickTrack prefers a manually created track in the wanted language,
// then any track in that language, then the first track.
func pickTrack(tracks []captionTrack, language string) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == language && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == language {
			return t
		}
	}
	return tracks[0]
}

// decodeTimedText converts timedtext XML into space-joined snippet
// text, order preserved as returned by the service.
func decodeTimedText(body string) (string, error) {
	var doc struct {
		Texts []struct {
			Value string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("parsing timedtext: %w", err)
	}
	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// Caption payloads are frequently double-escaped.
		s := html.UnescapeString(t.Value)
		s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), nil
}
