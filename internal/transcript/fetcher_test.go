package transcript

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"ytchat/internal/domain"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=ABC123", "ABC123"},
		{"watch url with params", "https://www.youtube.com/watch?v=ABC123&t=5", "ABC123"},
		{"short link", "https://youtu.be/ABC123", "ABC123"},
		{"short link with params", "https://youtu.be/ABC123?t=5", "ABC123"},
		{"bare id", "ABC123", "ABC123"},
		{"bare id with whitespace", "  ABC123\n", "ABC123"},
		{"v param wins over short link", "https://www.youtube.com/watch?v=AAA&u=youtu.be/BBB", "AAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractVideoID(tt.input))
		})
	}
}

func newCaptionServer(t *testing.T, watchPage func(base string) string, timedtext string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchPage(srv.URL))
		case "/api/timedtext":
			fmt.Fprint(w, timedtext)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchSuccess(t *testing.T) {
	page := func(base string) string {
		return fmt.Sprintf(`{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s/api/timedtext","languageCode":"en"}]}}}`, base)
	}
	xml := `<?xml version="1.0" encoding="utf-8"?><transcript><text start="0" dur="1.5">Hello &amp;amp; welcome</text><text start="1.5" dur="2">to the show</text></transcript>`
	srv := newCaptionServer(t, page, xml)

	c := NewClient(Config{BaseURL: srv.URL})
	tr, err := c.Fetch("vid123")
	require.NoError(t, err)
	require.Equal(t, "vid123", tr.VideoID)
	require.Equal(t, "Hello & welcome to the show", tr.Text)
}

func TestFetchPrefersManualTrackInLanguage(t *testing.T) {
	page := func(base string) string {
		return fmt.Sprintf(`{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[`+
			`{"baseUrl":"%s/other","languageCode":"de"},`+
			`{"baseUrl":"%s/asr","languageCode":"en","kind":"asr"},`+
			`{"baseUrl":"%s/api/timedtext","languageCode":"en"}]}}}`, base, base, base)
	}
	xml := `<transcript><text>manual english</text></transcript>`
	srv := newCaptionServer(t, page, xml)

	c := NewClient(Config{BaseURL: srv.URL, Language: "en"})
	tr, err := c.Fetch("vid123")
	require.NoError(t, err)
	require.Equal(t, "manual english", tr.Text)
}

func TestFetchCaptionsDisabled(t *testing.T) {
	srv := newCaptionServer(t, func(string) string {
		return `<html>watch page without a captions section</html>`
	}, "")

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch("vid123")
	require.Error(t, err)
	require.Equal(t, domain.KindCaptionsUnavailable, domain.KindOf(err))
}

func TestFetchNoCaptionTracks(t *testing.T) {
	srv := newCaptionServer(t, func(string) string {
		return `{"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[]}}}`
	}, "")

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch("vid123")
	require.Error(t, err)
	require.Equal(t, domain.KindCaptionsNotFound, domain.KindOf(err))
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.Fetch("vid123")
	require.Error(t, err)
	require.Equal(t, domain.KindFetchFailed, domain.KindOf(err))
}
