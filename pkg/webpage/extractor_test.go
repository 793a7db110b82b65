package webpage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Gopher habits</title>
  <style>body { color: red; }</style>
  <script>console.log("tracking");</script>
</head>
<body>
  <header>Site banner</header>
  <nav>Home | About</nav>
  <h1>Gopher   habits</h1>
  <p>Gophers dig
     extensive burrows.</p>
  <footer>Copyright</footer>
</body>
</html>`

func TestExtractStripsChromeAndCollapsesWhitespace(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer server.Close()

	text, err := NewExtractor().Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Gopher habits Gopher habits Gophers dig extensive burrows.", text)
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "Site banner")
	assert.NotContains(t, text, "Copyright")
	assert.Contains(t, gotUserAgent, "Mozilla/5.0")
}

func TestExtractRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestExtractEmptyPageReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script>var x;</script></head><body></body></html>`))
	}))
	defer server.Close()

	_, err := NewExtractor().Extract(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestExtractCapsVeryLongPages(t *testing.T) {
	long := strings.Repeat("word ", 50000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>" + long + "</p></body></html>"))
	}))
	defer server.Close()

	text, err := NewExtractor().Extract(context.Background(), server.URL)

	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), maxContentBytes)
}

func TestExtractUnreachableHostFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewExtractor().Extract(context.Background(), url)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch URL")
}
