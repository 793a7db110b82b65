package webpage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxContentBytes  = 100000
)

// Elements whose text is page chrome or code, not content.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"nav":    true,
	"footer": true,
	"header": true,
}

// Extractor fetches a webpage and reduces it to plain text.
type Extractor struct {
	client *http.Client
}

func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Extract fetches the URL with a browser user agent and returns the page
// text with markup and chrome elements removed. Whitespace is collapsed to
// single spaces and the result is capped at 100000 bytes.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing content: %w", err)
	}

	var parts []string
	collectText(doc, &parts)

	text := strings.Join(parts, " ")
	if text == "" {
		return "", fmt.Errorf("no text content found at URL")
	}

	return capText(text), nil
}

func collectText(node *html.Node, parts *[]string) {
	if node.Type == html.ElementNode && skippedElements[node.Data] {
		return
	}
	if node.Type == html.TextNode {
		if fields := strings.Fields(node.Data); len(fields) > 0 {
			*parts = append(*parts, strings.Join(fields, " "))
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

// capText trims to the byte cap without splitting a rune.
func capText(text string) string {
	if len(text) <= maxContentBytes {
		return text
	}
	cut := maxContentBytes
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
