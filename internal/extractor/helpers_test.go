package extractor

import (
	"context"
	"sync"
	"testing"
	"time"

	"mirrorscope-api/internal/config"
)

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	return &config.AppConfig{
		GeminiAPIKey:     "test",
		GeminiModel:      "test-model",
		Port:             "8000",
		YouTubeOEmbedURL: "http://127.0.0.1:1/oembed",
		PageFetchTimeout: 5 * time.Second,
		FetchUserAgent:   "Mozilla/5.0 (test)",
		NewsSearchURL:    "https://www.google.com/search",
	}
}

// recordingSummarizer returns a fixed Summary and remembers the URLs it saw.
type recordingSummarizer struct {
	mu     sync.Mutex
	result Summary
	urls   []string
}

func (r *recordingSummarizer) Summarize(_ context.Context, url string) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.urls = append(r.urls, url)
	return r.result
}

func (r *recordingSummarizer) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.urls)
}
