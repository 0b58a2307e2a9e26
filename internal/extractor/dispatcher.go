package extractor

import (
	"context"
	"log"
	"net/http"
	"strings"

	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

// Search result pages are never summarized.
var searchPagePatterns = []string{
	"google.com/search",
	"search.naver.com",
	"youtube.com/results",
}

var youtubeVideoPatterns = []string{
	"youtube.com/watch",
	"youtu.be/",
	"youtube.com/shorts/",
}

// Dispatcher picks the summarizer for a URL.
type Dispatcher struct {
	youtubeSummarizer Summarizer
	webpageSummarizer Summarizer
}

// NewDispatcher creates a Dispatcher and initializes the concrete summarizers.
func NewDispatcher(ctx context.Context, appConfig *config.AppConfig, client *http.Client, completer llm.Completer) *Dispatcher {
	yt := NewYouTubeSummarizer(appConfig, client, completer)
	if appConfig.HasYouTubeConfig() {
		if err := yt.EnableDataAPI(ctx, appConfig.YouTubeAPIKey); err != nil {
			log.Printf("Warning: YouTube Data API unavailable: %v. Titles come from oEmbed only.", err)
		}
	}

	return &Dispatcher{
		youtubeSummarizer: yt,
		webpageSummarizer: NewWebpageSummarizer(appConfig, client, completer),
	}
}

// ClassifyURL returns the source type a URL is dispatched to.
func ClassifyURL(url string) string {
	if containsAny(url, searchPagePatterns) {
		return SourceSearch
	}
	if containsAny(url, youtubeVideoPatterns) {
		return SourceYouTube
	}
	return SourceWebpage
}

// Summarize implements Summarizer.
func (d *Dispatcher) Summarize(ctx context.Context, url string) Summary {
	var summary Summary
	switch ClassifyURL(url) {
	case SourceSearch:
		log.Printf("Dispatcher: %s is a search results page, not summarizing", url)
		return sentinel(StatusUnsupportedPage, SourceSearch, SentinelSearchPage)
	case SourceYouTube:
		log.Printf("Identified %s as YouTube URL", url)
		summary = d.youtubeSummarizer.Summarize(ctx, url)
	default:
		log.Printf("Identified %s as general webpage URL", url)
		summary = d.webpageSummarizer.Summarize(ctx, url)
	}

	if !summary.OK() {
		logger.LogWarn("Dispatcher: %s summarized with status %s", url, summary.Status)
	}
	return summary
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
