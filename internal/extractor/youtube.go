package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const videoSummaryPrompt = `
다음은 유튜브 영상의 제목입니다. 영상의 내용을 3줄 이내로 중립적으로 요약해줘.

제목: %s
`

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// oEmbedResponse is the subset of the oEmbed document we read.
type oEmbedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// YouTubeSummarizer summarizes a video from its title. The title comes from the public
// oEmbed endpoint, or from the YouTube Data API when oEmbed has none and a key is set.
type YouTubeSummarizer struct {
	BaseExtractor
	youtubeService *youtube.Service
}

// NewYouTubeSummarizer creates a summarizer that uses oEmbed only.
func NewYouTubeSummarizer(appConfig *config.AppConfig, client *http.Client, completer llm.Completer) *YouTubeSummarizer {
	return &YouTubeSummarizer{
		BaseExtractor: NewBaseExtractor(appConfig, client, completer),
	}
}

// EnableDataAPI turns on the Data API title fallback.
func (e *YouTubeSummarizer) EnableDataAPI(ctx context.Context, apiKey string, opts ...option.ClientOption) error {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create YouTube service: %w", err)
	}
	e.youtubeService = svc
	return nil
}

// Summarize implements Summarizer.
func (e *YouTubeSummarizer) Summarize(ctx context.Context, videoURL string) Summary {
	log.Printf("YouTubeSummarizer: Starting summary for URL: %s", videoURL)

	title, err := e.fetchOEmbedTitle(ctx, videoURL)
	if (err != nil || title == "") && e.youtubeService != nil {
		apiTitle, apiErr := e.fetchDataAPITitle(ctx, videoURL)
		if apiErr == nil && apiTitle != "" {
			log.Printf("YouTubeSummarizer: oEmbed gave no title for %s, using Data API title", videoURL)
			title, err = apiTitle, nil
		} else if apiErr != nil {
			logger.LogError("YouTubeSummarizer: Data API lookup failed for %s: %v", videoURL, apiErr)
		}
	}

	switch {
	case errors.Is(err, ErrOEmbedStatus):
		logger.LogError("YouTubeSummarizer: %v", err)
		return sentinel(StatusFetchError, SourceYouTube, SentinelVideoUnavailable)
	case err != nil:
		logger.LogError("YouTubeSummarizer: video summary error for %s: %v", videoURL, err)
		return sentinel(StatusFetchError, SourceYouTube, SentinelVideoError)
	case title == "":
		return sentinel(StatusInsufficientContent, SourceYouTube, SentinelVideoNoTitle)
	}

	out, err := e.LLM.Complete(ctx, fmt.Sprintf(videoSummaryPrompt, title))
	if err != nil {
		logger.LogError("YouTubeSummarizer: model error for %s: %v", videoURL, err)
		return sentinel(StatusModelError, SourceYouTube, SentinelVideoError)
	}

	return Summary{Status: StatusOK, Text: strings.TrimSpace(out), SourceType: SourceYouTube}
}

func (e *YouTubeSummarizer) fetchOEmbedTitle(ctx context.Context, videoURL string) (string, error) {
	query := url.Values{}
	query.Set("url", videoURL)
	query.Set("format", "json")
	endpoint := e.Config.YouTubeOEmbedURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("oembed request: %w", err)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oembed http: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d for %s", ErrOEmbedStatus, resp.StatusCode, videoURL)
	}

	var data oEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("oembed decode: %w", err)
	}
	return strings.TrimSpace(data.Title), nil
}

func (e *YouTubeSummarizer) fetchDataAPITitle(ctx context.Context, videoURL string) (string, error) {
	videoID := extractVideoID(videoURL)
	if videoID == "" {
		return "", ErrNoVideoID
	}

	resp, err := e.youtubeService.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube api video details: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return "", ErrVideoNotFound
	}

	snippet := resp.Items[0].Snippet
	log.Printf("YouTubeSummarizer: Fetched Title: '%s', Channel: '%s' for %s", snippet.Title, snippet.ChannelTitle, videoID)
	return strings.TrimSpace(snippet.Title), nil
}

// extractVideoID reads the video ID from watch, short-link, shorts, embed and live URLs.
func extractVideoID(videoURL string) string {
	if !strings.Contains(videoURL, "://") {
		videoURL = "https://" + videoURL
	}

	parsedURL, err := url.Parse(videoURL)
	if err != nil {
		return ""
	}

	hostname := strings.TrimPrefix(strings.ToLower(parsedURL.Hostname()), "www.")
	switch {
	case hostname == "youtu.be":
		return validVideoID(strings.TrimPrefix(parsedURL.Path, "/"))
	case hostname == "youtube.com" || strings.HasSuffix(hostname, ".youtube.com"):
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/", "/v/"} {
			if strings.HasPrefix(parsedURL.Path, prefix) {
				return validVideoID(strings.TrimPrefix(parsedURL.Path, prefix))
			}
		}
		return validVideoID(parsedURL.Query().Get("v"))
	}
	return ""
}

func validVideoID(candidate string) string {
	if idx := strings.IndexAny(candidate, "/?&#"); idx != -1 {
		candidate = candidate[:idx]
	}
	if videoIDPattern.MatchString(candidate) {
		return candidate
	}
	return ""
}
