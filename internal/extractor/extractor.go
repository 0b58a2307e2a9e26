package extractor

import (
	"context"
	"net/http"

	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/llm"
)

// Status tells callers how a Summary was produced without matching on its text.
type Status string

const (
	StatusOK                  Status = "ok"
	StatusFetchError          Status = "fetch-error"
	StatusInsufficientContent Status = "insufficient-content"
	StatusUnsupportedPage     Status = "unsupported-page"
	StatusModelError          Status = "model-error"
)

// Source types reported on a Summary.
const (
	SourceSearch  = "search"
	SourceYouTube = "youtube"
	SourceWebpage = "webpage"
)

// Fixed texts returned in place of a model summary.
const (
	SentinelSearchPage       = "검색 결과 페이지는 요약할 수 없습니다."
	SentinelPageError        = "페이지 요약 중 오류가 발생했습니다."
	SentinelPageInsufficient = "본문이 충분하지 않아 요약할 수 없습니다."
	SentinelVideoUnavailable = "유튜브 영상 정보를 불러올 수 없습니다."
	SentinelVideoNoTitle     = "제목 정보가 없습니다."
	SentinelVideoError       = "유튜브 영상 요약 중 오류가 발생했습니다."
)

// Summary is the outcome of summarizing one URL. Text is either the model's summary
// (StatusOK) or the sentinel for Status.
type Summary struct {
	Status     Status `json:"status"`
	Text       string `json:"text"`
	SourceType string `json:"source_type"`
}

// OK reports whether Text came from the model.
func (s Summary) OK() bool {
	return s.Status == StatusOK
}

// Summarizer turns a URL into a Summary. Implementations never return an error; failures
// are reported through Summary.Status.
type Summarizer interface {
	Summarize(ctx context.Context, url string) Summary
}

// BaseExtractor provides the dependencies shared by all summarizers
type BaseExtractor struct {
	Config     *config.AppConfig
	HTTPClient *http.Client
	LLM        llm.Completer
}

// NewBaseExtractor creates a common base for summarizers
func NewBaseExtractor(cfg *config.AppConfig, client *http.Client, completer llm.Completer) BaseExtractor {
	return BaseExtractor{
		Config:     cfg,
		HTTPClient: client,
		LLM:        completer,
	}
}

func sentinel(status Status, sourceType, text string) Summary {
	return Summary{Status: status, Text: text, SourceType: sourceType}
}
