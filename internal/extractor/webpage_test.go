package extractor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirrorscope-api/internal/llm/llmtest"
)

// longSentence is 119 characters once trimmed, enough to pass the block threshold.
var longSentence = strings.TrimSpace(strings.Repeat("본문 내용입니다. ", 12))

func newPageServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// countingTransport counts the requests it forwards to http.DefaultTransport.
type countingTransport struct {
	n atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.n.Add(1)
	return http.DefaultTransport.RoundTrip(req)
}

func parseDoc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestCleanPageTextDropsChromeAndShortBlocks(t *testing.T) {
	page := `<html><head><title>제목</title><style>p { color: red; }</style></head><body>
<header><p>` + longSentence + ` header</p></header>
<nav><p>` + longSentence + ` nav</p></nav>
<p>` + longSentence + `</p>
<p>짧은 문단</p>
<p>   Second   block
	` + longSentence + `   </p>
<aside><p>` + longSentence + ` aside</p></aside>
<footer><p>` + longSentence + ` footer</p></footer>
<script>var x = "` + longSentence + `";</script>
</body></html>`

	got := CleanPageText(parseDoc(t, page))

	assert.Equal(t, longSentence+" Second block "+longSentence, got)
	for _, removed := range []string{"header", "nav", "aside", "footer", "var x", "짧은"} {
		assert.NotContains(t, got, removed)
	}
}

func TestCleanPageTextJoinsInlineTextWithSpaces(t *testing.T) {
	page := `<html><body><article><b>Bold</b>` + longSentence + `<i>tail</i></article></body></html>`

	got := CleanPageText(parseDoc(t, page))
	assert.Equal(t, "Bold "+longSentence+" tail", got)
}

func TestCleanPageTextNestedBlocksRepeat(t *testing.T) {
	page := `<html><body><section><p>` + longSentence + `</p></section></body></html>`

	got := CleanPageText(parseDoc(t, page))
	assert.Equal(t, longSentence+" "+longSentence, got)
}

func TestCleanPageTextCountsCharactersNotBytes(t *testing.T) {
	// 99 Hangul characters is far more than 100 bytes but still below the threshold.
	page := `<html><body><p>` + strings.Repeat("가", 99) + `</p></body></html>`
	assert.Empty(t, CleanPageText(parseDoc(t, page)))
}

func TestWebpageSummarizerSummarizes(t *testing.T) {
	body := strings.Repeat(longSentence+" ", 3)
	srv := newPageServer(t, http.StatusOK, `<html><body><p>`+body+`</p></body></html>`)
	stub := (&llmtest.Stub{}).On("웹 페이지 본문", "  페이지 요약 결과  \n")

	summary := NewWebpageSummarizer(testConfig(t), srv.Client(), stub).Summarize(context.Background(), srv.URL)

	assert.Equal(t, StatusOK, summary.Status)
	assert.Equal(t, "페이지 요약 결과", summary.Text)
	assert.Equal(t, SourceWebpage, summary.SourceType)
	require.Equal(t, 1, stub.Calls())
	assert.Contains(t, stub.Prompts()[0], strings.TrimSpace(body))
	assert.Contains(t, stub.Prompts()[0], "3줄 이내로 요약")
}

func TestWebpageSummarizerTruncatesPromptText(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, `<html><body><p>`+strings.Repeat("가", 5000)+`</p></body></html>`)
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "요약"}}

	summary := NewWebpageSummarizer(testConfig(t), srv.Client(), stub).Summarize(context.Background(), srv.URL)

	require.Equal(t, StatusOK, summary.Status)
	prompt := stub.Prompts()[0]
	assert.Contains(t, prompt, strings.Repeat("가", maxPromptChars))
	assert.NotContains(t, prompt, strings.Repeat("가", maxPromptChars+1))
}

func TestWebpageSummarizerInsufficientContent(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, `<html><body><p>`+longSentence+`</p><p>short</p></body></html>`)
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "should not be used"}}

	summary := NewWebpageSummarizer(testConfig(t), srv.Client(), stub).Summarize(context.Background(), srv.URL)

	assert.Equal(t, StatusInsufficientContent, summary.Status)
	assert.Equal(t, SentinelPageInsufficient, summary.Text)
	assert.Zero(t, stub.Calls())
}

func TestWebpageSummarizerParsesErrorStatusPages(t *testing.T) {
	body := strings.Repeat(longSentence+" ", 2)
	srv := newPageServer(t, http.StatusNotFound, `<html><body><div>`+body+`</div></body></html>`)
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "요약"}}

	summary := NewWebpageSummarizer(testConfig(t), srv.Client(), stub).Summarize(context.Background(), srv.URL)

	assert.Equal(t, StatusOK, summary.Status)
	assert.Equal(t, 1, stub.Calls())
}

func TestWebpageSummarizerFetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "should not be used"}}

	summary := NewWebpageSummarizer(testConfig(t), http.DefaultClient, stub).Summarize(context.Background(), deadURL)

	assert.Equal(t, StatusFetchError, summary.Status)
	assert.Equal(t, SentinelPageError, summary.Text)
	assert.Zero(t, stub.Calls())
}

func TestWebpageSummarizerInvalidURL(t *testing.T) {
	stub := &llmtest.Stub{}

	summary := NewWebpageSummarizer(testConfig(t), http.DefaultClient, stub).Summarize(context.Background(), "")

	assert.Equal(t, StatusFetchError, summary.Status)
	assert.Equal(t, SentinelPageError, summary.Text)
}

func TestWebpageSummarizerModelError(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, `<html><body><p>`+strings.Repeat(longSentence+" ", 3)+`</p></body></html>`)
	stub := &llmtest.Stub{Default: llmtest.Reply{Err: errors.New("quota exceeded")}}

	summary := NewWebpageSummarizer(testConfig(t), srv.Client(), stub).Summarize(context.Background(), srv.URL)

	assert.Equal(t, StatusModelError, summary.Status)
	assert.Equal(t, SentinelPageError, summary.Text)
}

func TestWebpageSummarizerSendsBrowserUserAgent(t *testing.T) {
	gotUA := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case gotUA <- r.UserAgent():
		default:
		}
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer srv.Close()

	cfg := testConfig(t)
	NewWebpageSummarizer(cfg, srv.Client(), &llmtest.Stub{}).Summarize(context.Background(), srv.URL)

	assert.Equal(t, cfg.FetchUserAgent, <-gotUA)
}

func TestWebpageSummarizerTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(3 * time.Second):
		}
		fmt.Fprint(w, `<html><body><p>`+strings.Repeat(longSentence+" ", 3)+`</p></body></html>`)
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(t)
	cfg.PageFetchTimeout = 300 * time.Millisecond
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "should not be used"}}

	start := time.Now()
	summary := NewWebpageSummarizer(cfg, srv.Client(), stub).Summarize(context.Background(), srv.URL)
	elapsed := time.Since(start)

	assert.Equal(t, StatusFetchError, summary.Status)
	assert.Equal(t, SentinelPageError, summary.Text)
	assert.Zero(t, stub.Calls())
	assert.GreaterOrEqual(t, elapsed, cfg.PageFetchTimeout)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestWebpageSummarizerUsesSharedTransport(t *testing.T) {
	srv := newPageServer(t, http.StatusOK, `<html><body><p>`+strings.Repeat(longSentence+" ", 3)+`</p></body></html>`)
	transport := &countingTransport{}
	stub := &llmtest.Stub{Default: llmtest.Reply{Text: "요약"}}

	summary := NewWebpageSummarizer(testConfig(t), &http.Client{Transport: transport}, stub).Summarize(context.Background(), srv.URL)

	assert.Equal(t, StatusOK, summary.Status)
	assert.Equal(t, int32(1), transport.n.Load())
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", truncateText("abc", 5))
	assert.Equal(t, "가나", truncateText("가나다", 2))
	assert.Equal(t, "", truncateText("가나다", 0))
}
