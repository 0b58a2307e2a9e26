package extractor

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"

	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

const (
	// Blocks shorter than this (stripped, in characters) are treated as chrome, not content.
	minBlockChars = 100
	// Pages with less cleaned text than this are not sent to the model.
	minPageChars = 200
	// Upper bound on page text embedded in the prompt.
	maxPromptChars = 4000
)

var (
	removedSelectors = []string{"script", "style", "nav", "footer", "header", "aside"}
	blockSelectors   = []string{"p", "div", "section", "article"}
)

const pageSummaryPrompt = `
다음은 웹 페이지 본문입니다. 광고나 반복 문구는 무시하고 핵심 내용을 3줄 이내로 요약해줘:

%s
`

// WebpageSummarizer fetches an arbitrary page, extracts its readable text and asks the
// model for a short summary.
type WebpageSummarizer struct {
	BaseExtractor
}

// NewWebpageSummarizer creates a new WebpageSummarizer.
func NewWebpageSummarizer(appConfig *config.AppConfig, client *http.Client, completer llm.Completer) *WebpageSummarizer {
	return &WebpageSummarizer{
		BaseExtractor: NewBaseExtractor(appConfig, client, completer),
	}
}

// Summarize implements Summarizer.
func (e *WebpageSummarizer) Summarize(ctx context.Context, url string) Summary {
	text, err := e.FetchText(ctx, url)
	if err != nil {
		logger.LogError("WebpageSummarizer: page summary error for %s: %v", url, err)
		return sentinel(StatusFetchError, SourceWebpage, SentinelPageError)
	}

	if utf8.RuneCountInString(text) < minPageChars {
		log.Printf("WebpageSummarizer: %s has only %d characters of content, skipping model", url, utf8.RuneCountInString(text))
		return sentinel(StatusInsufficientContent, SourceWebpage, SentinelPageInsufficient)
	}

	prompt := fmt.Sprintf(pageSummaryPrompt, truncateText(text, maxPromptChars))
	out, err := e.LLM.Complete(ctx, prompt)
	if err != nil {
		logger.LogError("WebpageSummarizer: model error for %s: %v", url, err)
		return sentinel(StatusModelError, SourceWebpage, SentinelPageError)
	}

	return Summary{Status: StatusOK, Text: strings.TrimSpace(out), SourceType: SourceWebpage}
}

// FetchText downloads url and returns its cleaned, whitespace-collapsed content text.
// Requests go through the shared client's transport when one is set. Error status pages
// are parsed like any other page.
func (e *WebpageSummarizer) FetchText(ctx context.Context, url string) (string, error) {
	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(e.Config.FetchUserAgent),
		colly.StdlibContext(ctx),
	)
	if e.HTTPClient != nil && e.HTTPClient.Transport != nil {
		c.WithTransport(e.HTTPClient.Transport)
	}
	c.SetRequestTimeout(e.Config.PageFetchTimeout)
	c.ParseHTTPErrorResponse = true

	var body []byte
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		log.Printf("WebpageSummarizer: Fetched %s (status %d, %d bytes)", url, r.StatusCode, len(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		fetchErr = fmt.Errorf("request failed: status_code=%d: %w", r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil {
		if fetchErr != nil {
			return "", fetchErr
		}
		return "", fmt.Errorf("failed to visit webpage: %w", err)
	}
	if fetchErr != nil {
		return "", fetchErr
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}
	return CleanPageText(doc), nil
}

// CleanPageText strips non-content elements from doc and joins the text of every
// sufficiently long paragraph-like block. Nested blocks each contribute their own text.
func CleanPageText(doc *goquery.Document) string {
	doc.Find(strings.Join(removedSelectors, ", ")).Remove()

	var chunks []string
	doc.Find(strings.Join(blockSelectors, ", ")).Each(func(_ int, s *goquery.Selection) {
		parts := textParts(s)
		if utf8.RuneCountInString(strings.Join(parts, "")) >= minBlockChars {
			chunks = append(chunks, strings.Join(parts, " "))
		}
	})

	return strings.Join(strings.Fields(strings.Join(chunks, " ")), " ")
}

// textParts returns the trimmed, non-empty text nodes under s in document order.
func textParts(s *goquery.Selection) []string {
	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return parts
}
