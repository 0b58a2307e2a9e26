// Package analyzer combines the page summary and two model prompts into the response
// returned for a highlighted comment.
package analyzer

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"mirrorscope-api/internal/extractor"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

// Response is the aggregated analysis of one comment.
type Response struct {
	Summary       string           `json:"summary"`
	SummaryStatus extractor.Status `json:"summary_status"`
	Opinion       *string          `json:"opinion"`
	Opposition    *string          `json:"opposition"`
	News          []NewsLink       `json:"news"`
}

// Analyzer runs the comment analysis pipeline. It holds no per-request state.
type Analyzer struct {
	summarizer    extractor.Summarizer
	llm           llm.Completer
	newsSearchURL string
}

// New creates an Analyzer. newsSearchURL is the search endpoint used for news links.
func New(summarizer extractor.Summarizer, completer llm.Completer, newsSearchURL string) *Analyzer {
	return &Analyzer{
		summarizer:    summarizer,
		llm:           completer,
		newsSearchURL: newsSearchURL,
	}
}

// Summarize returns the context summary for url.
func (a *Analyzer) Summarize(ctx context.Context, url string) extractor.Summary {
	return a.summarizer.Summarize(ctx, strings.TrimSpace(url))
}

// Analyze summarizes the page at url, extracts the comment's claim and a counterpoint, and
// builds a related-news link. It always returns a complete Response.
func (a *Analyzer) Analyze(ctx context.Context, url, comment string) *Response {
	start := time.Now()
	url = strings.TrimSpace(url)
	comment = strings.TrimSpace(comment)

	summary := a.summarizer.Summarize(ctx, url)

	var analysis, queryObj map[string]any
	var g errgroup.Group
	g.Go(func() error {
		var err error
		analysis, err = a.promptJSON(ctx, fmt.Sprintf(analysisPrompt, comment, summary.Text), analysisLabel)
		return err
	})
	g.Go(func() error {
		var err error
		queryObj, err = a.promptJSON(ctx, fmt.Sprintf(newsQueryPrompt, comment, summary.Text), newsLabel)
		return err
	})
	// A failed prompt still leaves an empty map, so the response degrades field by field.
	if err := g.Wait(); err != nil {
		logger.LogError("Analyzer: %v", err)
	}

	query, _ := llm.StringField(queryObj, "query")

	resp := &Response{
		Summary:       summary.Text,
		SummaryStatus: summary.Status,
		Opinion:       optionalString(analysis, "opinion"),
		Opposition:    optionalString(analysis, "opposition"),
		News:          []NewsLink{buildNewsLink(a.newsSearchURL, query, comment)},
	}

	log.Printf("Analyzer: finished %s in %s (summary status: %s, opinion: %t, query: %q)",
		url, time.Since(start).Round(time.Millisecond), summary.Status, resp.Opinion != nil, query)
	return resp
}

// promptJSON sends prompt to the model and returns the first JSON object in its reply.
// On a model error it returns an empty map, like unparseable output, together with the error.
func (a *Analyzer) promptJSON(ctx context.Context, prompt, label string) (map[string]any, error) {
	out, err := a.llm.Complete(ctx, prompt)
	if err != nil {
		return map[string]any{}, fmt.Errorf("%s model error: %w", label, err)
	}
	return llm.ExtractJSONObject(out, label), nil
}

func optionalString(m map[string]any, key string) *string {
	if s, ok := llm.StringField(m, key); ok {
		return &s
	}
	return nil
}
