package extractor

import (
	"context"
	"log"
	"net/http"

	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

// DebugSummarize runs a single URL through the dispatcher with the real model and logs
// the result. It is reached through `<binary> debug <url>`.
func DebugSummarize(targetURL string) {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	gemini, err := llm.NewGeminiClient(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create Gemini client: %v", err)
	}
	defer func() {
		if err := gemini.Close(); err != nil {
			logger.LogError("Error closing Gemini client: %v", err)
		}
	}()

	d := NewDispatcher(ctx, appConfig, &http.Client{}, gemini)
	summary := d.Summarize(ctx, targetURL)
	log.Printf("Result: %+v", summary)
}
