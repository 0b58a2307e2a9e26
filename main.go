package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mirrorscope-api/internal/analyzer"
	"mirrorscope-api/internal/api"
	"mirrorscope-api/internal/config"
	"mirrorscope-api/internal/extractor"
	"mirrorscope-api/internal/llm"
	"mirrorscope-api/internal/logger"
)

func main() {
	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) > 2 && os.Args[1] == "debug" {
		extractor.DebugSummarize(os.Args[2])
		return
	}

	// Load configuration
	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.LogError("Failed to load configuration: %v", err)
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	gemini, err := llm.NewGeminiClient(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to create model client: %v", err)
	}
	defer func() {
		if err := gemini.Close(); err != nil {
			logger.LogError("Error closing model client: %v", err)
		}
	}()

	// Shared client for oEmbed and other metadata lookups. Requests are bounded by the
	// caller's context rather than a client-wide timeout.
	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}

	dispatcher := extractor.NewDispatcher(ctx, appConfig, httpClient, gemini)
	commentAnalyzer := analyzer.New(dispatcher, gemini, appConfig.NewsSearchURL)
	handler := api.NewRouter(api.NewAnalyzeHandler(commentAnalyzer))

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", appConfig.GetPort()),
		Handler:     handler,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %d (model: %s)", appConfig.GetPort(), appConfig.GeminiModel)
		log.Printf("Available endpoints:")
		log.Printf("  POST /analyze-comment-full - Summarize the page and analyze a comment")
		log.Printf("  POST /summarize            - Summarize a page or video URL")
		log.Printf("  GET  /health               - Health check endpoint")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.LogError("Server failed to start: %v", err)
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited gracefully")
}
