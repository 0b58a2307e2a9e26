package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultGeminiModel      = "gemini-2.0-flash"
	defaultPort             = "8000"
	defaultOEmbedURL        = "https://www.youtube.com/oembed"
	defaultPageFetchTimeout = 5 * time.Second
	defaultNewsSearchURL    = "https://www.google.com/search"
	defaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	Port         string
	// Optional key for the YouTube Data API, used when oEmbed returns no title
	YouTubeAPIKey    string
	YouTubeOEmbedURL string
	PageFetchTimeout time.Duration
	FetchUserAgent   string
	NewsSearchURL    string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*AppConfig, error) {
	// A missing .env is normal in containers; the environment can still be set directly.
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Info: Could not load .env file: %v (this is ok if using environment variables)\n", err)
	}

	timeout, err := parseDuration(getEnv("PAGE_FETCH_TIMEOUT", ""), defaultPageFetchTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid PAGE_FETCH_TIMEOUT: %w", err)
	}

	config := &AppConfig{
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", defaultGeminiModel),
		Port:             getEnv("PORT", defaultPort),
		YouTubeAPIKey:    os.Getenv("YOUTUBE_API_KEY"),
		YouTubeOEmbedURL: getEnv("YOUTUBE_OEMBED_URL", defaultOEmbedURL),
		PageFetchTimeout: timeout,
		FetchUserAgent:   getEnv("FETCH_USER_AGENT", defaultUserAgent),
		NewsSearchURL:    getEnv("NEWS_SEARCH_URL", defaultNewsSearchURL),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *AppConfig) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}

	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port number: %s", c.Port)
	}

	if c.PageFetchTimeout <= 0 {
		return fmt.Errorf("page fetch timeout must be positive, got %s", c.PageFetchTimeout)
	}

	if c.YouTubeOEmbedURL == "" {
		return fmt.Errorf("YOUTUBE_OEMBED_URL must not be empty")
	}
	if c.NewsSearchURL == "" {
		return fmt.Errorf("NEWS_SEARCH_URL must not be empty")
	}

	if c.YouTubeAPIKey == "" {
		fmt.Println("Warning: YOUTUBE_API_KEY not set - YouTube titles come from oEmbed only")
	}

	return nil
}

// GetPort returns the port as an integer
func (c *AppConfig) GetPort() int {
	port, _ := strconv.Atoi(c.Port) // Already validated in Validate()
	return port
}

// HasYouTubeConfig returns true if YouTube API configuration is available
func (c *AppConfig) HasYouTubeConfig() bool {
	return c.YouTubeAPIKey != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
