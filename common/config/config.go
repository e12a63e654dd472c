package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/campus-events/client-go/common/logger"
)

// ClientConfig holds everything the client needs to talk to the backend.
// A single configured origin serves all endpoints; there is no per-request
// host variation.
type ClientConfig struct {
	// BaseURL is the backend origin, e.g. "https://events.campus.edu"
	BaseURL string

	// SessionFile is where the persisted session (token + user) lives
	SessionFile string

	// RequestTimeout bounds every API call
	RequestTimeout time.Duration

	// PollInterval is the notification unread-count refresh cadence
	PollInterval time.Duration

	// DownloadDir receives exported CSV/PDF files
	DownloadDir string
}

var (
	globalConfig *ClientConfig
	configMutex  sync.RWMutex
)

const (
	defaultBaseURL      = "http://localhost:8080"
	defaultTimeout      = 15 * time.Second
	defaultPollInterval = 30 * time.Second
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *ClientConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &ClientConfig{
		BaseURL:        defaultBaseURL,
		SessionFile:    filepath.Join(home, ".campus-events", "session.json"),
		RequestTimeout: defaultTimeout,
		PollInterval:   defaultPollInterval,
		DownloadDir:    ".",
	}
}

// Load reads configuration from .env (when present) and environment
// variables, falling back to defaults. The result is cached.
func Load() *ClientConfig {
	configMutex.RLock()
	if globalConfig != nil {
		configMutex.RUnlock()
		return globalConfig
	}
	configMutex.RUnlock()

	configMutex.Lock()
	defer configMutex.Unlock()

	if globalConfig != nil {
		return globalConfig
	}

	// .env is optional; environment variables win either way
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if v := os.Getenv("CAMPUS_API_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("CAMPUS_SESSION_FILE"); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv("CAMPUS_DOWNLOAD_DIR"); v != "" {
		cfg.DownloadDir = v
	}
	if v := os.Getenv("CAMPUS_API_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 && secs <= 300 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("CAMPUS_POLL_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 5 && secs <= 600 {
			cfg.PollInterval = time.Duration(secs) * time.Second
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Default().WithError(err).Warn("invalid config, using defaults")
		cfg = DefaultConfig()
	}

	globalConfig = cfg
	return globalConfig
}

// Validate checks the configuration for obviously broken values
func (c *ClientConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}

// Reset clears the cached config. Test helper.
func Reset() {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = nil
}
