package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	// Planning service
	PlannerAPIURL  string
	PlannerAPIKey  string // "id:secret" pair, secret hex-encoded
	PlannerBackend string // "remote" or "gemini"
	GeminiAPIKey   string

	// Preference/usage collaborators
	LikesAPIURL string
	UsageAPIURL string

	// Local state
	DataDir      string
	DatabasePath string

	// Plan credits
	FreePlanLimit     int
	UsageRefreshDelay time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	plannerURL := os.Getenv("PLANNER_API_URL")
	if plannerURL == "" {
		return nil, fmt.Errorf("PLANNER_API_URL environment variable not set")
	}

	plannerKey := os.Getenv("PLANNER_API_KEY")
	if plannerKey == "" {
		return nil, fmt.Errorf("PLANNER_API_KEY environment variable not set")
	}

	likesURL := os.Getenv("LIKES_API_URL")
	if likesURL == "" {
		return nil, fmt.Errorf("LIKES_API_URL environment variable not set")
	}

	usageURL := os.Getenv("USAGE_API_URL")
	if usageURL == "" {
		return nil, fmt.Errorf("USAGE_API_URL environment variable not set")
	}

	backend := os.Getenv("PLANNER_BACKEND")
	if backend == "" {
		backend = "remote"
	}
	if backend != "remote" && backend != "gemini" {
		return nil, fmt.Errorf("PLANNER_BACKEND must be \"remote\" or \"gemini\", got %q", backend)
	}

	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	if backend == "gemini" && geminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "mealfit.db")
	}

	freeLimit := 3
	if v := os.Getenv("FREE_PLAN_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FREE_PLAN_LIMIT %q: %w", v, err)
		}
		freeLimit = n
	}

	refreshDelay := 2 * time.Second
	if v := os.Getenv("USAGE_REFRESH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid USAGE_REFRESH_DELAY %q: %w", v, err)
		}
		refreshDelay = d
	}

	// Telegram Config (optional for CLI, required for Bot)
	var allowedIDs []int64
	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID %q: %w", v, err)
		}
		adminID = id
	}

	return &Config{
		PlannerAPIURL:          plannerURL,
		PlannerAPIKey:          plannerKey,
		PlannerBackend:         backend,
		GeminiAPIKey:           geminiAPIKey,
		LikesAPIURL:            likesURL,
		UsageAPIURL:            usageURL,
		DataDir:                dataDir,
		DatabasePath:           dbPath,
		FreePlanLimit:          freeLimit,
		UsageRefreshDelay:      refreshDelay,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}
