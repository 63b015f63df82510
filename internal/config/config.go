package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Notifier backends.
const (
	NotifierFCM      = "fcm"
	NotifierTelegram = "telegram"
	NotifierLog      = "log"
)

// Config keeps runtime settings for the service.
type Config struct {
	DatabaseURL         string
	HTTPAddr            string
	JWTSecret           string
	Notifier            string
	FirebaseCredentials string
	TelegramToken       string
	// TickInterval drives the reminder scheduler. Rule matching happens at
	// minute granularity, so anything other than one minute risks duplicate
	// or missed fires; the knob exists for tests.
	TickInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:         strings.TrimSpace(os.Getenv("DATABASE_URL")),
		HTTPAddr:            strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		JWTSecret:           strings.TrimSpace(os.Getenv("JWT_SECRET")),
		Notifier:            strings.TrimSpace(os.Getenv("NOTIFIER")),
		FirebaseCredentials: strings.TrimSpace(os.Getenv("FIREBASE_CREDENTIALS")),
		TelegramToken:       strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		TickInterval:        parseSeconds(strings.TrimSpace(os.Getenv("TICK_INTERVAL_SECONDS"))),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "careminder.db"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Notifier == "" {
		cfg.Notifier = NotifierLog
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Minute
	}

	switch cfg.Notifier {
	case NotifierFCM, NotifierTelegram, NotifierLog:
	default:
		return cfg, fmt.Errorf("NOTIFIER must be one of fcm, telegram, log; got %q", cfg.Notifier)
	}
	if cfg.Notifier == NotifierTelegram && cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required when NOTIFIER=telegram")
	}
	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
