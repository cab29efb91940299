package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config keeps runtime settings for the server.
type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	LogLevel    string
	FrontendURL string
	StaticDir   string

	JWTSecret string
	JWTTTL    time.Duration

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string
	AITimeout     time.Duration
	AIUseFallback bool

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	TelegramToken string

	ReminderTime     string
	ReminderInterval time.Duration
	ReminderWindow   time.Duration
}

// Load reads configuration from a .env file (if any) and environment variables with sane defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:         strings.ToLower(env("APP_ENV")),
		Port:        env("PORT"),
		DatabaseURL: env("DATABASE_URL"),
		LogLevel:    env("LOG_LEVEL"),
		FrontendURL: env("FRONTEND_URL"),
		StaticDir:   env("STATIC_DIR"),

		JWTSecret: env("JWT_SECRET"),
		JWTTTL:    parseHours(env("JWT_TTL_HOURS")),

		OpenAIKey:     env("OPENAI_API_KEY"),
		OpenAIModel:   env("OPENAI_MODEL"),
		OpenAIBaseURL: env("OPENAI_BASE_URL"),
		AITimeout:     parseSeconds(env("AI_TIMEOUT_SECONDS")),
		AIUseFallback: parseBool(env("AI_USE_FALLBACK")),

		SMTPHost:     env("SMTP_HOST"),
		SMTPPort:     parsePositiveInt(env("SMTP_PORT")),
		SMTPUsername: env("SMTP_USERNAME"),
		SMTPPassword: env("SMTP_PASSWORD"),
		EmailFrom:    env("EMAIL_FROM"),

		TelegramToken: env("TELEGRAM_TOKEN"),

		ReminderTime:     env("REMINDER_TIME"),
		ReminderInterval: parseHours(env("REMINDER_INTERVAL_HOURS")),
		ReminderWindow:   time.Duration(parsePositiveInt(env("REMINDER_WINDOW_DAYS"))) * 24 * time.Hour,
	}

	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Port == "" {
		cfg.Port = "5000"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "life_tasks.db"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.JWTTTL == 0 {
		cfg.JWTTTL = 7 * 24 * time.Hour
	}
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4"
	}
	if cfg.AITimeout == 0 {
		cfg.AITimeout = 20 * time.Second
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.EmailFrom == "" {
		cfg.EmailFrom = cfg.SMTPUsername
	}
	if cfg.ReminderTime == "" {
		cfg.ReminderTime = "08:00"
	}
	if cfg.ReminderWindow == 0 {
		cfg.ReminderWindow = 3 * 24 * time.Hour
	}

	if cfg.JWTSecret == "" {
		if cfg.Env == EnvProduction {
			return cfg, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = "dev-secret"
	}
	if _, _, err := ParseClock(cfg.ReminderTime); err != nil {
		return cfg, fmt.Errorf("REMINDER_TIME: %w", err)
	}

	return cfg, nil
}

// PreferAIFallback reports whether canned AI content should be served without calling the model.
func (c Config) PreferAIFallback() bool {
	return c.AIUseFallback || c.Env == EnvTest
}

// ParseClock parses an HH:MM time of day.
func ParseClock(timeStr string) (hour, minute int, err error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour, minute, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func parseHours(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	secs, err := time.ParseDuration(raw + "s")
	if err != nil || secs <= 0 {
		return 0
	}
	return secs
}

func parsePositiveInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
