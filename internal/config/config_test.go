package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "PORT", "DATABASE_URL", "JWT_SECRET", "JWT_TTL_HOURS", "OPENAI_API_KEY",
		"OPENAI_MODEL", "AI_TIMEOUT_SECONDS", "AI_USE_FALLBACK", "SMTP_PORT", "REMINDER_TIME",
		"REMINDER_INTERVAL_HOURS", "REMINDER_WINDOW_DAYS", "SMTP_USERNAME", "EMAIL_FROM",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "life_tasks.db", cfg.DatabaseURL)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "gpt-4", cfg.OpenAIModel)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "08:00", cfg.ReminderTime)
	assert.Equal(t, 72*time.Hour, cfg.ReminderWindow)
	assert.Zero(t, cfg.ReminderInterval)
	assert.False(t, cfg.PreferAIFallback())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "Test")
	t.Setenv("AI_TIMEOUT_SECONDS", "5")
	t.Setenv("REMINDER_INTERVAL_HOURS", "6")
	t.Setenv("REMINDER_WINDOW_DAYS", "1")
	t.Setenv("SMTP_USERNAME", "bot@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvTest, cfg.Env)
	assert.True(t, cfg.PreferAIFallback())
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
	assert.Equal(t, 6*time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 24*time.Hour, cfg.ReminderWindow)
	assert.Equal(t, "bot@example.com", cfg.EmailFrom)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_TIMEOUT_SECONDS", "soon")
	t.Setenv("REMINDER_INTERVAL_HOURS", "-2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, cfg.AITimeout)
	assert.Zero(t, cfg.ReminderInterval)
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestLoadRejectsBadReminderTime(t *testing.T) {
	clearEnv(t)
	t.Setenv("REMINDER_TIME", "25:00")

	_, err := Load()
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	assert.Equal(t, 45, m)

	for _, bad := range []string{"", "7", "07:60", "aa:10", "1:2:3"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}
