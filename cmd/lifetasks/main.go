package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"life-tasks/internal/ai"
	"life-tasks/internal/bot"
	"life-tasks/internal/config"
	"life-tasks/internal/handler"
	"life-tasks/internal/logger"
	"life-tasks/internal/notify"
	"life-tasks/internal/repository"
	"life-tasks/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	completer := ai.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, nil)
	adapter := ai.NewAdapter(completer, log.With().Str("component", "ai").Logger(),
		ai.WithTimeout(cfg.AITimeout),
		ai.WithFallbackOnly(cfg.PreferAIFallback()),
	)
	if cfg.OpenAIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, AI endpoints will serve fallback content")
	}

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, log)
	taskSvc := service.NewTaskService(taskRepo, log)
	assistSvc := service.NewAssistService(adapter, taskSvc, taskRepo, log)

	var notifiers []notify.Notifier
	if cfg.SMTPHost != "" {
		email, err := notify.NewEmailNotifier(notify.EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
		})
		if err != nil {
			return fmt.Errorf("email: %w", err)
		}
		notifiers = append(notifiers, email)
	}
	if cfg.TelegramToken != "" {
		telegramBot, err := bot.New(cfg.TelegramToken, log.With().Str("component", "telegram").Logger())
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		notifiers = append(notifiers, telegramBot)
		go func() {
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("telegram bot stopped")
			}
		}()
	}
	if len(notifiers) == 0 {
		log.Warn().Msg("no notification channel configured, reminders will only be logged")
	}

	dashboardURL := strings.TrimRight(cfg.FrontendURL, "/") + "/dashboard"
	reminderSvc := service.NewReminderService(taskRepo, userRepo, notifiers, cfg.ReminderWindow, dashboardURL,
		log.With().Str("component", "reminders").Logger())

	scheduler := service.NewSchedulerService(time.Local, log)
	job := func() {
		jobCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		reminderSvc.Run(jobCtx)
	}
	if cfg.ReminderInterval > 0 {
		_, err = scheduler.ScheduleInterval(cfg.ReminderInterval, job)
	} else {
		_, err = scheduler.ScheduleDaily(cfg.ReminderTime, job)
	}
	if err != nil {
		return fmt.Errorf("schedule reminders: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()
	for _, entry := range scheduler.Entries() {
		log.Info().Time("next", entry.Next).Msg("reminder sweep scheduled")
	}

	h := handler.New(authSvc, taskSvc, assistSvc, log)
	e := handler.NewServer(handler.ServerConfig{AllowedOrigin: cfg.FrontendURL, StaticDir: cfg.StaticDir}, h, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("life tasks server started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
