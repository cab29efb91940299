// Package bot connects the reminder digests to Telegram. Users message the bot to learn their
// chat id, store it in their preferences, and then receive digests there.
package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"life-tasks/internal/model"
	"life-tasks/internal/notify"
)

const (
	cmdStart  = "start"
	cmdChatID = "chatid"
	cmdHelp   = "help"
)

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot sends digests and answers the linking commands.
type Bot struct {
	api botAPI
	log zerolog.Logger
}

func New(token string, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Info().Str("username", api.Self.UserName).Msg("telegram bot authorized")
	return &Bot{api: api, log: log}, nil
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			if err := b.handleMessage(update.Message); err != nil {
				b.log.Warn().Err(err).Int64("chat", update.Message.Chat.ID).Msg("telegram reply failed")
			}
		}
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) error {
	if !msg.IsCommand() {
		return b.sendText(msg.Chat.ID, "Send /start to get the chat id for your reminder settings.")
	}
	switch strings.ToLower(msg.Command()) {
	case cmdStart, cmdChatID:
		return b.sendText(msg.Chat.ID, fmt.Sprintf(
			"👋 Your chat id is <code>%d</code>.\nPaste it into <b>Settings → Notifications → Telegram</b> and enable push reminders.",
			msg.Chat.ID))
	case cmdHelp:
		return b.sendText(msg.Chat.ID, "ℹ️ /start shows your chat id. Task reminders are sent here once it is saved in your settings.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.api.Send(msg)
	return err
}

// Channel, Enabled and Send make the bot a notify.Notifier.
func (b *Bot) Channel() string { return "telegram" }

func (b *Bot) Enabled(user model.User) bool {
	return user.Preferences.NotifyPush && user.Preferences.TelegramChatID != 0
}

func (b *Bot) Send(_ context.Context, d notify.Digest) error {
	if err := b.sendText(d.User.Preferences.TelegramChatID, notify.RenderTelegram(d)); err != nil {
		return fmt.Errorf("send telegram digest to %d: %w", d.User.Preferences.TelegramChatID, err)
	}
	return nil
}

var _ notify.Notifier = (*Bot)(nil)
