package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that owns tasks.
type User struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	Name         string      `gorm:"not null" json:"name"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string      `gorm:"not null" json:"-"`
	Preferences  Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Theme             string `gorm:"size:8" json:"theme"`
	ReminderFrequency string `gorm:"size:8" json:"reminderFrequency"`
	NotifyEmail       bool   `json:"notifyEmail"`
	NotifyPush        bool   `json:"notifyPush"`
	TelegramChatID    int64  `json:"telegramChatId,omitempty"`
	Location          string `json:"location,omitempty"`
}

var (
	Themes              = []string{"light", "dark", "system"}
	ReminderFrequencies = []string{"daily", "weekly", "custom"}
)

// DefaultPreferences are applied at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:             "system",
		ReminderFrequency: "daily",
		NotifyEmail:       true,
	}
}
