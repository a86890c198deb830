package models

import (
	"time"

	"github.com/google/uuid"
)

// Default values applied when a user has no settings row yet.
const (
	DefaultReminderTime      = "08:00"
	DefaultStreakFreezeCount = 3
)

// UserSettingsDB stores reminder preferences and streak-freeze credits.
type UserSettingsDB struct {
	UserID            uuid.UUID `json:"-" db:"user_id"`
	ReminderEnabled   bool      `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderTime      string    `json:"reminder_time" db:"reminder_time"`
	StreakFreezeCount int       `json:"streak_freeze_count" db:"streak_freeze_count"`
	StreakFreezesUsed int       `json:"streak_freezes_used" db:"streak_freezes_used"`
	LastFreezeDate    *string   `json:"last_freeze_date" db:"last_freeze_date"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultUserSettings returns the settings a user has before the first write.
func DefaultUserSettings(userID uuid.UUID) *UserSettingsDB {
	return &UserSettingsDB{
		UserID:            userID,
		ReminderEnabled:   false,
		ReminderTime:      DefaultReminderTime,
		StreakFreezeCount: DefaultStreakFreezeCount,
	}
}
