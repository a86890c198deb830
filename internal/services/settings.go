package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

var (
	ErrNoFreezesAvailable = errors.New("no streak freezes available")
	ErrInvalidTime        = errors.New("reminder time must be in HH:MM format")
)

const reminderTimeLayout = "15:04"

// SettingsStore reads and upserts user settings.
type SettingsStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserSettingsDB, error)
	Upsert(ctx context.Context, settings *models.UserSettingsDB) error
}

// SettingsUpdate carries the user editable settings; nil fields are unchanged.
type SettingsUpdate struct {
	ReminderEnabled *bool
	ReminderTime    *string
}

// SettingsService manages reminder preferences and streak freezes.
type SettingsService struct {
	store SettingsStore
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

// Get returns the user's settings, or the defaults when none are stored.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.UserSettingsDB, error) {
	return loadSettings(ctx, s.store, userID)
}

// Update changes reminder preferences and returns the stored settings.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, upd SettingsUpdate) (*models.UserSettingsDB, error) {
	if upd.ReminderTime != nil {
		if _, err := time.Parse(reminderTimeLayout, *upd.ReminderTime); err != nil || len(*upd.ReminderTime) != len(reminderTimeLayout) {
			return nil, ErrInvalidTime
		}
	}

	settings, err := loadSettings(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	if upd.ReminderEnabled != nil {
		settings.ReminderEnabled = *upd.ReminderEnabled
	}
	if upd.ReminderTime != nil {
		settings.ReminderTime = *upd.ReminderTime
	}

	if err := s.save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UseFreeze spends one freeze credit today and returns the credits left.
func (s *SettingsService) UseFreeze(ctx context.Context, userID uuid.UUID) (int, error) {
	settings, err := loadSettings(ctx, s.store, userID)
	if err != nil {
		return 0, err
	}
	if settings.StreakFreezeCount <= 0 {
		return 0, ErrNoFreezesAvailable
	}

	date := today()
	settings.StreakFreezeCount--
	settings.StreakFreezesUsed++
	settings.LastFreezeDate = &date

	if err := s.save(ctx, settings); err != nil {
		return 0, err
	}

	logger.Log.Infow("streak freeze used", "user_id", userID, "remaining", settings.StreakFreezeCount)
	return settings.StreakFreezeCount, nil
}

// AddFreeze grants one freeze credit and returns the new total.
func (s *SettingsService) AddFreeze(ctx context.Context, userID uuid.UUID) (int, error) {
	settings, err := loadSettings(ctx, s.store, userID)
	if err != nil {
		return 0, err
	}

	settings.StreakFreezeCount++
	if err := s.save(ctx, settings); err != nil {
		return 0, err
	}

	logger.Log.Infow("streak freeze added", "user_id", userID, "total", settings.StreakFreezeCount)
	return settings.StreakFreezeCount, nil
}

func (s *SettingsService) save(ctx context.Context, settings *models.UserSettingsDB) error {
	settings.UpdatedAt = timeNow().UTC()
	if err := s.store.Upsert(ctx, settings); err != nil {
		logger.Log.Errorw("failed to save settings", "user_id", settings.UserID, "error", err)
		return err
	}
	return nil
}
