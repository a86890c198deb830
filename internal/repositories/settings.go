package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

// SettingsRepository reads and upserts per-user settings. Inside a request
// transaction both operations run on that transaction.
type SettingsRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewSettingsRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *SettingsRepository {
	return &SettingsRepository{db: db, txGetter: txGetter}
}

func (r *SettingsRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Get returns the user's settings row, or nil if none was written yet.
func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.UserSettingsDB, error) {
	const query = `
		SELECT user_id, reminder_enabled, reminder_time, streak_freeze_count,
		       streak_freezes_used, last_freeze_date, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var settings models.UserSettingsDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &settings, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"result", settings,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// Upsert writes the full settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.UserSettingsDB) error {
	const query = `
		INSERT INTO user_settings (user_id, reminder_enabled, reminder_time, streak_freeze_count,
		                           streak_freezes_used, last_freeze_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE
		SET reminder_enabled    = EXCLUDED.reminder_enabled,
		    reminder_time       = EXCLUDED.reminder_time,
		    streak_freeze_count = EXCLUDED.streak_freeze_count,
		    streak_freezes_used = EXCLUDED.streak_freezes_used,
		    last_freeze_date    = EXCLUDED.last_freeze_date,
		    updated_at          = EXCLUDED.updated_at
	`
	args := []any{
		settings.UserID, settings.ReminderEnabled, settings.ReminderTime, settings.StreakFreezeCount,
		settings.StreakFreezesUsed, settings.LastFreezeDate, settings.UpdatedAt,
	}

	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
