package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

const dreamColumns = `dream_id, user_id, title, description, dream_date, tags, themes,
	is_lucid, is_public, share_id, ai_insight, created_at, updated_at`

// dreamFilterClause matches models.DreamFilter; nil parameters are not applied.
const dreamFilterClause = `
	user_id = $1
	AND ($2::VARCHAR IS NULL OR dream_date >= $2)
	AND ($3::VARCHAR IS NULL OR dream_date < $3)
	AND ($4::BOOLEAN IS NULL OR is_lucid = $4)
`

func filterArgs(f models.DreamFilter) []any {
	return []any{f.UserID, f.DateFrom, f.DateTo, f.IsLucid}
}

// DreamReadRepository handles dream read operations
type DreamReadRepository struct {
	db *sqlx.DB
}

func NewDreamReadRepository(db *sqlx.DB) *DreamReadRepository {
	return &DreamReadRepository{db: db}
}

// Get returns the dream owned by userID, or nil if it does not exist.
func (r *DreamReadRepository) Get(ctx context.Context, userID, dreamID uuid.UUID) (*models.DreamDB, error) {
	query := `SELECT ` + dreamColumns + ` FROM dreams WHERE dream_id = $1 AND user_id = $2`

	var dream models.DreamDB
	err := r.db.GetContext(ctx, &dream, query, dreamID, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{dreamID, userID},
		"result", dream.DreamID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dream: %w", err)
	}
	return &dream, nil
}

// List returns the dreams matching filter, newest date first.
func (r *DreamReadRepository) List(ctx context.Context, filter models.DreamFilter) ([]*models.DreamDB, error) {
	query := `SELECT ` + dreamColumns + ` FROM dreams WHERE ` + dreamFilterClause +
		` ORDER BY dream_date DESC, created_at DESC`
	args := filterArgs(filter)

	dreams := []*models.DreamDB{}
	err := r.db.SelectContext(ctx, &dreams, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", len(dreams),
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("list dreams: %w", err)
	}
	return dreams, nil
}

// Count returns the number of dreams matching filter.
func (r *DreamReadRepository) Count(ctx context.Context, filter models.DreamFilter) (int, error) {
	query := `SELECT COUNT(*) FROM dreams WHERE ` + dreamFilterClause
	args := filterArgs(filter)

	var count int
	err := r.db.GetContext(ctx, &count, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", count,
		"error", err,
	)

	if err != nil {
		return 0, fmt.Errorf("count dreams: %w", err)
	}
	return count, nil
}

// GetByShareID returns a public dream by its share id, or nil.
func (r *DreamReadRepository) GetByShareID(ctx context.Context, shareID string) (*models.PublicDreamDB, error) {
	const query = `
		SELECT d.dream_id, d.user_id, d.title, d.description, d.dream_date, d.tags, d.themes,
		       d.is_lucid, d.is_public, d.share_id, d.ai_insight, d.created_at, d.updated_at,
		       COALESCE(u.name, '') AS author_name
		FROM dreams d
		LEFT JOIN users u ON u.user_id = d.user_id
		WHERE d.share_id = $1 AND d.is_public
	`

	var dream models.PublicDreamDB
	err := r.db.GetContext(ctx, &dream, query, shareID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{shareID},
		"result", dream.DreamID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shared dream: %w", err)
	}
	return &dream, nil
}

// ListPublic returns up to limit public dreams, newest first.
func (r *DreamReadRepository) ListPublic(ctx context.Context, limit int) ([]*models.PublicDreamDB, error) {
	const query = `
		SELECT d.dream_id, d.user_id, d.title, d.description, d.dream_date, d.tags, d.themes,
		       d.is_lucid, d.is_public, d.share_id, d.ai_insight, d.created_at, d.updated_at,
		       COALESCE(u.name, '') AS author_name
		FROM dreams d
		LEFT JOIN users u ON u.user_id = d.user_id
		WHERE d.is_public
		ORDER BY d.created_at DESC
		LIMIT $1
	`

	dreams := []*models.PublicDreamDB{}
	err := r.db.SelectContext(ctx, &dreams, query, limit)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{limit},
		"result", len(dreams),
		"error", err,
	)

	if err != nil {
		return nil, fmt.Errorf("list public dreams: %w", err)
	}
	return dreams, nil
}

// DreamWriteRepository handles dream write operations
type DreamWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewDreamWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *DreamWriteRepository {
	return &DreamWriteRepository{db: db, txGetter: txGetter}
}

func (r *DreamWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new dream.
func (r *DreamWriteRepository) Save(ctx context.Context, dream *models.DreamDB) error {
	query := `INSERT INTO dreams (` + dreamColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	args := []any{
		dream.DreamID, dream.UserID, dream.Title, dream.Description, dream.Date,
		dream.Tags, dream.Themes, dream.IsLucid, dream.IsPublic, dream.ShareID,
		dream.AIInsight, dream.CreatedAt, dream.UpdatedAt,
	}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{dream.DreamID, dream.UserID, dream.Date},
		"result", dream.DreamID,
		"error", err,
	)

	if err != nil {
		return fmt.Errorf("save dream: %w", err)
	}
	return nil
}

// Update applies patch to the dream and returns the new row, or nil if the
// dream does not exist for userID. Making the dream private drops its share id.
func (r *DreamWriteRepository) Update(ctx context.Context, userID, dreamID uuid.UUID, patch models.DreamPatch, now time.Time) (*models.DreamDB, error) {
	query := `
		UPDATE dreams SET
			title       = COALESCE($3::TEXT, title),
			description = COALESCE($4::TEXT, description),
			dream_date  = COALESCE($5::VARCHAR, dream_date),
			tags        = COALESCE($6::JSONB, tags),
			themes      = COALESCE($7::JSONB, themes),
			is_lucid    = COALESCE($8::BOOLEAN, is_lucid),
			is_public   = COALESCE($9::BOOLEAN, is_public),
			share_id    = CASE WHEN $9::BOOLEAN IS FALSE THEN NULL ELSE share_id END,
			updated_at  = $10
		WHERE dream_id = $1 AND user_id = $2
		RETURNING ` + dreamColumns
	args := []any{
		dreamID, userID, patch.Title, patch.Description, patch.Date,
		listArg(patch.Tags), listArg(patch.Themes), patch.IsLucid, patch.IsPublic, now,
	}

	var dream models.DreamDB
	err := sqlx.GetContext(ctx, r.executor(ctx), &dream, query, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{dreamID, userID},
		"result", dream.DreamID,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update dream: %w", err)
	}
	return &dream, nil
}

// Delete removes the dream and reports whether a row was deleted.
func (r *DreamWriteRepository) Delete(ctx context.Context, userID, dreamID uuid.UUID) (bool, error) {
	const query = `DELETE FROM dreams WHERE dream_id = $1 AND user_id = $2`
	return r.exec(ctx, "delete dream", query, dreamID, userID)
}

// SetInsight stores the AI insight text on the dream.
func (r *DreamWriteRepository) SetInsight(ctx context.Context, userID, dreamID uuid.UUID, insight string, now time.Time) (bool, error) {
	const query = `
		UPDATE dreams SET ai_insight = $3, updated_at = $4
		WHERE dream_id = $1 AND user_id = $2
	`
	return r.exec(ctx, "set insight", query, dreamID, userID, insight, now)
}

// SetShare sets or clears the share id and public flag of the dream.
func (r *DreamWriteRepository) SetShare(ctx context.Context, userID, dreamID uuid.UUID, shareID *string, isPublic bool, now time.Time) (bool, error) {
	const query = `
		UPDATE dreams SET share_id = $3, is_public = $4, updated_at = $5
		WHERE dream_id = $1 AND user_id = $2
	`
	return r.exec(ctx, "set share", query, dreamID, userID, shareID, isPublic, now)
}

func (r *DreamWriteRepository) exec(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := r.executor(ctx).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", args[:2],
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected > 0, nil
}

// listArg converts an optional list to a JSONB parameter; nil leaves the column unchanged.
func listArg(l *[]string) any {
	if l == nil {
		return nil
	}
	return models.StringList(*l)
}
