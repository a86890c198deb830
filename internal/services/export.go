package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

// ExportURLTTL is how long export download links stay valid.
const ExportURLTTL = 15 * time.Minute

// ArchiveStore uploads export files and signs download links.
type ArchiveStore interface {
	Upload(ctx context.Context, key, contentType string, body []byte) error
	DownloadURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// ExportResult points at an uploaded journal export.
type ExportResult struct {
	URL       string    `json:"url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type journalExport struct {
	UserID     uuid.UUID         `json:"user_id"`
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Dreams     []*models.DreamDB `json:"dreams"`
}

// ExportService writes a user's journal to object storage.
type ExportService struct {
	dreams  DreamReader
	archive ArchiveStore
}

// NewExportService creates a new ExportService.
func NewExportService(dreams DreamReader, archive ArchiveStore) *ExportService {
	return &ExportService{dreams: dreams, archive: archive}
}

// ExportKey returns the object key for an export created at now.
func ExportKey(userID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("users/%s/exports/%d-%s.json", userID, now.Unix(), uuid.NewString())
}

// Export uploads all dreams of the user as JSON and returns a presigned link.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) (*ExportResult, error) {
	dreams, err := s.dreams.List(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to list dreams for export", "user_id", userID, "error", err)
		return nil, err
	}

	now := timeNow().UTC()
	body, err := json.Marshal(journalExport{
		UserID:     userID,
		ExportedAt: now,
		Count:      len(dreams),
		Dreams:     dreams,
	})
	if err != nil {
		return nil, err
	}

	key := ExportKey(userID, now)
	if err := s.archive.Upload(ctx, key, "application/json", body); err != nil {
		logger.Log.Errorw("failed to upload export", "user_id", userID, "key", key, "error", err)
		return nil, err
	}

	url, err := s.archive.DownloadURL(ctx, key, ExportURLTTL)
	if err != nil {
		logger.Log.Errorw("failed to sign export url", "user_id", userID, "key", key, "error", err)
		return nil, err
	}

	logger.Log.Infow("journal exported", "user_id", userID, "key", key, "dreams", len(dreams))
	return &ExportResult{URL: url, Key: key, ExpiresAt: now.Add(ExportURLTTL)}, nil
}
