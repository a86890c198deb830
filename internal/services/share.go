package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

const (
	shareIDLength      = 8
	DefaultPublicLimit = 20
	MaxPublicLimit     = 50
)

var ErrShareNotFound = errors.New("shared dream not found")

func newShareID() string {
	return uuid.NewString()[:shareIDLength]
}

// Share makes the dream public and returns its share id. An existing share id is reused.
func (s *DreamService) Share(ctx context.Context, userID uuid.UUID, id string) (string, error) {
	dream, err := s.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}

	shareID := newShareID()
	if dream.ShareID != nil && *dream.ShareID != "" {
		shareID = *dream.ShareID
	}

	ok, err := s.writer.SetShare(ctx, userID, dream.DreamID, &shareID, true, timeNow().UTC())
	if err != nil {
		logger.Log.Errorw("failed to share dream", "dream_id", dream.DreamID, "error", err)
		return "", err
	}
	if !ok {
		return "", ErrDreamNotFound
	}

	s.events.Publish(ctx, models.EventDreamShared, userID, dream.DreamID)
	return shareID, nil
}

// Unshare clears the share id and public flag.
func (s *DreamService) Unshare(ctx context.Context, userID uuid.UUID, id string) error {
	dreamID, err := parseDreamID(id)
	if err != nil {
		return err
	}

	ok, err := s.writer.SetShare(ctx, userID, dreamID, nil, false, timeNow().UTC())
	if err != nil {
		logger.Log.Errorw("failed to unshare dream", "dream_id", dreamID, "error", err)
		return err
	}
	if !ok {
		return ErrDreamNotFound
	}

	s.events.Publish(ctx, models.EventDreamUnshared, userID, dreamID)
	return nil
}

// GetShared returns a public dream by share id.
func (s *DreamService) GetShared(ctx context.Context, shareID string) (*models.PublicDreamDB, error) {
	if len(shareID) == 0 {
		return nil, ErrShareNotFound
	}

	dream, err := s.reader.GetByShareID(ctx, shareID)
	if err != nil {
		logger.Log.Errorw("failed to get shared dream", "share_id", shareID, "error", err)
		return nil, err
	}
	if dream == nil {
		return nil, ErrShareNotFound
	}
	return dream, nil
}

// ListPublic returns the newest public dreams. limit is clamped to [1, MaxPublicLimit];
// non-positive values select DefaultPublicLimit.
func (s *DreamService) ListPublic(ctx context.Context, limit int) ([]*models.PublicDreamDB, error) {
	if limit <= 0 {
		limit = DefaultPublicLimit
	}
	if limit > MaxPublicLimit {
		limit = MaxPublicLimit
	}

	dreams, err := s.reader.ListPublic(ctx, limit)
	if err != nil {
		logger.Log.Errorw("failed to list public dreams", "error", err)
		return nil, err
	}
	return dreams, nil
}
