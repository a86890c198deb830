package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/patterns"
)

// PatternService runs the pattern analyzer over a user's journal.
type PatternService struct {
	dreams DreamReader
}

// NewPatternService creates a new PatternService.
func NewPatternService(dreams DreamReader) *PatternService {
	return &PatternService{dreams: dreams}
}

// Analyze returns recurring symbols, themes, tags, words and activity.
func (s *PatternService) Analyze(ctx context.Context, userID uuid.UUID) (*patterns.Analysis, error) {
	dreams, err := s.dreams.List(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to list dreams", "user_id", userID, "error", err)
		return nil, err
	}

	analysis := patterns.Analyze(dreams)
	return &analysis, nil
}
