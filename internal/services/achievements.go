package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/achievements"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/streak"
)

// AchievementSeenStore remembers which unlocks were already reported.
type AchievementSeenStore interface {
	GetSeen(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	MarkSeen(ctx context.Context, userID uuid.UUID, ids []string) error
}

// AchievementsResult is the full catalog evaluated for a user.
type AchievementsResult struct {
	Achievements      []achievements.Status
	TotalUnlocked     int
	TotalAchievements int
}

// AchievementCheckResult lists unlocks not reported before.
type AchievementCheckResult struct {
	NewlyUnlocked     []achievements.Status
	TotalUnlocked     int
	TotalAchievements int
}

// AchievementService evaluates the achievement catalog.
type AchievementService struct {
	dreams   DreamReader
	settings SettingsStore
	seen     AchievementSeenStore
}

// NewAchievementService creates a new AchievementService.
func NewAchievementService(dreams DreamReader, settings SettingsStore, seen AchievementSeenStore) *AchievementService {
	return &AchievementService{dreams: dreams, settings: settings, seen: seen}
}

func (s *AchievementService) evaluate(ctx context.Context, userID uuid.UUID) ([]achievements.Status, error) {
	dreams, err := s.dreams.List(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to list dreams", "user_id", userID, "error", err)
		return nil, err
	}

	settings, err := loadSettings(ctx, s.settings, userID)
	if err != nil {
		return nil, err
	}

	now := timeNow().UTC()
	current := streak.Calculate(dreamDates(dreams), freezeOf(settings), now).Current
	return achievements.Evaluate(achievements.Summarize(dreams, current), now), nil
}

// List evaluates every achievement for the user.
func (s *AchievementService) List(ctx context.Context, userID uuid.UUID) (*AchievementsResult, error) {
	statuses, err := s.evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AchievementsResult{
		Achievements:      statuses,
		TotalUnlocked:     achievements.CountUnlocked(statuses),
		TotalAchievements: len(statuses),
	}, nil
}

// Check returns achievements unlocked since the previous check and marks them seen.
func (s *AchievementService) Check(ctx context.Context, userID uuid.UUID) (*AchievementCheckResult, error) {
	statuses, err := s.evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen, err := s.seen.GetSeen(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load seen achievements", "user_id", userID, "error", err)
		return nil, err
	}

	newly := []achievements.Status{}
	ids := []string{}
	for _, st := range statuses {
		if st.Unlocked && !seen[st.ID] {
			newly = append(newly, st)
			ids = append(ids, st.ID)
		}
	}

	if err := s.seen.MarkSeen(ctx, userID, ids); err != nil {
		logger.Log.Errorw("failed to mark achievements seen", "user_id", userID, "error", err)
		return nil, err
	}

	if len(ids) > 0 {
		logger.Log.Infow("achievements unlocked", "user_id", userID, "ids", ids)
	}

	return &AchievementCheckResult{
		NewlyUnlocked:     newly,
		TotalUnlocked:     achievements.CountUnlocked(statuses),
		TotalAchievements: len(statuses),
	}, nil
}
