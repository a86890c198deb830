package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/patterns"
	"github.com/sbilibin2017/dream-vault/internal/streak"
)

const statsTopN = 5

// Stats summarises a user's journal.
type Stats struct {
	TotalDreams      int                  `json:"total_dreams"`
	WeeklyCount      int                  `json:"weekly_count"`
	ThisMonthCount   int                  `json:"this_month_count"`
	LucidCount       int                  `json:"lucid_count"`
	CurrentStreak    int                  `json:"current_streak"`
	LongestStreak    int                  `json:"longest_streak"`
	StreakFreezes    int                  `json:"streak_freezes"`
	TopThemes        []patterns.NameCount `json:"top_themes"`
	TopTags          []patterns.NameCount `json:"top_tags"`
	UniqueDreamDates int                  `json:"unique_dream_dates"`
}

// StatsService computes journal statistics.
type StatsService struct {
	dreams   DreamReader
	settings SettingsStore
}

// NewStatsService creates a new StatsService.
func NewStatsService(dreams DreamReader, settings SettingsStore) *StatsService {
	return &StatsService{dreams: dreams, settings: settings}
}

// loadSettings returns the stored settings or the defaults.
func loadSettings(ctx context.Context, store SettingsStore, userID uuid.UUID) (*models.UserSettingsDB, error) {
	settings, err := store.Get(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get settings", "user_id", userID, "error", err)
		return nil, err
	}
	if settings == nil {
		return models.DefaultUserSettings(userID), nil
	}
	return settings, nil
}

// freezeOf converts stored settings into calculator input.
func freezeOf(settings *models.UserSettingsDB) streak.Freeze {
	f := streak.Freeze{Used: settings.StreakFreezesUsed}
	if settings.LastFreezeDate != nil {
		f.LastUsed = *settings.LastFreezeDate
	}
	return f
}

func dreamDates(dreams []*models.DreamDB) []string {
	dates := make([]string, len(dreams))
	for i, d := range dreams {
		dates[i] = d.Date
	}
	return dates
}

// Stats returns counts, streaks and top labels for the user.
func (s *StatsService) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	now := timeNow().UTC()
	weekAgo := now.AddDate(0, 0, -7).Format(streak.DateLayout)
	monthStart := now.AddDate(0, 0, 1-now.Day()).Format(streak.DateLayout)
	lucid := true

	total, err := s.dreams.Count(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to count dreams", "user_id", userID, "error", err)
		return nil, err
	}
	weekly, err := s.dreams.Count(ctx, models.DreamFilter{UserID: userID, DateFrom: &weekAgo})
	if err != nil {
		logger.Log.Errorw("failed to count weekly dreams", "user_id", userID, "error", err)
		return nil, err
	}
	monthly, err := s.dreams.Count(ctx, models.DreamFilter{UserID: userID, DateFrom: &monthStart})
	if err != nil {
		logger.Log.Errorw("failed to count monthly dreams", "user_id", userID, "error", err)
		return nil, err
	}
	lucidCount, err := s.dreams.Count(ctx, models.DreamFilter{UserID: userID, IsLucid: &lucid})
	if err != nil {
		logger.Log.Errorw("failed to count lucid dreams", "user_id", userID, "error", err)
		return nil, err
	}

	dreams, err := s.dreams.List(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to list dreams", "user_id", userID, "error", err)
		return nil, err
	}

	settings, err := loadSettings(ctx, s.settings, userID)
	if err != nil {
		return nil, err
	}

	result := streak.Calculate(dreamDates(dreams), freezeOf(settings), now)

	themes := make(map[string]int)
	tags := make(map[string]int)
	dates := make(map[string]struct{})
	for _, d := range dreams {
		for _, th := range d.Themes {
			themes[th]++
		}
		for _, tg := range d.Tags {
			tags[tg]++
		}
		dates[d.Date] = struct{}{}
	}

	return &Stats{
		TotalDreams:      total,
		WeeklyCount:      weekly,
		ThisMonthCount:   monthly,
		LucidCount:       lucidCount,
		CurrentStreak:    result.Current,
		LongestStreak:    result.Longest,
		StreakFreezes:    settings.StreakFreezeCount,
		TopThemes:        patterns.TopNames(themes, statsTopN),
		TopTags:          patterns.TopNames(tags, statsTopN),
		UniqueDreamDates: len(dates),
	}, nil
}
