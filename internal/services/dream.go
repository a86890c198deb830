package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/streak"
)

var (
	ErrDreamNotFound = errors.New("dream not found")
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonth  = errors.New("invalid year or month")
)

// DreamReader defines read operations on dreams.
type DreamReader interface {
	Get(ctx context.Context, userID, dreamID uuid.UUID) (*models.DreamDB, error)
	List(ctx context.Context, filter models.DreamFilter) ([]*models.DreamDB, error)
	Count(ctx context.Context, filter models.DreamFilter) (int, error)
	GetByShareID(ctx context.Context, shareID string) (*models.PublicDreamDB, error)
	ListPublic(ctx context.Context, limit int) ([]*models.PublicDreamDB, error)
}

// DreamWriter defines write operations on dreams.
type DreamWriter interface {
	Save(ctx context.Context, dream *models.DreamDB) error
	Update(ctx context.Context, userID, dreamID uuid.UUID, patch models.DreamPatch, now time.Time) (*models.DreamDB, error)
	Delete(ctx context.Context, userID, dreamID uuid.UUID) (bool, error)
	SetInsight(ctx context.Context, userID, dreamID uuid.UUID, insight string, now time.Time) (bool, error)
	SetShare(ctx context.Context, userID, dreamID uuid.UUID, shareID *string, isPublic bool, now time.Time) (bool, error)
}

// DreamInput holds the fields of a new dream.
type DreamInput struct {
	Title       string
	Description string
	Date        string // empty means today (UTC)
	Tags        []string
	Themes      []string
	IsLucid     bool
	IsPublic    bool
}

// CalendarEntry is the compact dream view used by the calendar.
type CalendarEntry struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Themes  []string  `json:"themes"`
	IsLucid bool      `json:"is_lucid"`
}

// DreamService manages a user's journal.
type DreamService struct {
	reader DreamReader
	writer DreamWriter
	events EventPublisher
}

// NewDreamService creates a new DreamService.
func NewDreamService(reader DreamReader, writer DreamWriter, events EventPublisher) *DreamService {
	return &DreamService{
		reader: reader,
		writer: writer,
		events: events,
	}
}

// parseDreamID maps malformed ids to ErrDreamNotFound.
func parseDreamID(id string) (uuid.UUID, error) {
	dreamID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrDreamNotFound
	}
	return dreamID, nil
}

func validDate(date string) bool {
	_, err := time.Parse(streak.DateLayout, date)
	return err == nil
}

func nonNil(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}

// List returns all dreams of the user, newest date first.
func (s *DreamService) List(ctx context.Context, userID uuid.UUID) ([]*models.DreamDB, error) {
	dreams, err := s.reader.List(ctx, models.DreamFilter{UserID: userID})
	if err != nil {
		logger.Log.Errorw("failed to list dreams", "user_id", userID, "error", err)
		return nil, err
	}
	return dreams, nil
}

// Create validates and stores a new dream.
func (s *DreamService) Create(ctx context.Context, userID uuid.UUID, in DreamInput) (*models.DreamDB, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	date := in.Date
	if date == "" {
		date = today()
	} else if !validDate(date) {
		return nil, ErrInvalidDate
	}

	now := timeNow().UTC()
	dream := &models.DreamDB{
		DreamID:     uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Date:        date,
		Tags:        nonNil(in.Tags),
		Themes:      nonNil(in.Themes),
		IsLucid:     in.IsLucid,
		IsPublic:    in.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.writer.Save(ctx, dream); err != nil {
		logger.Log.Errorw("failed to save dream", "user_id", userID, "error", err)
		return nil, err
	}

	s.events.Publish(ctx, models.EventDreamCreated, userID, dream.DreamID)
	return dream, nil
}

// Get returns a single dream owned by the user.
func (s *DreamService) Get(ctx context.Context, userID uuid.UUID, id string) (*models.DreamDB, error) {
	dreamID, err := parseDreamID(id)
	if err != nil {
		return nil, err
	}

	dream, err := s.reader.Get(ctx, userID, dreamID)
	if err != nil {
		logger.Log.Errorw("failed to get dream", "dream_id", dreamID, "error", err)
		return nil, err
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}
	return dream, nil
}

// Update applies a partial update. Nil fields are left unchanged.
func (s *DreamService) Update(ctx context.Context, userID uuid.UUID, id string, patch models.DreamPatch) (*models.DreamDB, error) {
	dreamID, err := parseDreamID(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrEmptyTitle
		}
		patch.Title = &title
	}
	if patch.Date != nil && !validDate(*patch.Date) {
		return nil, ErrInvalidDate
	}

	dream, err := s.writer.Update(ctx, userID, dreamID, patch, timeNow().UTC())
	if err != nil {
		logger.Log.Errorw("failed to update dream", "dream_id", dreamID, "error", err)
		return nil, err
	}
	if dream == nil {
		return nil, ErrDreamNotFound
	}

	s.events.Publish(ctx, models.EventDreamUpdated, userID, dreamID)
	return dream, nil
}

// Delete removes a dream permanently.
func (s *DreamService) Delete(ctx context.Context, userID uuid.UUID, id string) error {
	dreamID, err := parseDreamID(id)
	if err != nil {
		return err
	}

	deleted, err := s.writer.Delete(ctx, userID, dreamID)
	if err != nil {
		logger.Log.Errorw("failed to delete dream", "dream_id", dreamID, "error", err)
		return err
	}
	if !deleted {
		return ErrDreamNotFound
	}

	s.events.Publish(ctx, models.EventDreamDeleted, userID, dreamID)
	return nil
}

// Calendar groups the user's dreams of one month by date.
func (s *DreamService) Calendar(ctx context.Context, userID uuid.UUID, year, month int) (map[string][]CalendarEntry, error) {
	if month < 1 || month > 12 || year < 1 || year > 9999 {
		return nil, ErrInvalidMonth
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	from := start.Format(streak.DateLayout)
	to := start.AddDate(0, 1, 0).Format(streak.DateLayout)

	dreams, err := s.reader.List(ctx, models.DreamFilter{UserID: userID, DateFrom: &from, DateTo: &to})
	if err != nil {
		logger.Log.Errorw("failed to list calendar dreams", "user_id", userID, "year", year, "month", month, "error", err)
		return nil, err
	}

	out := make(map[string][]CalendarEntry)
	for _, d := range dreams {
		out[d.Date] = append(out[d.Date], CalendarEntry{
			ID:      d.DreamID,
			Title:   d.Title,
			Themes:  nonNil(d.Themes),
			IsLucid: d.IsLucid,
		})
	}
	return out, nil
}
