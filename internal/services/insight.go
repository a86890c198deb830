package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/logger"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

// InsightGenerator produces interpretive text for a prompt.
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InsightService attaches AI interpretations to dreams.
type InsightService struct {
	dreams    *DreamService
	generator InsightGenerator
	timeout   time.Duration
}

// NewInsightService creates a new InsightService. A non-positive timeout
// leaves the request deadline unchanged.
func NewInsightService(dreams *DreamService, generator InsightGenerator, timeout time.Duration) *InsightService {
	return &InsightService{
		dreams:    dreams,
		generator: generator,
		timeout:   timeout,
	}
}

// BuildInsightPrompt renders the analysis prompt for a dream.
func BuildInsightPrompt(d *models.DreamDB) string {
	lucid := "No"
	if d.IsLucid {
		lucid = "Yes"
	}

	var b strings.Builder
	b.WriteString("Analyze this dream and provide meaningful insights:\n\n")
	fmt.Fprintf(&b, "Title: %s\n", d.Title)
	fmt.Fprintf(&b, "Description: %s\n", d.Description)
	fmt.Fprintf(&b, "Themes: %s\n", strings.Join(d.Themes, ", "))
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(d.Tags, ", "))
	fmt.Fprintf(&b, "Lucid Dream: %s\n\n", lucid)
	b.WriteString("Provide a thoughtful interpretation covering:\n")
	b.WriteString("1. Key symbols and their meanings\n")
	b.WriteString("2. Possible emotional connections\n")
	b.WriteString("3. What the dream might be telling the dreamer\n")
	b.WriteString("Keep your response concise (2-3 paragraphs).")
	return b.String()
}

// FallbackInsight is the text used when the generator fails.
func FallbackInsight(themes []string) string {
	subject := "these elements"
	if len(themes) > 0 {
		subject = strings.Join(themes, ", ")
	}
	return "Your dream featuring " + subject + " suggests a journey of self-discovery. " +
		"Dreams often reflect our subconscious processing of daily experiences and deeper emotions. " +
		"Consider what aspects of your waking life might connect to the imagery in this dream."
}

// Generate creates and stores an insight for the dream and returns it with the
// updated dream. Generator failures are logged and replaced by FallbackInsight.
func (s *InsightService) Generate(ctx context.Context, userID uuid.UUID, id string) (string, *models.DreamDB, error) {
	dream, err := s.dreams.Get(ctx, userID, id)
	if err != nil {
		return "", nil, err
	}

	insight := s.generate(ctx, dream)

	now := timeNow().UTC()
	ok, err := s.dreams.writer.SetInsight(ctx, userID, dream.DreamID, insight, now)
	if err != nil {
		logger.Log.Errorw("failed to store insight", "dream_id", dream.DreamID, "error", err)
		return "", nil, err
	}
	if !ok {
		return "", nil, ErrDreamNotFound
	}

	dream.AIInsight = &insight
	dream.UpdatedAt = now

	s.dreams.events.Publish(ctx, models.EventInsightAdded, userID, dream.DreamID)
	return insight, dream, nil
}

func (s *InsightService) generate(ctx context.Context, dream *models.DreamDB) string {
	if s.generator == nil {
		return FallbackInsight(dream.Themes)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.generator.Generate(ctx, BuildInsightPrompt(dream))
	if err != nil {
		logger.Log.Errorw("AI insight generation failed, using fallback", "dream_id", dream.DreamID, "error", err)
		return FallbackInsight(dream.Themes)
	}
	if strings.TrimSpace(text) == "" {
		logger.Log.Warnw("AI insight generation returned empty text, using fallback", "dream_id", dream.DreamID)
		return FallbackInsight(dream.Themes)
	}
	return text
}
