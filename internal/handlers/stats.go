package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/patterns"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// StatsGetter computes journal statistics.
type StatsGetter interface {
	Stats(ctx context.Context, userID uuid.UUID) (*services.Stats, error)
}

// PatternAnalyzer runs the pattern analysis.
type PatternAnalyzer interface {
	Analyze(ctx context.Context, userID uuid.UUID) (*patterns.Analysis, error)
}

// NewStatsHandler returns counts, streaks and top labels.
// @Summary Journal statistics
// @Tags insights
// @Produce json
// @Success 200 {object} services.Stats
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /stats [get]
// @Security BearerAuth
func NewStatsHandler(svc StatsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		stats, err := svc.Stats(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// NewPatternsHandler returns recurring symbols, themes, tags and words.
// @Summary Pattern analysis
// @Tags insights
// @Produce json
// @Success 200 {object} patterns.Analysis
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /analysis/patterns [get]
// @Security BearerAuth
func NewPatternsHandler(svc PatternAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		analysis, err := svc.Analyze(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, analysis)
	}
}
