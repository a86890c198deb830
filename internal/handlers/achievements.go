package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/achievements"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// AchievementLister evaluates the achievement catalog.
type AchievementLister interface {
	List(ctx context.Context, userID uuid.UUID) (*services.AchievementsResult, error)
}

// AchievementChecker reports unlocks since the previous check.
type AchievementChecker interface {
	Check(ctx context.Context, userID uuid.UUID) (*services.AchievementCheckResult, error)
}

// AchievementResponse is one evaluated achievement
// swagger:model AchievementResponse
type AchievementResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
}

// AchievementsResponse is the full catalog
// swagger:model AchievementsResponse
type AchievementsResponse struct {
	Achievements      []AchievementResponse `json:"achievements"`
	TotalUnlocked     int                   `json:"total_unlocked"`
	TotalAchievements int                   `json:"total_achievements"`
}

// AchievementCheckResponse lists unlocks not reported before
// swagger:model AchievementCheckResponse
type AchievementCheckResponse struct {
	NewlyUnlocked     []AchievementResponse `json:"newly_unlocked"`
	TotalUnlocked     int                   `json:"total_unlocked"`
	TotalAchievements int                   `json:"total_achievements"`
}

func toAchievementResponses(statuses []achievements.Status) []AchievementResponse {
	out := make([]AchievementResponse, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, AchievementResponse{
			ID:          st.ID,
			Name:        st.Name,
			Description: st.Description,
			Icon:        st.Icon,
			Category:    st.Category,
			Unlocked:    st.Unlocked,
			UnlockedAt:  st.UnlockedAt,
			Progress:    st.Progress,
			Target:      st.Target,
		})
	}
	return out
}

// NewAchievementsHandler returns every achievement with progress.
// @Summary Achievements
// @Tags achievements
// @Produce json
// @Success 200 {object} handlers.AchievementsResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /achievements [get]
// @Security BearerAuth
func NewAchievementsHandler(svc AchievementLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		res, err := svc.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AchievementsResponse{
			Achievements:      toAchievementResponses(res.Achievements),
			TotalUnlocked:     res.TotalUnlocked,
			TotalAchievements: res.TotalAchievements,
		})
	}
}

// NewAchievementsCheckHandler returns achievements unlocked since the last check.
// @Summary Check new achievements
// @Tags achievements
// @Produce json
// @Success 200 {object} handlers.AchievementCheckResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /achievements/check [get]
// @Security BearerAuth
func NewAchievementsCheckHandler(svc AchievementChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		res, err := svc.Check(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AchievementCheckResponse{
			NewlyUnlocked:     toAchievementResponses(res.NewlyUnlocked),
			TotalUnlocked:     res.TotalUnlocked,
			TotalAchievements: res.TotalAchievements,
		})
	}
}
