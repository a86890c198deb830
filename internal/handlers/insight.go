package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

// InsightCreator generates and stores an AI insight for a dream.
type InsightCreator interface {
	Generate(ctx context.Context, userID uuid.UUID, id string) (string, *models.DreamDB, error)
}

// InsightResponse carries the generated text and the updated dream
// swagger:model InsightResponse
type InsightResponse struct {
	Insight string          `json:"insight"`
	Dream   *models.DreamDB `json:"dream"`
}

// NewInsightHandler generates an AI interpretation for a dream. When the
// model is unavailable a templated interpretation is stored instead.
// @Summary Generate dream insight
// @Tags dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} handlers.InsightResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id}/insight [post]
// @Security BearerAuth
func NewInsightHandler(svc InsightCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		insight, dream, err := svc.Generate(r.Context(), userID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, InsightResponse{Insight: insight, Dream: dream})
	}
}
