package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/models"
)

// DreamSharer publishes a dream under a share id.
type DreamSharer interface {
	Share(ctx context.Context, userID uuid.UUID, id string) (string, error)
}

// DreamUnsharer withdraws a shared dream.
type DreamUnsharer interface {
	Unshare(ctx context.Context, userID uuid.UUID, id string) error
}

// SharedDreamGetter loads a public dream by share id.
type SharedDreamGetter interface {
	GetShared(ctx context.Context, shareID string) (*models.PublicDreamDB, error)
}

// PublicDreamLister lists the public feed.
type PublicDreamLister interface {
	ListPublic(ctx context.Context, limit int) ([]*models.PublicDreamDB, error)
}

// ShareResponse carries the share id and a link for the web client
// swagger:model ShareResponse
type ShareResponse struct {
	// default: 1a2b3c4d
	ShareID string `json:"share_id"`
	// default: http://localhost:8080/shared/1a2b3c4d
	ShareURL string `json:"share_url"`
}

// shareURL builds the client link from the request origin.
func shareURL(r *http.Request, shareID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/shared/" + shareID
}

// NewShareHandler makes a dream public.
// @Summary Share dream
// @Tags sharing
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} handlers.ShareResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id}/share [post]
// @Security BearerAuth
func NewShareHandler(svc DreamSharer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		shareID, err := svc.Share(r.Context(), userID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, ShareResponse{ShareID: shareID, ShareURL: shareURL(r, shareID)})
	}
}

// NewUnshareHandler makes a dream private again.
// @Summary Unshare dream
// @Tags sharing
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id}/unshare [post]
// @Security BearerAuth
func NewUnshareHandler(svc DreamUnsharer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := svc.Unshare(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Dream is now private"})
	}
}

// PublicDreamResponse is a shared dream as seen by anonymous readers
// swagger:model PublicDreamResponse
type PublicDreamResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	Tags        []string  `json:"tags"`
	Themes      []string  `json:"themes"`
	IsLucid     bool      `json:"is_lucid"`
	ShareID     *string   `json:"share_id"`
	AIInsight   *string   `json:"ai_insight"`
	CreatedAt   time.Time `json:"created_at"`
	// default: John
	AuthorName string `json:"author_name"`
}

func toPublicDreamResponse(d *models.PublicDreamDB) PublicDreamResponse {
	tags, themes := []string(d.Tags), []string(d.Themes)
	if tags == nil {
		tags = []string{}
	}
	if themes == nil {
		themes = []string{}
	}
	return PublicDreamResponse{
		ID:          d.DreamID,
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date,
		Tags:        tags,
		Themes:      themes,
		IsLucid:     d.IsLucid,
		ShareID:     d.ShareID,
		AIInsight:   d.AIInsight,
		CreatedAt:   d.CreatedAt,
		AuthorName:  d.AuthorName,
	}
}

// NewPublicDreamHandler returns a shared dream with its author's name.
// @Summary Shared dream
// @Tags public
// @Produce json
// @Param share_id path string true "Share ID"
// @Success 200 {object} handlers.PublicDreamResponse
// @Failure 404 {object} handlers.ErrorResponse "Shared dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /public/dream/{share_id} [get]
func NewPublicDreamHandler(svc SharedDreamGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dream, err := svc.GetShared(r.Context(), chi.URLParam(r, "share_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPublicDreamResponse(dream))
	}
}

// NewPublicDreamsHandler returns the newest public dreams.
// @Summary Public feed
// @Tags public
// @Produce json
// @Param limit query int false "Page size (default 20, max 50)"
// @Success 200 {array} handlers.PublicDreamResponse
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /public/dreams [get]
func NewPublicDreamsHandler(svc PublicDreamLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		dreams, err := svc.ListPublic(r.Context(), limit)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]PublicDreamResponse, 0, len(dreams))
		for _, d := range dreams {
			out = append(out, toPublicDreamResponse(d))
		}

		writeJSON(w, http.StatusOK, out)
	}
}
