package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// DreamLister lists the caller's dreams.
type DreamLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*models.DreamDB, error)
}

// DreamCreator stores a new dream.
type DreamCreator interface {
	Create(ctx context.Context, userID uuid.UUID, in services.DreamInput) (*models.DreamDB, error)
}

// DreamGetter loads one dream of the caller.
type DreamGetter interface {
	Get(ctx context.Context, userID uuid.UUID, id string) (*models.DreamDB, error)
}

// DreamUpdater applies a partial update.
type DreamUpdater interface {
	Update(ctx context.Context, userID uuid.UUID, id string, patch models.DreamPatch) (*models.DreamDB, error)
}

// DreamDeleter removes a dream.
type DreamDeleter interface {
	Delete(ctx context.Context, userID uuid.UUID, id string) error
}

// CalendarGetter groups a month of dreams by date.
type CalendarGetter interface {
	Calendar(ctx context.Context, userID uuid.UUID, year, month int) (map[string][]services.CalendarEntry, error)
}

// DreamCreateRequest represents the JSON body for a new dream
// swagger:model DreamCreateRequest
type DreamCreateRequest struct {
	// required: true
	// default: Flying over the city
	Title       string `json:"title"`
	Description string `json:"description"`
	// YYYY-MM-DD, today (UTC) when empty
	Date     string   `json:"date"`
	Tags     []string `json:"tags"`
	Themes   []string `json:"themes"`
	IsLucid  bool     `json:"is_lucid"`
	IsPublic bool     `json:"is_public"`
}

// DreamUpdateRequest represents a partial update; omitted fields are unchanged
// swagger:model DreamUpdateRequest
type DreamUpdateRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Date        *string   `json:"date"`
	Tags        *[]string `json:"tags"`
	Themes      *[]string `json:"themes"`
	IsLucid     *bool     `json:"is_lucid"`
	IsPublic    *bool     `json:"is_public"`
}

// CalendarResponse maps dates to the dreams logged on them
// swagger:model CalendarResponse
type CalendarResponse struct {
	DreamsByDate map[string][]services.CalendarEntry `json:"dreams_by_date"`
}

// NewListDreamsHandler returns the caller's dreams, newest date first.
// @Summary List dreams
// @Tags dreams
// @Produce json
// @Success 200 {array} models.DreamDB
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams [get]
// @Security BearerAuth
func NewListDreamsHandler(svc DreamLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		dreams, err := svc.List(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if dreams == nil {
			dreams = []*models.DreamDB{}
		}

		writeJSON(w, http.StatusOK, dreams)
	}
}

// NewCreateDreamHandler stores a new dream.
// @Summary Create dream
// @Tags dreams
// @Accept json
// @Produce json
// @Param dream body handlers.DreamCreateRequest true "Dream"
// @Success 200 {object} models.DreamDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams [post]
// @Security BearerAuth
func NewCreateDreamHandler(svc DreamCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req DreamCreateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dream, err := svc.Create(r.Context(), userID, services.DreamInput{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Tags:        req.Tags,
			Themes:      req.Themes,
			IsLucid:     req.IsLucid,
			IsPublic:    req.IsPublic,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dream)
	}
}

// NewGetDreamHandler returns one dream.
// @Summary Get dream
// @Tags dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} models.DreamDB
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id} [get]
// @Security BearerAuth
func NewGetDreamHandler(svc DreamGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		dream, err := svc.Get(r.Context(), userID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dream)
	}
}

// NewUpdateDreamHandler applies a partial update.
// @Summary Update dream
// @Tags dreams
// @Accept json
// @Produce json
// @Param id path string true "Dream ID"
// @Param dream body handlers.DreamUpdateRequest true "Fields to change"
// @Success 200 {object} models.DreamDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id} [put]
// @Security BearerAuth
func NewUpdateDreamHandler(svc DreamUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req DreamUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		dream, err := svc.Update(r.Context(), userID, chi.URLParam(r, "id"), models.DreamPatch{
			Title:       req.Title,
			Description: req.Description,
			Date:        req.Date,
			Tags:        req.Tags,
			Themes:      req.Themes,
			IsLucid:     req.IsLucid,
			IsPublic:    req.IsPublic,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, dream)
	}
}

// NewDeleteDreamHandler deletes a dream.
// @Summary Delete dream
// @Tags dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} handlers.MessageResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Dream not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/{id} [delete]
// @Security BearerAuth
func NewDeleteDreamHandler(svc DreamDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Dream deleted"})
	}
}

// NewCalendarHandler returns a month of dreams grouped by date.
// @Summary Dream calendar
// @Tags dreams
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} handlers.CalendarResponse
// @Failure 400 {object} handlers.ErrorResponse "Invalid year or month"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dreams/calendar/{year}/{month} [get]
// @Security BearerAuth
func NewCalendarHandler(svc CalendarGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		year, errY := strconv.Atoi(chi.URLParam(r, "year"))
		month, errM := strconv.Atoi(chi.URLParam(r, "month"))
		if errY != nil || errM != nil {
			writeServiceError(w, services.ErrInvalidMonth)
			return
		}

		byDate, err := svc.Calendar(r.Context(), userID, year, month)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CalendarResponse{DreamsByDate: byDate})
	}
}
