package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/models"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// SettingsGetter loads user settings.
type SettingsGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.UserSettingsDB, error)
}

// SettingsUpdater changes reminder preferences.
type SettingsUpdater interface {
	Update(ctx context.Context, userID uuid.UUID, upd services.SettingsUpdate) (*models.UserSettingsDB, error)
}

// FreezeUser spends a streak freeze.
type FreezeUser interface {
	UseFreeze(ctx context.Context, userID uuid.UUID) (int, error)
}

// FreezeAdder grants a streak freeze.
type FreezeAdder interface {
	AddFreeze(ctx context.Context, userID uuid.UUID) (int, error)
}

// SettingsUpdateRequest changes reminder preferences; omitted fields are unchanged
// swagger:model SettingsUpdateRequest
type SettingsUpdateRequest struct {
	ReminderEnabled *bool `json:"reminder_enabled"`
	// HH:MM
	// default: 08:00
	ReminderTime *string `json:"reminder_time"`
}

// UseFreezeResponse reports the credits left
// swagger:model UseFreezeResponse
type UseFreezeResponse struct {
	Message          string `json:"message"`
	RemainingFreezes int    `json:"remaining_freezes"`
}

// AddFreezeResponse reports the new credit total
// swagger:model AddFreezeResponse
type AddFreezeResponse struct {
	Message      string `json:"message"`
	TotalFreezes int    `json:"total_freezes"`
}

// NewGetSettingsHandler returns the caller's settings.
// @Summary Get settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.UserSettingsDB
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /settings [get]
// @Security BearerAuth
func NewGetSettingsHandler(svc SettingsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		settings, err := svc.Get(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

// NewUpdateSettingsHandler updates reminder preferences.
// @Summary Update settings
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body handlers.SettingsUpdateRequest true "Settings"
// @Success 200 {object} models.UserSettingsDB
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /settings [put]
// @Security BearerAuth
func NewUpdateSettingsHandler(svc SettingsUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		var req SettingsUpdateRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		settings, err := svc.Update(r.Context(), userID, services.SettingsUpdate{
			ReminderEnabled: req.ReminderEnabled,
			ReminderTime:    req.ReminderTime,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settings)
	}
}

// NewUseFreezeHandler spends one streak freeze for today.
// @Summary Use streak freeze
// @Tags settings
// @Produce json
// @Success 200 {object} handlers.UseFreezeResponse
// @Failure 400 {object} handlers.ErrorResponse "No streak freezes available"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /settings/use-freeze [post]
// @Security BearerAuth
func NewUseFreezeHandler(svc FreezeUser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		remaining, err := svc.UseFreeze(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, UseFreezeResponse{
			Message:          "Streak freeze activated",
			RemainingFreezes: remaining,
		})
	}
}

// NewAddFreezeHandler grants one streak freeze.
// @Summary Add streak freeze
// @Tags settings
// @Produce json
// @Success 200 {object} handlers.AddFreezeResponse
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /settings/add-freeze [post]
// @Security BearerAuth
func NewAddFreezeHandler(svc FreezeAdder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		total, err := svc.AddFreeze(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AddFreezeResponse{
			Message:      "Streak freeze added",
			TotalFreezes: total,
		})
	}
}
