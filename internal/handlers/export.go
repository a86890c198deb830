package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dream-vault/internal/services"
)

// JournalExporter uploads the caller's journal.
type JournalExporter interface {
	Export(ctx context.Context, userID uuid.UUID) (*services.ExportResult, error)
}

// NewExportHandler uploads all of the caller's dreams as JSON and returns a
// short-lived download link.
// @Summary Export journal
// @Tags dreams
// @Produce json
// @Success 200 {object} services.ExportResult
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /export [post]
// @Security BearerAuth
func NewExportHandler(svc JournalExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := currentUser(w, r)
		if !ok {
			return
		}

		res, err := svc.Export(r.Context(), userID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, res)
	}
}
