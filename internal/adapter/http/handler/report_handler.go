package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/usecase"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	GetMonthSummary(ctx context.Context, userID string, month, year int) (*usecase.MonthSummary, error)
}

// ReportHandler handles report HTTP requests.
type ReportHandler struct {
	reportUC ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC}
}

// MonthSummary returns the user's budget summary for a month.
func (h *ReportHandler) MonthSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	month := parseIntQuery(r, "month", 0)
	year := parseIntQuery(r, "year", 0)

	summary, err := h.reportUC.GetMonthSummary(r.Context(), user.ID, month, year)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
