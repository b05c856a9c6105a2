package handler

import (
	"net/http"
	"time"

	"github.com/dmoretti/loanbook-engine/internal/service"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/response"
	"github.com/dmoretti/loanbook-engine/pkg/utils"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetSummary returns the book metrics for a period. Defaults to the last 30
// days when no range is given.
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	end := utils.TruncateToDay(time.Now())
	start := end.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid from date, expected YYYY-MM-DD"))
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid to date, expected YYYY-MM-DD"))
			return
		}
		end = parsed
	}
	if end.Before(start) {
		response.FromError(w, customError.WrapValidation("to date must not precede from date"))
		return
	}

	metrics, err := h.service.GetMetrics(r.Context(), owner, start, end)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, metrics)
}

func (h *ReportHandler) GetDueSoon(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	alerts, err := h.service.GetDueSoon(r.Context(), owner)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, alerts)
}
