package handler

import (
	"net/http"
	"strconv"

	"go-healthcare-records/internal/usecase"
	"go-healthcare-records/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reportUsecase.Dashboard(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to build dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

// LowStockMedicines takes an optional ?threshold=N.
func (h *ReportHandler) LowStockMedicines(w http.ResponseWriter, r *http.Request) {
	threshold := -1
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid threshold", nil)
			return
		}
		threshold = n
	}

	report, err := h.reportUsecase.LowStockMedicines(r.Context(), threshold)
	if err != nil {
		response.InternalServerError(w, "Failed to get low stock medicines")
		return
	}

	response.Success(w, http.StatusOK, "Low stock medicines retrieved successfully", report)
}

func (h *ReportHandler) ExpiredMedicines(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportUsecase.ExpiredMedicines(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get expired medicines")
		return
	}

	response.Success(w, http.StatusOK, "Expired medicines retrieved successfully", report)
}
