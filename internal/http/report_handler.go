package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"tea-registry/internal/repository"
	"tea-registry/internal/service"

	"go.uber.org/zap"
)

// ReportHandler serves the reports pages and the dashboard counters.
type ReportHandler struct {
	reports *service.ReportService
	logger  *zap.Logger
}

func NewReportHandler(reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// reportFilters reads busca / data_inicio / data_fim query parameters.
func reportFilters(r *http.Request) repository.RegistrantFilters {
	filters := repository.RegistrantFilters{Search: r.URL.Query().Get("busca")}
	if from, err := time.Parse("2006-01-02", r.URL.Query().Get("data_inicio")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse("2006-01-02", r.URL.Query().Get("data_fim")); err == nil {
		// Inclusive upper bound: the whole end day.
		end := to.Add(24*time.Hour - time.Nanosecond)
		filters.To = &end
	}
	return filters
}

// Registrations serves GET /relatorios/cadastros.
func (h *ReportHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.RegistrantReport(r.Context(), reportFilters(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"registros": rows, "total": len(rows)})
}

// Visits serves GET /relatorios/consultas.
func (h *ReportHandler) Visits(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.VisitReport(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"consultas": rows, "total": len(rows)})
}

// Export serves GET /relatorios/export as a spreadsheet download.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.reports.ExportExcel(r.Context(), reportFilters(r))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	filename := fmt.Sprintf("relatorios-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Dashboard serves GET /dashboard.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
