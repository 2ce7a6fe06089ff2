package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/billing-reports/internal/http/middleware"
	"github.com/nurpe/billing-reports/internal/model"
	"github.com/nurpe/billing-reports/internal/report"
	"github.com/nurpe/billing-reports/internal/service"
)

type Handler struct {
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(reports *service.ReportService, log zerolog.Logger) *Handler {
	return &Handler{reports: reports, log: log}
}

func (h *Handler) Register(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/healthz", h.health)

	protected := router.Group("/reports")
	protected.Use(authMiddleware)
	protected.GET("/bills", h.listBills)
	protected.GET("/overview", h.overview)
	protected.GET("/summaries/:kind", h.summary)
	protected.POST("/statement", h.statement)
	protected.GET("/audit", h.auditLog)
	protected.GET("/export/csv", h.exportCSV)
	protected.GET("/export/:kind", h.exportDocument)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listBills(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	list, err := h.reports.Bills(c.Request.Context(), principal, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) overview(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	overview, err := h.reports.Overview(c.Request.Context(), principal, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bill_count":  overview.BillCount,
		"contractors": overview.Contractors,
		"contracts":   overview.Contracts,
		"stations":    overview.Stations,
		"monthly":     overview.Monthly,
		"deductions":  overview.Deductions,
		"tax_ledger":  overview.TaxLedger,
	})
}

func (h *Handler) summary(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	kind, ok := model.ParseReportKind(c.Param("kind"))
	if !ok || kind == model.ReportKindStatement || kind == model.ReportKindAudit {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report"})
		return
	}
	result, err := h.reports.Summary(c.Request.Context(), principal, kind, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": result.Kind(), "data": result})
}

type statementRequest struct {
	ContractorID string `json:"contractor_id" binding:"required"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func (h *Handler) statement(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return
	}

	var req statementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contractorID, err := parseContractor(req.ContractorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contractor_id"})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	snapshot, err := h.reports.Statement(c.Request.Context(), principal, model.FilterState{
		ContractorID: contractorID,
		StartDate:    start,
		EndDate:      end,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *Handler) auditLog(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	log, err := h.reports.AuditLog(c.Request.Context(), principal, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

func (h *Handler) exportCSV(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	result, err := h.reports.ExportCSV(c.Request.Context(), principal, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

func (h *Handler) exportDocument(c *gin.Context) {
	principal, state, ok := h.request(c)
	if !ok {
		return
	}
	kind, ok := model.ParseReportKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report"})
		return
	}
	format, err := parseFormat(c.DefaultQuery("format", string(service.ExportFormatPDF)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid format"})
		return
	}

	result, err := h.reports.ExportDocument(c.Request.Context(), principal, kind, format, state)
	if err != nil {
		h.handleError(c, err)
		return
	}
	sendFile(c, result)
}

// request resolves the principal and the filter query of a report call,
// writing the error response itself when either is missing or malformed.
func (h *Handler) request(c *gin.Context) (model.Principal, model.FilterState, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
		return model.Principal{}, model.FilterState{}, false
	}
	state, err := parseFilterState(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return model.Principal{}, model.FilterState{}, false
	}
	return principal, state, true
}

func sendFile(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, report.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("report request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseFilterState(c *gin.Context) (model.FilterState, error) {
	contractorID, err := parseContractor(c.Query("contractor_id"))
	if err != nil {
		return model.FilterState{}, errors.New("invalid contractor_id")
	}
	start, err := parseDate(c.Query("start"))
	if err != nil {
		return model.FilterState{}, errors.New("invalid start")
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		return model.FilterState{}, errors.New("invalid end")
	}
	return model.FilterState{
		ContractorID: contractorID,
		Route:        strings.TrimSpace(c.Query("route")),
		Search:       c.Query("q"),
		StartDate:    start,
		EndDate:      end,
		Action:       strings.TrimSpace(c.Query("action")),
	}, nil
}

func parseContractor(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, model.SelectorAll) {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

// parseDate accepts an empty bound or a date in any of the accepted layouts
// and returns it as YYYY-MM-DD.
func parseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	layouts := []string{
		model.DateLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format(model.DateLayout), nil
		}
	}
	return "", service.ErrInvalidInput
}

func parseFormat(raw string) (service.ExportFormat, error) {
	switch service.ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case service.ExportFormatXLSX:
		return service.ExportFormatXLSX, nil
	case service.ExportFormatPDF:
		return service.ExportFormatPDF, nil
	default:
		return "", service.ErrInvalidInput
	}
}
