package handlers

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/reports"
	"varibulk/internal/infrastructure/http/v1/dto"
	"varibulk/internal/infrastructure/spreadsheet"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

type tabular interface {
	Table() reports.Table
}

// respond writes the report as JSON, or as a workbook when format=xlsx.
func (h *ReportsHandler) respond(c *gin.Context, format dto.FormatQuery, name string, report tabular) {
	if !format.IsXLSX() {
		h.OK(c, report)
		return
	}
	filename := name + "-" + time.Now().Format("20060102") + ".xlsx"
	h.Workbook(c, filename, func(w io.Writer) error {
		return spreadsheet.WriteTable(w, report.Table())
	})
}

// GetWorkOrderSummary handles GET /reports/work-order-summary
func (h *ReportsHandler) GetWorkOrderSummary(c *gin.Context) {
	var req dto.WorkOrderSummaryRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetWorkOrderSummary(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, req.FormatQuery, "work-order-summary", report)
}

// GetProductionAnalytics handles GET /reports/production-analytics
func (h *ReportsHandler) GetProductionAnalytics(c *gin.Context) {
	var req dto.ProductionAnalyticsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetProductionAnalytics(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, req.FormatQuery, "production-analytics", report)
}

// GetConsumedMaterials handles GET /reports/consumed-materials
func (h *ReportsHandler) GetConsumedMaterials(c *gin.Context) {
	var req dto.ConsumedMaterialsRequest
	if !h.BindQuery(c, &req) {
		return
	}
	filter, err := req.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetConsumedMaterials(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.respond(c, req.FormatQuery, "consumed-materials", report)
}
