package handlers

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/http/v1/dto"
	"varibulk/internal/infrastructure/spreadsheet"
)

// TemplateHandler serves template details and configuration.
type TemplateHandler struct {
	*BaseHandler
	variants *variant.Service
	items    *item.Service
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(base *BaseHandler, variants *variant.Service, items *item.Service) *TemplateHandler {
	return &TemplateHandler{
		BaseHandler: base,
		variants:    variants,
		items:       items,
	}
}

// Get handles GET /templates/:name
func (h *TemplateHandler) Get(c *gin.Context) {
	details, err := h.variants.TemplateDetails(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, details)
}

// ImportWorkbook handles GET /templates/:name/import-workbook
func (h *TemplateHandler) ImportWorkbook(c *gin.Context) {
	details, err := h.variants.TemplateDetails(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Workbook(c, fmt.Sprintf("%s-variants.xlsx", details.Template), func(w io.Writer) error {
		return spreadsheet.WriteBatchTemplate(w, details)
	})
}

// ConfigureAttributes handles PUT /templates/:name/attributes
func (h *TemplateHandler) ConfigureAttributes(c *gin.Context) {
	var req dto.ConfigureTemplateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attrs, err := req.ToTemplateAttributes()
	if err != nil {
		h.Error(c, err)
		return
	}

	it, err := h.items.ConfigureTemplate(c.Request.Context(), c.Param("name"), attrs)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromTemplate(it))
}
