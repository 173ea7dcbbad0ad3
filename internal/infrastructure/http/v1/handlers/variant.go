package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/http/v1/dto"
	"varibulk/internal/infrastructure/spreadsheet"
)

// VariantHandler handles bulk and single variant creation.
type VariantHandler struct {
	*BaseHandler
	service *variant.Service
	// maxUpload caps the size of an imported workbook in bytes
	maxUpload int64
}

// NewVariantHandler creates a new variant handler.
func NewVariantHandler(base *BaseHandler, service *variant.Service, maxUpload int64) *VariantHandler {
	return &VariantHandler{
		BaseHandler: base,
		service:     service,
		maxUpload:   maxUpload,
	}
}

// CreateBatch handles POST /variants/batch
func (h *VariantHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.CreateVariants(c.Request.Context(), req.ToBatch())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBatchResult(result))
}

// ImportBatch handles POST /variants/batch/import
// Multipart form: file (.xlsx), defaultTemplate (optional).
func (h *VariantHandler) ImportBatch(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.Error(c, apperror.NewValidation("file is required").WithDetail("error", err.Error()))
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		h.Error(c, apperror.NewValidation("only .xlsx workbooks are supported").
			WithDetail("filename", header.Filename))
		return
	}
	if h.maxUpload > 0 && header.Size > h.maxUpload {
		h.Error(c, apperror.NewValidation(fmt.Sprintf("file exceeds the %d byte limit", h.maxUpload)).
			WithDetail("size", header.Size))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.Error(c, apperror.NewInternal(fmt.Errorf("open upload: %w", err)))
		return
	}
	defer file.Close()

	im, err := spreadsheet.ParseBatch(file, c.PostForm("defaultTemplate"), h.service.MaxAttributes())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.CreateVariants(c.Request.Context(), im.Batch)
	if err != nil {
		h.Error(c, withSheetRows(err, im))
		return
	}

	resp := dto.FromBatchResult(result)
	resp.SheetRows = im.SheetRows
	h.OK(c, resp)
}

// Resolve handles POST /variants/resolve
func (h *VariantHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Materialize(c.Request.Context(), req.Template, req.ToSelections(), req.ToOverrides())
	if err != nil {
		h.Error(c, err)
		return
	}

	if result.Created {
		h.Created(c, dto.FromMaterializeResult(result))
		return
	}
	h.OK(c, dto.FromMaterializeResult(result))
}

// withSheetRows adds the workbook row mapping to a batch validation error so
// that row numbers in the message can be found in the sheet.
func withSheetRows(err error, im *spreadsheet.Import) error {
	if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeValidation {
		return appErr.WithDetail("sheetRows", im.SheetRows)
	}
	return err
}
