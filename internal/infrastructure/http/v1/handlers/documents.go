package handlers

import (
	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/documents/sales_order"
	"varibulk/internal/domain/documents/stock_reconciliation"
	"varibulk/internal/infrastructure/http/v1/dto"
)

// DocumentsHandler resolves variants for host document forms.
type DocumentsHandler struct {
	*BaseHandler
	salesOrders     *sales_order.Service
	reconciliations *stock_reconciliation.Service
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(base *BaseHandler, salesOrders *sales_order.Service, reconciliations *stock_reconciliation.Service) *DocumentsHandler {
	return &DocumentsHandler{
		BaseHandler:     base,
		salesOrders:     salesOrders,
		reconciliations: reconciliations,
	}
}

// EnsureSalesOrderVariants handles POST /documents/sales-orders/ensure-variants
func (h *DocumentsHandler) EnsureSalesOrderVariants(c *gin.Context) {
	var req dto.EnsureVariantsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	items, err := h.salesOrders.EnsureVariants(c.Request.Context(), req.Items)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.EnsureVariantsResponse{Items: items})
}

// ResolveSalesOrderVariant handles POST /documents/sales-orders/resolve-variant
func (h *DocumentsHandler) ResolveSalesOrderVariant(c *gin.Context) {
	var req dto.SalesOrderResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resolved, err := h.salesOrders.ResolveVariant(c.Request.Context(), req.TemplateItem, req.PositionalValues())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resolved)
}

// ResolveStockReconciliationVariant handles POST /documents/stock-reconciliations/resolve-variant
func (h *DocumentsHandler) ResolveStockReconciliationVariant(c *gin.Context) {
	var req stock_reconciliation.ResolveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resolved, err := h.reconciliations.ResolveVariant(c.Request.Context(), req)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, resolved)
}
