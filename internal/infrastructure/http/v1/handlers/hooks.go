package handlers

import (
	"github.com/gin-gonic/gin"

	"varibulk/internal/domain/production"
	"varibulk/internal/infrastructure/http/v1/dto"
)

// HooksHandler receives document lifecycle callbacks from the host system
// and carries total pieces along the production chain.
type HooksHandler struct {
	*BaseHandler
	service *production.Service
}

// NewHooksHandler creates a new hooks handler.
func NewHooksHandler(base *BaseHandler, service *production.Service) *HooksHandler {
	return &HooksHandler{BaseHandler: base, service: service}
}

// WorkOrderBeforeSave handles POST /hooks/work-orders/before-save
// Responds with the work order as it should be saved.
func (h *HooksHandler) WorkOrderBeforeSave(c *gin.Context) {
	var wo production.WorkOrder
	if !h.BindJSON(c, &wo) {
		return
	}

	if err := h.service.BeforeSaveWorkOrder(c.Request.Context(), &wo); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, wo)
}

// StockEntryBeforeSave handles POST /hooks/stock-entries/before-save
func (h *HooksHandler) StockEntryBeforeSave(c *gin.Context) {
	var se production.StockEntry
	if !h.BindJSON(c, &se) {
		return
	}

	if err := h.service.BeforeSaveStockEntry(c.Request.Context(), &se); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, se)
}

// VoucherSubmit handles POST /hooks/vouchers/on-submit
func (h *HooksHandler) VoucherSubmit(c *gin.Context) {
	var v production.Voucher
	if !h.BindJSON(c, &v) {
		return
	}

	n, err := h.service.OnSubmitVoucher(c.Request.Context(), &v)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.VoucherSubmitResponse{
		Voucher:       v.Name,
		VoucherType:   v.Type,
		LedgerEntries: n,
	})
}
