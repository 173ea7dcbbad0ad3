package dto

import (
	"varibulk/internal/domain/documents/sales_order"
	"varibulk/internal/domain/production"
)

// --- Sales Order ---

// EnsureVariantsRequest carries the rows of a sales order being saved.
type EnsureVariantsRequest struct {
	Items []sales_order.Item `json:"items" binding:"required"`
}

// EnsureVariantsResponse returns the rows with item codes filled in.
type EnsureVariantsResponse struct {
	Items []sales_order.Item `json:"items"`
}

// SalesOrderResolveRequest resolves one sales order row.
// AttributeValue is used when Values is empty.
type SalesOrderResolveRequest struct {
	TemplateItem   string   `json:"templateItem" binding:"required"`
	AttributeValue string   `json:"attributeValue"`
	Values         []string `json:"values"`
}

// PositionalValues returns the selected values in template order.
func (r SalesOrderResolveRequest) PositionalValues() []string {
	if len(r.Values) > 0 {
		return r.Values
	}
	return []string{r.AttributeValue}
}

// --- Production hooks ---

// VoucherSubmitResponse reports how many ledger entries were updated.
type VoucherSubmitResponse struct {
	Voucher       string                 `json:"voucher"`
	VoucherType   production.VoucherType `json:"voucherType"`
	LedgerEntries int64                  `json:"ledgerEntries"`
}
