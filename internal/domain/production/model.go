// Package production carries the "total pieces" quantity along the document
// chain: sales order → work order → stock entry → stock ledger.
package production

import (
	"github.com/shopspring/decimal"
)

// VoucherType names a stock transaction document that posts ledger entries.
type VoucherType string

const (
	VoucherStockEntry          VoucherType = "Stock Entry"
	VoucherDeliveryNote        VoucherType = "Delivery Note"
	VoucherStockReconciliation VoucherType = "Stock Reconciliation"
)

// IsValid reports whether the voucher type posts total pieces to the ledger.
func (v VoucherType) IsValid() bool {
	switch v {
	case VoucherStockEntry, VoucherDeliveryNote, VoucherStockReconciliation:
		return true
	}
	return false
}

// SalesOrderItem is the part of a sales order row this package reads.
type SalesOrderItem struct {
	ItemCode    string          `db:"item_code" json:"itemCode"`
	TotalWeight decimal.Decimal `db:"total_weight" json:"totalWeight"`
}

// WorkOrder is a work order being saved.
type WorkOrder struct {
	Name           string              `db:"name" json:"name"`
	SalesOrder     string              `db:"sales_order" json:"salesOrder,omitempty"`
	ProductionItem string              `db:"production_item" json:"productionItem"`
	TotalPcs       decimal.NullDecimal `db:"total_pcs" json:"totalPcs"`
	RequiredItems  []WorkOrderItem     `db:"-" json:"requiredItems,omitempty"`
}

// WorkOrderItem is a required material of a work order.
type WorkOrderItem struct {
	ItemCode string              `db:"item_code" json:"itemCode"`
	TotalPcs decimal.NullDecimal `db:"total_pcs" json:"totalPcs"`
}

// StockEntry is a stock entry being saved.
type StockEntry struct {
	Name      string             `json:"name"`
	WorkOrder string             `json:"workOrder,omitempty"`
	Items     []StockEntryDetail `json:"items"`
}

// StockEntryDetail is one stock entry row.
type StockEntryDetail struct {
	Name     string              `json:"name"`
	ItemCode string              `json:"itemCode"`
	TotalPcs decimal.NullDecimal `json:"totalPcs"`
}

// Voucher is a submitted stock transaction.
type Voucher struct {
	Type  VoucherType   `json:"voucherType" binding:"required"`
	Name  string        `json:"name" binding:"required"`
	Items []VoucherItem `json:"items"`
}

// VoucherItem is one row of a submitted voucher.
type VoucherItem struct {
	Name     string              `json:"name"`
	ItemCode string              `json:"itemCode"`
	TotalPcs decimal.NullDecimal `json:"totalPcs"`
}

// LedgerMatch selects the stock ledger entries posted for one voucher row.
type LedgerMatch struct {
	VoucherType     VoucherType
	VoucherNo       string
	ItemCode        string
	VoucherDetailNo string
}

func hasPcs(d decimal.NullDecimal) bool {
	return d.Valid && !d.Decimal.IsZero()
}
