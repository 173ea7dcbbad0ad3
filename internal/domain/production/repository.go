package production

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository reads linked documents and writes ledger total pieces.
type Repository interface {
	// SalesOrderItems returns the rows of a sales order in row order.
	// Returns apperror NotFound when the order does not exist.
	SalesOrderItems(ctx context.Context, salesOrder string) ([]SalesOrderItem, error)

	// GetWorkOrder loads a work order with its required items.
	// Returns apperror NotFound when the work order does not exist.
	GetWorkOrder(ctx context.Context, name string) (*WorkOrder, error)

	// SetLedgerTotalPcs sets total_pcs on matching stock ledger entries
	// without touching their modified timestamp. Returns the number updated.
	SetLedgerTotalPcs(ctx context.Context, match LedgerMatch, totalPcs decimal.Decimal) (int64, error)
}
