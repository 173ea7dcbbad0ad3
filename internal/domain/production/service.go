package production

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/pkg/logger"
)

// Service propagates total pieces between documents.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new production service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// BeforeSaveWorkOrder copies total weight of the sales order row for the
// production item into the work order's total pieces. A missing sales order
// leaves the work order unchanged.
func (s *Service) BeforeSaveWorkOrder(ctx context.Context, wo *WorkOrder) error {
	if wo.SalesOrder == "" {
		return nil
	}

	items, err := s.repo.SalesOrderItems(ctx, wo.SalesOrder)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("load sales order %s: %w", wo.SalesOrder, err)
	}

	for _, it := range items {
		if it.ItemCode == wo.ProductionItem && !it.TotalWeight.IsZero() {
			wo.TotalPcs = decimal.NullDecimal{Decimal: it.TotalWeight, Valid: true}
			break
		}
	}
	return nil
}

// BeforeSaveStockEntry fills total pieces on stock entry rows from the linked
// work order: required items by item code, and the production item from the
// work order itself. Rows that already carry total pieces are kept.
func (s *Service) BeforeSaveStockEntry(ctx context.Context, se *StockEntry) error {
	if se.WorkOrder == "" {
		return nil
	}

	wo, err := s.repo.GetWorkOrder(ctx, se.WorkOrder)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("load work order %s: %w", se.WorkOrder, err)
	}

	pcs := make(map[string]decimal.Decimal, len(wo.RequiredItems)+1)
	for _, it := range wo.RequiredItems {
		if hasPcs(it.TotalPcs) {
			pcs[it.ItemCode] = it.TotalPcs.Decimal
		}
	}
	if hasPcs(wo.TotalPcs) {
		pcs[wo.ProductionItem] = wo.TotalPcs.Decimal
	}

	for i := range se.Items {
		row := &se.Items[i]
		if v, ok := pcs[row.ItemCode]; ok && !hasPcs(row.TotalPcs) {
			row.TotalPcs = decimal.NullDecimal{Decimal: v, Valid: true}
		}
	}
	return nil
}

// OnSubmitVoucher copies each row's total pieces onto the stock ledger
// entries the voucher posted. Returns the number of entries updated.
func (s *Service) OnSubmitVoucher(ctx context.Context, v *Voucher) (int64, error) {
	if !v.Type.IsValid() {
		return 0, apperror.NewValidation(fmt.Sprintf("voucher type %q does not post total pieces", v.Type)).
			WithDetail("voucherType", string(v.Type))
	}

	var updated int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, row := range v.Items {
			if !hasPcs(row.TotalPcs) {
				continue
			}
			n, err := s.repo.SetLedgerTotalPcs(ctx, LedgerMatch{
				VoucherType:     v.Type,
				VoucherNo:       v.Name,
				ItemCode:        row.ItemCode,
				VoucherDetailNo: row.Name,
			}, row.TotalPcs.Decimal)
			if err != nil {
				return fmt.Errorf("set ledger total pcs for %s row %s: %w", v.Name, row.Name, err)
			}
			updated += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Debug(ctx, "ledger total pcs updated", "voucher_type", v.Type, "voucher", v.Name, "entries", updated)
	return updated, nil
}
