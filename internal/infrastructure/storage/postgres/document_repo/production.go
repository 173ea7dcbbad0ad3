// Package document_repo provides PostgreSQL access to the production documents
// that carry total pieces.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/production"
	"varibulk/internal/infrastructure/storage/postgres"
)

const (
	salesOrderTable     = "doc_sales_orders"
	salesOrderItemTable = "doc_sales_order_items"
	workOrderTable      = "doc_work_orders"
	workOrderItemTable  = "doc_work_order_items"
	stockLedgerTable    = "stock_ledger_entries"
)

var _ production.Repository = (*ProductionRepo)(nil)

// ProductionRepo implements production.Repository.
type ProductionRepo struct {
	txm *postgres.TxManager
}

// NewProductionRepo creates a new production repository.
func NewProductionRepo(txm *postgres.TxManager) *ProductionRepo {
	return &ProductionRepo{txm: txm}
}

// SalesOrderItems implements production.Repository.
func (r *ProductionRepo) SalesOrderItems(ctx context.Context, salesOrder string) ([]production.SalesOrderItem, error) {
	querier := r.txm.GetQuerier(ctx)

	sql, args, err := postgres.Builder().
		Select("1").
		From(salesOrderTable).
		Where(squirrel.Eq{"name": salesOrder}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var found []int
	if err := pgxscan.Select(ctx, querier, &found, sql, args...); err != nil {
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	if len(found) == 0 {
		return nil, apperror.NewNotFound("sales order", salesOrder)
	}

	sql, args, err = salesOrderItemsQuery(salesOrder).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var items []production.SalesOrderItem
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales order items: %w", err)
	}
	return items, nil
}

// GetWorkOrder implements production.Repository.
func (r *ProductionRepo) GetWorkOrder(ctx context.Context, name string) (*production.WorkOrder, error) {
	querier := r.txm.GetQuerier(ctx)

	sql, args, err := postgres.Builder().
		Select(postgres.Columns[production.WorkOrder]()...).
		From(workOrderTable).
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var wo production.WorkOrder
	if err := pgxscan.Get(ctx, querier, &wo, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("work order", name)
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}

	sql, args, err = postgres.Builder().
		Select("item_code", "total_pcs").
		From(workOrderItemTable).
		Where(squirrel.Eq{"work_order": name}).
		OrderBy("idx").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &wo.RequiredItems, sql, args...); err != nil {
		return nil, fmt.Errorf("list required items: %w", err)
	}

	return &wo, nil
}

// SetLedgerTotalPcs implements production.Repository. The modified column is
// left as it was.
func (r *ProductionRepo) SetLedgerTotalPcs(ctx context.Context, match production.LedgerMatch, totalPcs decimal.Decimal) (int64, error) {
	sql, args, err := ledgerTotalPcsQuery(match, totalPcs).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("update ledger total pcs: %w", err)
	}
	return tag.RowsAffected(), nil
}

func salesOrderItemsQuery(salesOrder string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("item_code", "total_weight").
		From(salesOrderItemTable).
		Where(squirrel.Eq{"sales_order": salesOrder}).
		OrderBy("idx")
}

func ledgerTotalPcsQuery(match production.LedgerMatch, totalPcs decimal.Decimal) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(stockLedgerTable).
		Set("total_pcs", totalPcs).
		Where(squirrel.Eq{"voucher_type": string(match.VoucherType)}).
		Where(squirrel.Eq{"voucher_no": match.VoucherNo}).
		Where(squirrel.Eq{"item_code": match.ItemCode}).
		Where(squirrel.Eq{"voucher_detail_no": match.VoucherDetailNo})
}
