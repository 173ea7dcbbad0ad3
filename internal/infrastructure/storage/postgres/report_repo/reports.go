// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"varibulk/internal/domain/reports"
	"varibulk/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// GetWorkOrderSummary implements reports.Repository.
func (r *ReportRepo) GetWorkOrderSummary(ctx context.Context, filter reports.WorkOrderSummaryFilter) ([]reports.WorkOrderSummaryRow, error) {
	var rows []reports.WorkOrderSummaryRow
	if err := r.selectInto(ctx, &rows, workOrderSummaryQuery(filter)); err != nil {
		return nil, fmt.Errorf("work order summary: %w", err)
	}
	return rows, nil
}

// GetProductionAnalytics implements reports.Repository.
func (r *ReportRepo) GetProductionAnalytics(ctx context.Context, filter reports.ProductionAnalyticsFilter) ([]reports.ProductionAnalyticsRow, error) {
	var rows []reports.ProductionAnalyticsRow
	if err := r.selectInto(ctx, &rows, productionAnalyticsQuery(filter)); err != nil {
		return nil, fmt.Errorf("production analytics: %w", err)
	}
	return rows, nil
}

// GetRequiredMaterials implements reports.Repository.
func (r *ReportRepo) GetRequiredMaterials(ctx context.Context, filter reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	var rows []reports.MaterialRow
	if err := r.selectInto(ctx, &rows, requiredMaterialsQuery(filter)); err != nil {
		return nil, fmt.Errorf("required materials: %w", err)
	}
	return rows, nil
}

// GetConsumedMaterials implements reports.Repository.
func (r *ReportRepo) GetConsumedMaterials(ctx context.Context, filter reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	var rows []reports.MaterialRow
	if err := r.selectInto(ctx, &rows, consumedMaterialsQuery(filter)); err != nil {
		return nil, fmt.Errorf("consumed materials: %w", err)
	}
	return rows, nil
}

// GetScrapMaterials implements reports.Repository.
func (r *ReportRepo) GetScrapMaterials(ctx context.Context, filter reports.ConsumedMaterialsFilter) ([]reports.MaterialRow, error) {
	var rows []reports.MaterialRow
	if err := r.selectInto(ctx, &rows, scrapMaterialsQuery(filter)); err != nil {
		return nil, fmt.Errorf("scrap materials: %w", err)
	}
	return rows, nil
}

func (r *ReportRepo) selectInto(ctx context.Context, dst any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return pgxscan.Select(ctx, r.txm.GetQuerier(ctx), dst, sql, args...)
}

// --- Work Order Summary ---

func workOrderSummaryQuery(f reports.WorkOrderSummaryFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"wo.name AS work_order",
			"NULLIF(wo.department, '') AS department",
			"wo.status",
			"wo.production_item",
			"item.item_name",
			"wo.qty",
			"wo.total_pcs",
			"wo.produced_qty",
			"wo.total_pcs_produced",
			"wo.qty - wo.produced_qty AS qty_variance",
			"wo.total_pcs - COALESCE(wo.total_pcs_produced, 0) AS pcs_variance",
			"wo.planned_start_date",
			"wo.planned_end_date",
			"wo.actual_start_date",
			"wo.actual_end_date",
			"wo.bom_no",
			"NULLIF(wo.sales_order, '') AS sales_order",
		).
		From("doc_work_orders wo").
		LeftJoin("cat_items item ON item.name = wo.production_item").
		Where("wo.docstatus < 2").
		OrderBy("wo.planned_start_date DESC", "wo.created_at DESC")

	q = plannedStartConditions(q, f.Company, f.Department, f.ProductionItem, f.FromDate, f.ToDate)
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"wo.status": f.Status})
	}
	return q
}

// --- Production Analytics ---

// groupColumn maps a grouping to its SQL expression. Unknown groupings fall
// back to department; the service rejects them before they get here.
func groupColumn(g reports.GroupBy) string {
	switch g {
	case reports.GroupByProductionItem:
		return "wo.production_item"
	case reports.GroupByStatus:
		return "wo.status"
	default:
		return "NULLIF(wo.department, '')"
	}
}

func productionAnalyticsQuery(f reports.ProductionAnalyticsFilter) squirrel.SelectBuilder {
	group := groupColumn(f.GroupBy)

	itemName := "NULL::text AS item_name"
	groupBy := []string{group}
	if f.GroupBy == reports.GroupByProductionItem {
		itemName = "item.item_name"
		groupBy = append(groupBy, "item.item_name")
	}

	q := postgres.Builder().
		Select(
			group+" AS group_key",
			itemName,
			"COUNT(*) AS total_work_orders",
			"COALESCE(SUM(wo.qty), 0) AS planned_qty",
			"COALESCE(SUM(COALESCE(wo.total_pcs, 0)), 0) AS planned_pcs",
			"COALESCE(SUM(wo.produced_qty), 0) AS produced_qty",
			"COALESCE(SUM(COALESCE(wo.total_pcs_produced, 0)), 0) AS produced_pcs",
			"COALESCE(SUM(wo.qty - wo.produced_qty), 0) AS qty_variance",
			"COALESCE(SUM(COALESCE(wo.total_pcs, 0) - COALESCE(wo.total_pcs_produced, 0)), 0) AS pcs_variance",
			"COUNT(*) FILTER (WHERE wo.status = 'Completed') AS completed_orders",
			"COUNT(*) FILTER (WHERE wo.status = 'In Process') AS in_process_orders",
			"COUNT(*) FILTER (WHERE wo.status = 'Not Started') AS not_started_orders",
		).
		From("doc_work_orders wo").
		LeftJoin("cat_items item ON item.name = wo.production_item").
		Where("wo.docstatus < 2").
		GroupBy(groupBy...).
		OrderBy("planned_qty DESC")

	return plannedStartConditions(q, f.Company, f.Department, f.ProductionItem, f.FromDate, f.ToDate)
}

// --- Consumed Materials with Scrap ---

func requiredMaterialsQuery(f reports.ConsumedMaterialsFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"wo.name AS work_order",
			"NULLIF(wo.department, '') AS department",
			"wo.production_item",
			"woi.item_code",
			"woi.item_name",
			"'Required' AS type",
			"woi.required_qty",
			"0 AS consumed_qty",
			"0 AS variance",
			"woi.stock_uom",
		).
		From("doc_work_orders wo").
		Join("doc_work_order_items woi ON woi.work_order = wo.name").
		Where("wo.docstatus = 1").
		OrderBy("wo.name", "woi.idx")
	return creationConditions(q, f)
}

func consumedMaterialsQuery(f reports.ConsumedMaterialsFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"se.work_order",
			"NULLIF(wo.department, '') AS department",
			"wo.production_item",
			"sed.item_code",
			"MAX(sed.item_name) AS item_name",
			"'Consumed' AS type",
			"0 AS required_qty",
			"SUM(sed.qty) AS consumed_qty",
			"0 AS variance",
			"MAX(sed.stock_uom) AS stock_uom",
		).
		From("doc_stock_entries se").
		Join("doc_stock_entry_details sed ON sed.stock_entry = se.name").
		Join("doc_work_orders wo ON wo.name = se.work_order").
		Where("se.docstatus = 1").
		Where(squirrel.Eq{"se.purpose": "Manufacture"}).
		Where("sed.s_warehouse IS NOT NULL").
		GroupBy("se.work_order", "wo.department", "wo.production_item", "sed.item_code").
		OrderBy("se.work_order", "sed.item_code")
	return creationConditions(q, f)
}

func scrapMaterialsQuery(f reports.ConsumedMaterialsFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(
			"wo.name AS work_order",
			"NULLIF(wo.department, '') AS department",
			"wo.production_item",
			"wos.item_code",
			"wos.item_name",
			"'Scrap' AS type",
			"0 AS required_qty",
			"wos.stock_qty AS consumed_qty",
			"0 AS variance",
			"wos.stock_uom",
		).
		From("doc_work_orders wo").
		Join("doc_work_order_scrap_items wos ON wos.work_order = wo.name").
		Where("wo.docstatus = 1").
		OrderBy("wo.name", "wos.idx")
	return creationConditions(q, f)
}

// --- Filters ---

func plannedStartConditions(
	q squirrel.SelectBuilder,
	company, department, productionItem string,
	from, to *time.Time,
) squirrel.SelectBuilder {
	if company != "" {
		q = q.Where(squirrel.Eq{"wo.company": company})
	}
	if from != nil {
		q = q.Where(squirrel.GtOrEq{"wo.planned_start_date": *from})
	}
	if to != nil {
		q = q.Where(squirrel.LtOrEq{"wo.planned_start_date": *to})
	}
	if department != "" {
		q = q.Where(squirrel.Eq{"wo.department": department})
	}
	if productionItem != "" {
		q = q.Where(squirrel.Eq{"wo.production_item": productionItem})
	}
	return q
}

func creationConditions(q squirrel.SelectBuilder, f reports.ConsumedMaterialsFilter) squirrel.SelectBuilder {
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"wo.created_at": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"wo.created_at": *f.ToDate})
	}
	if f.Company != "" {
		q = q.Where(squirrel.Eq{"wo.company": f.Company})
	}
	if f.WorkOrder != "" {
		q = q.Where(squirrel.Eq{"wo.name": f.WorkOrder})
	}
	if f.Department != "" {
		q = q.Where(squirrel.Eq{"wo.department": f.Department})
	}
	return q
}
