package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table flattens the work order summary for export.
func (r *WorkOrderSummary) Table() Table {
	t := Table{
		Title: "Work Order Summary",
		Columns: []Column{
			{"work_order", "Work Order", 18}, {"department", "Department", 16}, {"status", "Status", 12},
			{"production_item", "Production Item", 22}, {"item_name", "Item Name", 24},
			{"qty", "Qty to Manufacture", 12}, {"total_pcs", "Total Pieces", 12},
			{"produced_qty", "Produced Qty", 12}, {"total_pcs_produced", "Produced Pieces", 12},
			{"qty_variance", "Qty Variance", 12}, {"pcs_variance", "Pcs Variance", 12},
			{"planned_start_date", "Planned Start Date", 14}, {"planned_end_date", "Planned End Date", 14},
			{"actual_start_date", "Actual Start Date", 14}, {"actual_end_date", "Actual End Date", 14},
			{"bom_no", "BOM", 18}, {"sales_order", "Sales Order", 16},
		},
	}
	for _, w := range r.Rows {
		t.Rows = append(t.Rows, []any{
			w.WorkOrder, str(w.Department), w.Status, w.ProductionItem, str(w.ItemName),
			num(w.Qty), nullNum(w.TotalPcs), num(w.ProducedQty), nullNum(w.TotalPcsProduced),
			num(w.QtyVariance), nullNum(w.PcsVariance),
			date(w.PlannedStartDate), date(w.PlannedEndDate), date(w.ActualStartDate), date(w.ActualEndDate),
			str(w.BOMNo), str(w.SalesOrder),
		})
	}
	return t
}

// Table flattens production analytics for export.
func (r *ProductionAnalytics) Table() Table {
	group := Column{"group", string(r.GroupBy), 22}
	cols := []Column{group}
	if r.GroupBy == GroupByProductionItem {
		cols = append(cols, Column{"item_name", "Item Name", 24})
	}
	cols = append(cols,
		Column{"total_work_orders", "Total Work Orders", 14},
		Column{"planned_qty", "Planned Qty", 12}, Column{"planned_pcs", "Planned Pieces", 12},
		Column{"produced_qty", "Produced Qty", 12}, Column{"produced_pcs", "Produced Pieces", 12},
		Column{"qty_variance", "Qty Variance", 12}, Column{"pcs_variance", "Pcs Variance", 12},
		Column{"efficiency", "Efficiency %", 10},
		Column{"completed_orders", "Completed Orders", 14},
		Column{"in_process_orders", "In Process Orders", 14},
		Column{"not_started_orders", "Not Started Orders", 14},
	)

	t := Table{Title: "Production Analytics", Columns: cols}
	for _, a := range r.Rows {
		row := []any{str(a.Group)}
		if r.GroupBy == GroupByProductionItem {
			row = append(row, str(a.ItemName))
		}
		row = append(row,
			a.TotalWorkOrders, num(a.PlannedQty), num(a.PlannedPcs), num(a.ProducedQty), num(a.ProducedPcs),
			num(a.QtyVariance), num(a.PcsVariance), num(a.Efficiency.Round(2)),
			a.CompletedOrders, a.InProcessOrders, a.NotStartedOrders,
		)
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Table flattens consumed materials for export.
func (r *ConsumedMaterials) Table() Table {
	t := Table{
		Title: "Consumed Materials",
		Columns: []Column{
			{"work_order", "Work Order", 18}, {"department", "Department", 16},
			{"production_item", "Production Item", 22}, {"item_code", "Item Code", 22},
			{"item_name", "Item Name", 24}, {"type", "Type", 10},
			{"required_qty", "Required Qty", 12}, {"consumed_qty", "Consumed Qty", 12},
			{"variance", "Variance", 12}, {"stock_uom", "UOM", 8},
		},
	}
	for _, m := range r.Rows {
		t.Rows = append(t.Rows, []any{
			m.WorkOrder, str(m.Department), m.ProductionItem, m.ItemCode, str(m.ItemName), string(m.Type),
			num(m.RequiredQty), num(m.ConsumedQty), num(m.Variance), str(m.StockUOM),
		})
	}
	return t
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nullNum(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func date(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.DateOnly)
}
