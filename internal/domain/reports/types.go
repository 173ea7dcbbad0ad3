// Package reports provides read-only production reports over work orders.
package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column describes one report column for tabular export.
type Column struct {
	Field string  `json:"field"`
	Label string  `json:"label"`
	Width float64 `json:"width,omitempty"`
}

// Table is a report flattened for export.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]any
}

// --- Work Order Summary ---

// WorkOrderSummaryFilter defines filter for the work order summary.
type WorkOrderSummaryFilter struct {
	Company        string
	FromDate       *time.Time // planned start, inclusive
	ToDate         *time.Time
	Department     string
	Status         string
	ProductionItem string
}

// WorkOrderSummaryRow is one work order with planned and produced figures.
type WorkOrderSummaryRow struct {
	WorkOrder        string              `db:"work_order" json:"workOrder"`
	Department       *string             `db:"department" json:"department"`
	Status           string              `db:"status" json:"status"`
	ProductionItem   string              `db:"production_item" json:"productionItem"`
	ItemName         *string             `db:"item_name" json:"itemName"`
	Qty              decimal.Decimal     `db:"qty" json:"qty"`
	TotalPcs         decimal.NullDecimal `db:"total_pcs" json:"totalPcs"`
	ProducedQty      decimal.Decimal     `db:"produced_qty" json:"producedQty"`
	TotalPcsProduced decimal.NullDecimal `db:"total_pcs_produced" json:"totalPcsProduced"`
	QtyVariance      decimal.Decimal     `db:"qty_variance" json:"qtyVariance"`
	PcsVariance      decimal.NullDecimal `db:"pcs_variance" json:"pcsVariance"`
	PlannedStartDate *time.Time          `db:"planned_start_date" json:"plannedStartDate"`
	PlannedEndDate   *time.Time          `db:"planned_end_date" json:"plannedEndDate"`
	ActualStartDate  *time.Time          `db:"actual_start_date" json:"actualStartDate"`
	ActualEndDate    *time.Time          `db:"actual_end_date" json:"actualEndDate"`
	BOMNo            *string             `db:"bom_no" json:"bomNo"`
	SalesOrder       *string             `db:"sales_order" json:"salesOrder"`
}

// WorkOrderSummary is the full work order summary report.
type WorkOrderSummary struct {
	Rows []WorkOrderSummaryRow `json:"rows"`
}

// --- Production Analytics ---

// GroupBy selects the grouping of the production analytics report.
type GroupBy string

const (
	GroupByDepartment     GroupBy = "Department"
	GroupByProductionItem GroupBy = "Production Item"
	GroupByStatus         GroupBy = "Status"
)

// IsValid checks if the grouping is supported.
func (g GroupBy) IsValid() bool {
	switch g {
	case GroupByDepartment, GroupByProductionItem, GroupByStatus:
		return true
	}
	return false
}

// ProductionAnalyticsFilter defines filter for production analytics.
type ProductionAnalyticsFilter struct {
	Company        string
	FromDate       *time.Time
	ToDate         *time.Time
	Department     string
	ProductionItem string
	GroupBy        GroupBy
}

// ProductionAnalyticsRow is one group of work orders.
type ProductionAnalyticsRow struct {
	// Group is the department, production item or status, depending on GroupBy
	Group            *string         `db:"group_key" json:"group"`
	ItemName         *string         `db:"item_name" json:"itemName,omitempty"`
	TotalWorkOrders  int64           `db:"total_work_orders" json:"totalWorkOrders"`
	PlannedQty       decimal.Decimal `db:"planned_qty" json:"plannedQty"`
	PlannedPcs       decimal.Decimal `db:"planned_pcs" json:"plannedPcs"`
	ProducedQty      decimal.Decimal `db:"produced_qty" json:"producedQty"`
	ProducedPcs      decimal.Decimal `db:"produced_pcs" json:"producedPcs"`
	QtyVariance      decimal.Decimal `db:"qty_variance" json:"qtyVariance"`
	PcsVariance      decimal.Decimal `db:"pcs_variance" json:"pcsVariance"`
	Efficiency       decimal.Decimal `db:"-" json:"efficiency"`
	CompletedOrders  int64           `db:"completed_orders" json:"completedOrders"`
	InProcessOrders  int64           `db:"in_process_orders" json:"inProcessOrders"`
	NotStartedOrders int64           `db:"not_started_orders" json:"notStartedOrders"`
}

// Dataset is one series of a chart.
type Dataset struct {
	Name   string            `json:"name"`
	Values []decimal.Decimal `json:"values"`
}

// Chart is a bar chart of planned against produced quantity per group.
type Chart struct {
	Type     string    `json:"type"`
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
	Colors   []string  `json:"colors"`
}

// ProductionAnalytics is the full production analytics report.
type ProductionAnalytics struct {
	GroupBy GroupBy                  `json:"groupBy"`
	Rows    []ProductionAnalyticsRow `json:"rows"`
	Chart   *Chart                   `json:"chart,omitempty"`
}

// --- Consumed Materials with Scrap ---

// MaterialType classifies a consumed materials row.
type MaterialType string

const (
	MaterialRequired MaterialType = "Required"
	MaterialConsumed MaterialType = "Consumed"
	MaterialScrap    MaterialType = "Scrap"
)

// ConsumedMaterialsFilter defines filter for the consumed materials report.
type ConsumedMaterialsFilter struct {
	FromDate   *time.Time // work order creation, inclusive
	ToDate     *time.Time
	Company    string
	WorkOrder  string
	Department string
}

// MaterialRow is a required, consumed or scrap line of a work order.
type MaterialRow struct {
	WorkOrder      string          `db:"work_order" json:"workOrder"`
	Department     *string         `db:"department" json:"department"`
	ProductionItem string          `db:"production_item" json:"productionItem"`
	ItemCode       string          `db:"item_code" json:"itemCode"`
	ItemName       *string         `db:"item_name" json:"itemName"`
	Type           MaterialType    `db:"type" json:"type"`
	RequiredQty    decimal.Decimal `db:"required_qty" json:"requiredQty"`
	ConsumedQty    decimal.Decimal `db:"consumed_qty" json:"consumedQty"`
	Variance       decimal.Decimal `db:"variance" json:"variance"`
	StockUOM       *string         `db:"stock_uom" json:"stockUom"`
}

// ConsumedMaterials is the full consumed materials report.
type ConsumedMaterials struct {
	Rows []MaterialRow `json:"rows"`
}
