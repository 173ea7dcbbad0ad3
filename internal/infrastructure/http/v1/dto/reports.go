package dto

import (
	"varibulk/internal/domain/reports"
)

// --- Work Order Summary ---

// WorkOrderSummaryRequest represents request for the work order summary.
type WorkOrderSummaryRequest struct {
	PeriodQuery
	FormatQuery
	Company        string `form:"company"`
	Department     string `form:"department"`
	Status         string `form:"status"`
	ProductionItem string `form:"productionItem"`
}

// ToFilter converts the request to the domain filter.
func (r WorkOrderSummaryRequest) ToFilter() (reports.WorkOrderSummaryFilter, error) {
	from, to, err := r.Parse()
	if err != nil {
		return reports.WorkOrderSummaryFilter{}, err
	}
	return reports.WorkOrderSummaryFilter{
		Company:        r.Company,
		FromDate:       from,
		ToDate:         to,
		Department:     r.Department,
		Status:         r.Status,
		ProductionItem: r.ProductionItem,
	}, nil
}

// --- Production Analytics ---

// ProductionAnalyticsRequest represents request for production analytics.
type ProductionAnalyticsRequest struct {
	PeriodQuery
	FormatQuery
	Company        string `form:"company"`
	Department     string `form:"department"`
	ProductionItem string `form:"productionItem"`
	GroupBy        string `form:"groupBy"`
}

// ToFilter converts the request to the domain filter. An empty grouping means department.
func (r ProductionAnalyticsRequest) ToFilter() (reports.ProductionAnalyticsFilter, error) {
	from, to, err := r.Parse()
	if err != nil {
		return reports.ProductionAnalyticsFilter{}, err
	}

	return reports.ProductionAnalyticsFilter{
		Company:        r.Company,
		FromDate:       from,
		ToDate:         to,
		Department:     r.Department,
		ProductionItem: r.ProductionItem,
		GroupBy:        reports.GroupBy(r.GroupBy),
	}, nil
}

// --- Consumed Materials ---

// ConsumedMaterialsRequest represents request for the consumed materials report.
type ConsumedMaterialsRequest struct {
	PeriodQuery
	FormatQuery
	Company    string `form:"company"`
	WorkOrder  string `form:"workOrder"`
	Department string `form:"department"`
}

// ToFilter converts the request to the domain filter.
func (r ConsumedMaterialsRequest) ToFilter() (reports.ConsumedMaterialsFilter, error) {
	from, to, err := r.Parse()
	if err != nil {
		return reports.ConsumedMaterialsFilter{}, err
	}
	return reports.ConsumedMaterialsFilter{
		FromDate:   from,
		ToDate:     to,
		Company:    r.Company,
		WorkOrder:  r.WorkOrder,
		Department: r.Department,
	}, nil
}
