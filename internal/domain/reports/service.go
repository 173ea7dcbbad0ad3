package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
)

// Chart colours for planned and produced series.
var chartColors = []string{"#7cd6fd", "#5e64ff"}

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetWorkOrderSummary lists non-cancelled work orders, newest planned start first.
func (s *Service) GetWorkOrderSummary(ctx context.Context, filter WorkOrderSummaryFilter) (*WorkOrderSummary, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetWorkOrderSummary(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get work order summary: %w", err)
	}
	return &WorkOrderSummary{Rows: rows}, nil
}

// GetProductionAnalytics groups work orders and charts planned against produced quantity.
func (s *Service) GetProductionAnalytics(ctx context.Context, filter ProductionAnalyticsFilter) (*ProductionAnalytics, error) {
	if filter.GroupBy == "" {
		filter.GroupBy = GroupByDepartment
	}
	if !filter.GroupBy.IsValid() {
		return nil, apperror.NewValidation(fmt.Sprintf("unsupported grouping %q", filter.GroupBy)).
			WithDetail("allowed", []GroupBy{GroupByDepartment, GroupByProductionItem, GroupByStatus})
	}
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetProductionAnalytics(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get production analytics: %w", err)
	}
	for i := range rows {
		rows[i].Efficiency = Efficiency(rows[i].PlannedQty, rows[i].ProducedQty)
	}

	return &ProductionAnalytics{
		GroupBy: filter.GroupBy,
		Rows:    rows,
		Chart:   buildChart(filter.GroupBy, rows),
	}, nil
}

// GetConsumedMaterials lists required, consumed and scrap lines of submitted
// work orders. Consumption of a required item is folded into its required
// line with variance = consumed - required; other consumption gets its own line.
func (s *Service) GetConsumedMaterials(ctx context.Context, filter ConsumedMaterialsFilter) (*ConsumedMaterials, error) {
	if err := validatePeriod(filter.FromDate, filter.ToDate); err != nil {
		return nil, err
	}

	required, err := s.repo.GetRequiredMaterials(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get required materials: %w", err)
	}
	consumed, err := s.repo.GetConsumedMaterials(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get consumed materials: %w", err)
	}
	scrap, err := s.repo.GetScrapMaterials(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("get scrap materials: %w", err)
	}

	return &ConsumedMaterials{Rows: mergeMaterials(required, consumed, scrap)}, nil
}

type materialKey struct {
	workOrder string
	itemCode  string
}

func mergeMaterials(required, consumed, scrap []MaterialRow) []MaterialRow {
	rows := make([]MaterialRow, 0, len(required)+len(consumed)+len(scrap))
	index := make(map[materialKey]int, len(required))

	for _, r := range required {
		r.Type = MaterialRequired
		index[materialKey{r.WorkOrder, r.ItemCode}] = len(rows)
		rows = append(rows, r)
	}
	for _, c := range consumed {
		if i, ok := index[materialKey{c.WorkOrder, c.ItemCode}]; ok {
			rows[i].ConsumedQty = c.ConsumedQty
			rows[i].Variance = c.ConsumedQty.Sub(rows[i].RequiredQty)
			continue
		}
		c.Type = MaterialConsumed
		rows = append(rows, c)
	}
	for _, sc := range scrap {
		sc.Type = MaterialScrap
		rows = append(rows, sc)
	}
	return rows
}

func buildChart(groupBy GroupBy, rows []ProductionAnalyticsRow) *Chart {
	if len(rows) == 0 {
		return nil
	}

	fallback := "Unknown"
	if groupBy == GroupByDepartment {
		fallback = "No Department"
	}

	chart := &Chart{
		Type:   "bar",
		Colors: chartColors,
		Datasets: []Dataset{
			{Name: "Planned Qty"},
			{Name: "Produced Qty"},
		},
	}
	for _, r := range rows {
		label := fallback
		if r.Group != nil && *r.Group != "" {
			label = *r.Group
		}
		chart.Labels = append(chart.Labels, label)
		chart.Datasets[0].Values = append(chart.Datasets[0].Values, r.PlannedQty)
		chart.Datasets[1].Values = append(chart.Datasets[1].Values, r.ProducedQty)
	}
	return chart
}

func validatePeriod(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return apperror.NewValidation("fromDate must be before toDate").
			WithDetail("fromDate", from.Format(time.DateOnly)).
			WithDetail("toDate", to.Format(time.DateOnly))
	}
	return nil
}

// Efficiency returns produced as a percentage of planned, or zero when nothing was planned.
func Efficiency(planned, produced decimal.Decimal) decimal.Decimal {
	if planned.Sign() <= 0 {
		return decimal.Zero
	}
	return produced.Div(planned).Mul(decimal.NewFromInt(100))
}
