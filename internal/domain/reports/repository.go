package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// Work order reports
	GetWorkOrderSummary(ctx context.Context, filter WorkOrderSummaryFilter) ([]WorkOrderSummaryRow, error)
	GetProductionAnalytics(ctx context.Context, filter ProductionAnalyticsFilter) ([]ProductionAnalyticsRow, error)

	// Material lines of submitted work orders
	GetRequiredMaterials(ctx context.Context, filter ConsumedMaterialsFilter) ([]MaterialRow, error)
	GetConsumedMaterials(ctx context.Context, filter ConsumedMaterialsFilter) ([]MaterialRow, error)
	GetScrapMaterials(ctx context.Context, filter ConsumedMaterialsFilter) ([]MaterialRow, error)
}
