package sales_order

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/variant"
	"varibulk/pkg/logger"
)

// VariantResolver materialises a variant from template selections.
type VariantResolver interface {
	Materialize(ctx context.Context, template string, sel variant.Selections, ov variant.Overrides) (*variant.MaterializeResult, error)
}

// Service runs Sales Order variant hooks.
type Service struct {
	variants VariantResolver
	sink     variant.ErrorSink
}

// NewService creates a new sales order service.
func NewService(variants VariantResolver, sink variant.ErrorSink) *Service {
	return &Service{variants: variants, sink: sink}
}

// EnsureVariants fills item code and display fields on every row that names
// a template and values. Rows without a template or values are left as is.
// The first row that cannot be resolved stops the save.
func (s *Service) EnsureVariants(ctx context.Context, items []Item) ([]Item, error) {
	out := make([]Item, len(items))
	copy(out, items)

	for i := range out {
		row := &out[i]
		template := strings.TrimSpace(row.TemplateItem)
		sel := row.Selections()
		if template == "" || sel.IsEmpty() {
			continue
		}

		res, err := s.variants.Materialize(ctx, template, sel, variant.Overrides{})
		if err != nil {
			if s.sink != nil {
				s.sink.LogError(ctx, variant.SinkTitleSalesOrder,
					fmt.Sprintf("row %d template %s values %q: %+v", i+1, template, row.SelectionLabel(), err))
			}
			logger.Warn(ctx, "sales order variant failed", "row", i+1, "template", template, "error", err)
			return nil, apperror.NewValidation(fmt.Sprintf(
				"Unable to create or locate variant for %s on template %s.", row.SelectionLabel(), template)).
				WithDetail("row", i+1).
				WithCause(err)
		}

		v := res.Item
		row.ItemCode = v.Name
		if v.ItemName != "" {
			row.ItemName = v.ItemName
		}
		if v.Description != "" {
			row.Description = v.Description
		}
		if v.StockUOM != "" {
			row.UOM = v.StockUOM
			row.StockUOM = v.StockUOM
		}
		if row.ConversionFactor.IsZero() {
			row.ConversionFactor = decimal.NewFromInt(1)
		}
	}

	return out, nil
}

// ResolveVariant returns the fields the order form needs for one selection.
func (s *Service) ResolveVariant(ctx context.Context, template string, values []string) (*ResolvedVariant, error) {
	res, err := s.variants.Materialize(ctx, template, variant.Positional(values...), variant.Overrides{})
	if err != nil {
		return nil, err
	}
	return &ResolvedVariant{
		ItemCode:         res.Item.Name,
		ItemName:         res.Item.ItemName,
		Description:      res.Item.Description,
		StockUOM:         res.Item.StockUOM,
		ConversionFactor: decimal.NewFromInt(1),
	}, nil
}
