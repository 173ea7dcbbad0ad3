// Package stock_reconciliation resolves sticker, powder code and length
// selections on Stock Reconciliation rows to variants.
package stock_reconciliation

import (
	"context"

	"varibulk/internal/domain/catalogs/item"
)

// VariantResolver materialises a variant from role-keyed selections.
type VariantResolver interface {
	ResolveByRole(ctx context.Context, template, sticker, powderCode, length string) (*item.Item, error)
}

// ResolveRequest is the form input for one reconciliation row.
type ResolveRequest struct {
	TemplateItem string `json:"templateItem" binding:"required"`
	Sticker      string `json:"sticker"`
	PowderCode   string `json:"powderCode"`
	Length       string `json:"length"`
}

// ResolvedVariant is what the reconciliation form fills into a row.
type ResolvedVariant struct {
	ItemCode string `json:"itemCode"`
	ItemName string `json:"itemName"`
}

// Service runs Stock Reconciliation variant lookups.
type Service struct {
	variants VariantResolver
}

// NewService creates a new stock reconciliation service.
func NewService(variants VariantResolver) *Service {
	return &Service{variants: variants}
}

// ResolveVariant creates or finds the variant for the row's selections.
func (s *Service) ResolveVariant(ctx context.Context, req ResolveRequest) (*ResolvedVariant, error) {
	v, err := s.variants.ResolveByRole(ctx, req.TemplateItem, req.Sticker, req.PowderCode, req.Length)
	if err != nil {
		return nil, err
	}
	return &ResolvedVariant{ItemCode: v.Name, ItemName: v.ItemName}, nil
}
