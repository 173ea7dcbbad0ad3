package variant

import (
	"context"
	"fmt"
	"strings"

	"varibulk/internal/domain/catalogs/item"
)

// StoreProvider looks variants up by (template, binding key) in the item store
// and builds new ones from the template without saving them.
type StoreProvider struct {
	items item.Repository
}

// NewStoreProvider creates a provider over the item repository.
func NewStoreProvider(items item.Repository) *StoreProvider {
	return &StoreProvider{items: items}
}

// FindVariant implements Provider.
func (p *StoreProvider) FindVariant(ctx context.Context, tc *TemplateContext, b Binding) (string, error) {
	return p.items.FindVariant(ctx, tc.Template, b.Key())
}

// CreateVariant implements Provider. The code is the template name followed by
// each value's abbreviation, e.g. PROFILE-WS-RAL9016-6.
func (p *StoreProvider) CreateVariant(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error) {
	if b.Len() == 0 {
		return nil, fmt.Errorf("template %s: empty binding", tc.Template)
	}

	labels := make([]string, 0, b.Len())
	for _, v := range b.values {
		labels = append(labels, v.Label())
	}
	suffix := strings.Join(labels, "-")

	v := item.NewItem(tc.Template+"-"+suffix, tc.Label+"-"+suffix)
	template := tc.Template
	key := b.Key()
	v.VariantOf = &template
	v.VariantKey = &key
	v.Description = variantDescription(tc, b)

	if tmpl := tc.Item; tmpl != nil {
		v.ItemGroup = tmpl.ItemGroup
		if tmpl.StockUOM != "" {
			v.StockUOM = tmpl.StockUOM
		}
		v.WeightPerMeterWithSticker = tmpl.WeightPerMeterWithSticker
		v.WeightPerMeterNoSticker = tmpl.WeightPerMeterNoSticker
	}

	for i, bv := range b.values {
		v.VariantAttributes = append(v.VariantAttributes, item.VariantAttribute{
			Idx:       i + 1,
			Attribute: bv.Attribute,
			Value:     bv.Value,
		})
	}

	return v, nil
}

func variantDescription(tc *TemplateContext, b Binding) string {
	var sb strings.Builder
	if tc.Item != nil && tc.Item.Description != "" {
		sb.WriteString(tc.Item.Description)
	} else {
		sb.WriteString(tc.Label)
	}
	for _, v := range b.values {
		sb.WriteString("\n")
		sb.WriteString(v.Attribute)
		sb.WriteString(": ")
		sb.WriteString(v.Value)
	}
	return sb.String()
}

var _ Provider = (*StoreProvider)(nil)
