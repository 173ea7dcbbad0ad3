// Package variant resolves templates, binds attribute selections and
// materialises item variants, one at a time or as a batch.
package variant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
)

// AttributeSpec is one template attribute with its allowed values, in template order.
type AttributeSpec struct {
	Name    string            `json:"name"`
	Role    item.Role         `json:"role,omitempty"`
	Numeric bool              `json:"numeric"`
	Values  []attribute.Value `json:"values"`
}

// Lookup returns the allowed value equal to v.
func (a AttributeSpec) Lookup(v string) (attribute.Value, bool) {
	for _, allowed := range a.Values {
		if allowed.Value == v {
			return allowed, true
		}
	}
	return attribute.Value{}, false
}

// ValueLabels joins the allowed values for display.
func (a AttributeSpec) ValueLabels() string {
	values := make([]string, 0, len(a.Values))
	for _, v := range a.Values {
		if v.Value != "" {
			values = append(values, v.Value)
		}
	}
	return strings.Join(values, ", ")
}

// WeightConfig holds the per-meter weights a template carries for pieces-per-kg derivation.
type WeightConfig struct {
	PerMeterWithSticker decimal.Decimal `json:"weightPerMeterWithSticker"`
	PerMeterNoSticker   decimal.Decimal `json:"weightPerMeterNoSticker"`
}

// TemplateContext is a validated, variant-capable template.
type TemplateContext struct {
	Template   string          `json:"template"`
	Label      string          `json:"templateLabel"`
	Attributes []AttributeSpec `json:"attributes"`
	Weight     WeightConfig    `json:"weight"`

	// Item is the template record, used to copy shared fields into new variants
	Item *item.Item `json:"-"`
}

// AttributeNames returns attribute names in template order.
func (tc *TemplateContext) AttributeNames() []string {
	names := make([]string, 0, len(tc.Attributes))
	for _, a := range tc.Attributes {
		names = append(names, a.Name)
	}
	return names
}

// RoleBased reports whether any attribute of the template carries a role.
func (tc *TemplateContext) RoleBased() bool {
	for _, a := range tc.Attributes {
		if a.Role != item.RoleNone {
			return true
		}
	}
	return false
}

// Resolver loads templates and checks they can produce variants.
type Resolver struct {
	items         item.Repository
	attributes    attribute.Repository
	maxAttributes int
}

// NewResolver creates a resolver. maxAttributes <= 0 selects item.DefaultMaxAttributes.
func NewResolver(items item.Repository, attributes attribute.Repository, maxAttributes int) *Resolver {
	if maxAttributes <= 0 {
		maxAttributes = item.DefaultMaxAttributes
	}
	return &Resolver{items: items, attributes: attributes, maxAttributes: maxAttributes}
}

// MaxAttributes returns the attribute limit enforced per template.
func (r *Resolver) MaxAttributes() int {
	return r.maxAttributes
}

// ResolveTemplate loads the template and its attribute value sets.
// Every failure is a configuration error naming the template or attribute.
func (r *Resolver) ResolveTemplate(ctx context.Context, name string) (*TemplateContext, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewConfiguration("Template Item is required.")
	}

	tmpl, err := r.items.GetByName(ctx, name)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, notVariantCapable(name)
		}
		return nil, fmt.Errorf("load template %s: %w", name, err)
	}
	if !tmpl.HasVariants {
		return nil, notVariantCapable(tmpl.Name)
	}

	defs := make([]item.TemplateAttribute, 0, len(tmpl.TemplateAttributes))
	for _, a := range tmpl.TemplateAttributes {
		if strings.TrimSpace(a.Attribute) != "" {
			defs = append(defs, a)
		}
	}
	sort.SliceStable(defs, func(i, j int) bool { return defs[i].Idx < defs[j].Idx })
	if len(defs) == 0 {
		return nil, apperror.NewConfiguration(fmt.Sprintf(
			"Template %s must define at least one variant attribute.", tmpl.Name)).
			WithDetail("template", tmpl.Name)
	}
	if len(defs) > r.maxAttributes {
		return nil, apperror.NewConfiguration(fmt.Sprintf(
			"Template %s has more than %d attributes. Up to %d attributes per template are supported.",
			tmpl.Name, r.maxAttributes, r.maxAttributes)).
			WithDetail("template", tmpl.Name).
			WithDetail("max", r.maxAttributes)
	}
	if err := item.ValidateRoles(tmpl.Name, defs); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(defs))
	for _, a := range defs {
		names = append(names, a.Attribute)
	}
	attrs, err := r.attributes.ListByNames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("load attributes of %s: %w", tmpl.Name, err)
	}

	tc := &TemplateContext{
		Template: tmpl.Name,
		Label:    tmpl.Label(),
		Weight: WeightConfig{
			PerMeterWithSticker: tmpl.WeightPerMeterWithSticker,
			PerMeterNoSticker:   tmpl.WeightPerMeterNoSticker,
		},
		Item: tmpl,
	}
	for _, def := range defs {
		attr, ok := attrs[def.Attribute]
		if !ok || (!attr.NumericValues && len(attr.Values) == 0) {
			return nil, apperror.NewConfiguration(fmt.Sprintf(
				"Item Attribute %s does not have any values configured.", def.Attribute)).
				WithDetail("template", tmpl.Name).
				WithDetail("attribute", def.Attribute)
		}
		values := append([]attribute.Value(nil), attr.Values...)
		sort.SliceStable(values, func(i, j int) bool { return values[i].Idx < values[j].Idx })

		tc.Attributes = append(tc.Attributes, AttributeSpec{
			Name:    def.Attribute,
			Role:    def.EffectiveRole(),
			Numeric: attr.NumericValues,
			Values:  values,
		})
	}

	return tc, nil
}

func notVariantCapable(template string) error {
	return apperror.NewConfiguration(fmt.Sprintf(
		"Template %s is not configured to create variants.", template)).
		WithDetail("template", template)
}
