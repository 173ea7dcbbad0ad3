package variant

import (
	"context"
	"fmt"
	"strings"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
)

// TemplateDetails describes a template for form helpers.
type TemplateDetails struct {
	Template       string            `json:"template"`
	TemplateLabel  string            `json:"templateLabel"`
	Strategy       string            `json:"strategy"`
	Attributes     []AttributeSpec   `json:"attributes"`
	AttributeNames string            `json:"attributeNames"`
	ValueLabels    map[string]string `json:"valueLabels"`
}

// TemplateDetails returns the attributes of a template with their allowed values.
func (s *Service) TemplateDetails(ctx context.Context, template string) (*TemplateDetails, error) {
	tc, err := s.resolver.ResolveTemplate(ctx, template)
	if err != nil {
		return nil, err
	}

	d := &TemplateDetails{
		Template:       tc.Template,
		TemplateLabel:  tc.Label,
		Strategy:       StrategyFor(tc).Name(),
		Attributes:     tc.Attributes,
		AttributeNames: strings.Join(tc.AttributeNames(), ", "),
		ValueLabels:    make(map[string]string, len(tc.Attributes)),
	}
	for _, a := range tc.Attributes {
		d.ValueLabels[a.Name] = a.ValueLabels()
	}
	return d, nil
}

// SearchAttributeValues serves autocompletion of attribute values.
func (s *Service) SearchAttributeValues(ctx context.Context, attr, text string, start, pageLen int) ([]attribute.Option, error) {
	return s.attributes.SearchValues(ctx, attr, text, start, pageLen)
}

// ResolveForSalesAttributes materialises a variant from positional values as
// entered on a sales order row. Every template attribute needs a value.
func (s *Service) ResolveForSalesAttributes(ctx context.Context, template string, values []string) (*item.Item, error) {
	tc, err := s.resolver.ResolveTemplate(ctx, template)
	if err != nil {
		return nil, err
	}

	var missing []string
	for i, a := range tc.Attributes {
		if i >= len(values) || strings.TrimSpace(values[i]) == "" {
			missing = append(missing, a.Name)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewValidation(fmt.Sprintf(
			"Attribute values are required for: %s", strings.Join(missing, ", "))).
			WithDetail("template", tc.Template).
			WithDetail("attributes", missing)
	}

	b, issues := Match(tc, PositionalStrategy{MaxArity: len(tc.Attributes)}, Positional(values...))
	if len(issues) > 0 {
		return nil, issueError(tc.Template, 0, issues[0])
	}

	res, err := s.materializer.Materialize(ctx, MaterializeRequest{Context: tc, Binding: b})
	if err != nil {
		return nil, err
	}
	return res.Item, nil
}
