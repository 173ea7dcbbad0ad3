package variant

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
)

// Row is one requested variant in a batch.
type Row struct {
	// Template overrides the batch default
	Template string               `json:"template,omitempty"`
	Values   []string             `json:"values,omitempty"`
	Roles    map[item.Role]string `json:"roles,omitempty"`

	Overrides
}

// Selections returns the row's attribute choices. Roles and values may be mixed.
func (r Row) Selections() Selections {
	sel := Positional(r.Values...)
	if len(r.Roles) > 0 {
		sel.Roles = ByRole(r.Roles).Roles
	}
	return sel
}

// Batch is a bulk creation request.
type Batch struct {
	DefaultTemplate string `json:"defaultTemplate,omitempty"`
	Rows            []Row  `json:"rows"`
}

// TemplateFor returns the row's template, falling back to the batch default.
func (b Batch) TemplateFor(r Row) string {
	if t := strings.TrimSpace(r.Template); t != "" {
		return t
	}
	return strings.TrimSpace(b.DefaultTemplate)
}

// InvalidValue is one rejected value in a batch.
type InvalidValue struct {
	Row       int    `json:"row"`
	Value     string `json:"value"`
	Template  string `json:"template"`
	Attribute string `json:"attribute"`
}

func (v InvalidValue) String() string {
	return fmt.Sprintf("Row %d: %s (Template %s, Attribute %s)", v.Row, v.Value, v.Template, v.Attribute)
}

// ValidateRows checks every row before anything is created and returns the
// resolved context of every template the batch references, each resolved once.
// Problems are collected over all rows into one validation error with a line
// per class: missing template, missing value, value outside the template.
// A template that cannot be resolved aborts validation immediately.
func (s *Service) ValidateRows(ctx context.Context, batch Batch) (map[string]*TemplateContext, error) {
	if len(batch.Rows) == 0 {
		return nil, apperror.NewValidation("Add at least one variant row.")
	}

	contexts := make(map[string]*TemplateContext)
	var (
		missingTemplate  []int
		missingAttribute []string
		invalid          []InvalidValue
	)

	for i, row := range batch.Rows {
		n := i + 1
		template := batch.TemplateFor(row)
		if template == "" {
			missingTemplate = append(missingTemplate, n)
			continue
		}

		tc, ok := contexts[template]
		if !ok {
			var err error
			if tc, err = s.resolver.ResolveTemplate(ctx, template); err != nil {
				return nil, err
			}
			contexts[template] = tc
		}

		_, issues := Match(tc, StrategyFor(tc), row.Selections())
		for _, is := range issues {
			if is.Kind == IssueMissing {
				missingAttribute = append(missingAttribute, fmt.Sprintf("%d (%s)", n, is.Attribute))
				continue
			}
			invalid = append(invalid, InvalidValue{
				Row:       n,
				Value:     is.Value,
				Template:  template,
				Attribute: is.AttributeLabel(),
			})
		}
	}

	var lines []string
	if len(missingTemplate) > 0 {
		rows := make([]string, len(missingTemplate))
		for i, n := range missingTemplate {
			rows[i] = strconv.Itoa(n)
		}
		lines = append(lines, "Template Item is required in rows: "+strings.Join(rows, ", "))
	}
	if len(missingAttribute) > 0 {
		lines = append(lines, "Attribute Value is required in rows: "+strings.Join(missingAttribute, ", "))
	}
	if len(invalid) > 0 {
		parts := make([]string, len(invalid))
		for i, v := range invalid {
			parts[i] = v.String()
		}
		lines = append(lines, "Attribute values outside the template definition were provided: "+strings.Join(parts, ", "))
	}
	if len(lines) == 0 {
		return contexts, nil
	}

	err := apperror.NewValidation(strings.Join(lines, "\n"))
	if len(missingTemplate) > 0 {
		err = err.WithDetail("missingTemplateRows", missingTemplate)
	}
	if len(missingAttribute) > 0 {
		err = err.WithDetail("missingAttributeRows", missingAttribute)
	}
	if len(invalid) > 0 {
		err = err.WithDetail("invalidValues", invalid)
	}
	return nil, err
}
