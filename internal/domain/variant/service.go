package variant

import (
	"context"
	"strings"

	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
)

// Service is the entry point for variant resolution: single requests from
// documents, batches from the creation tool, and template tooling.
type Service struct {
	resolver     *Resolver
	materializer *Materializer
	attributes   *attribute.Service
	sink         ErrorSink
}

// NewService wires the variant service.
func NewService(resolver *Resolver, materializer *Materializer, attributes *attribute.Service, sink ErrorSink) *Service {
	return &Service{
		resolver:     resolver,
		materializer: materializer,
		attributes:   attributes,
		sink:         sink,
	}
}

// Sink returns the error sink used for row-scoped failures.
func (s *Service) Sink() ErrorSink {
	return s.sink
}

// Materialize resolves the template, binds the selections and returns the
// stored variant, creating it when needed.
func (s *Service) Materialize(ctx context.Context, template string, sel Selections, ov Overrides) (*MaterializeResult, error) {
	tc, err := s.resolver.ResolveTemplate(ctx, template)
	if err != nil {
		return nil, err
	}
	b, err := Bind(tc, sel)
	if err != nil {
		return nil, err
	}
	return s.materializer.Materialize(ctx, MaterializeRequest{Context: tc, Binding: b, Overrides: ov})
}

// MaxAttributes returns the attribute limit per template.
func (s *Service) MaxAttributes() int {
	return s.resolver.MaxAttributes()
}

// ResolveByRole materialises a variant from sticker, powder code and length.
// Blank roles are ignored.
func (s *Service) ResolveByRole(ctx context.Context, template, sticker, powderCode, length string) (*item.Item, error) {
	sel := ByRole(map[item.Role]string{
		item.RoleSticker:    sticker,
		item.RolePowderCode: powderCode,
		item.RoleLength:     strings.TrimSpace(length),
	})
	res, err := s.Materialize(ctx, template, sel, Overrides{})
	if err != nil {
		return nil, err
	}
	return res.Item, nil
}
