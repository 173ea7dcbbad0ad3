package item

import (
	"context"
	"fmt"
	"strings"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/internal/domain/catalogs/attribute"
)

// DefaultMaxAttributes is the largest number of attributes a template may declare.
const DefaultMaxAttributes = 3

// Service provides business logic for the Item catalog.
type Service struct {
	repo          Repository
	attributes    attribute.Repository
	txManager     tx.Manager
	maxAttributes int
}

// NewService creates a new item service. maxAttributes <= 0 selects DefaultMaxAttributes.
func NewService(repo Repository, attributes attribute.Repository, txManager tx.Manager, maxAttributes int) *Service {
	if maxAttributes <= 0 {
		maxAttributes = DefaultMaxAttributes
	}
	return &Service{
		repo:          repo,
		attributes:    attributes,
		txManager:     txManager,
		maxAttributes: maxAttributes,
	}
}

// Get returns an item by name.
func (s *Service) Get(ctx context.Context, name string) (*Item, error) {
	return s.repo.GetByName(ctx, strings.TrimSpace(name))
}

// Create validates and stores a new item. Templates get their attribute
// list and roles checked here, once, instead of on every variant request.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}
	if it.HasVariants {
		renumber(it.TemplateAttributes)
		if err := s.validateTemplate(ctx, it); err != nil {
			return err
		}
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.repo.Exists(ctx, it.Name)
		if err != nil {
			return fmt.Errorf("check item %s: %w", it.Name, err)
		}
		if exists {
			return apperror.NewDuplicate("item", "name", it.Name)
		}
		return s.repo.Create(ctx, it)
	})
}

// ConfigureTemplate replaces the ordered attribute list of a template,
// including the explicit role of each attribute.
func (s *Service) ConfigureTemplate(ctx context.Context, name string, attrs []TemplateAttribute) (*Item, error) {
	var result *Item

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		it, err := s.repo.GetByName(ctx, strings.TrimSpace(name))
		if err != nil {
			return err
		}
		if it.IsVariant() {
			return apperror.NewValidation(fmt.Sprintf("Item %s is a variant and cannot define attributes.", it.Name)).
				WithDetail("item", it.Name)
		}

		it.HasVariants = true
		it.TemplateAttributes = append([]TemplateAttribute(nil), attrs...)
		renumber(it.TemplateAttributes)

		if err := it.Validate(ctx); err != nil {
			return err
		}
		if err := s.validateTemplate(ctx, it); err != nil {
			return err
		}

		if err := s.repo.ReplaceTemplateAttributes(ctx, it); err != nil {
			return fmt.Errorf("replace attributes of %s: %w", it.Name, err)
		}
		it.Touch()
		if err := s.repo.Update(ctx, it); err != nil {
			return err
		}

		result = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) validateTemplate(ctx context.Context, it *Item) error {
	if len(it.TemplateAttributes) > s.maxAttributes {
		return apperror.NewValidation(fmt.Sprintf(
			"Template %s can define at most %d variant attributes.", it.Name, s.maxAttributes)).
			WithDetail("template", it.Name).
			WithDetail("max", s.maxAttributes)
	}

	found, err := s.attributes.ListByNames(ctx, it.AttributeNames())
	if err != nil {
		return fmt.Errorf("load attributes of %s: %w", it.Name, err)
	}
	for _, a := range it.TemplateAttributes {
		if _, ok := found[a.Attribute]; !ok {
			return apperror.NewValidation(fmt.Sprintf("Item Attribute %s does not exist.", a.Attribute)).
				WithDetail("template", it.Name).
				WithDetail("attribute", a.Attribute)
		}
	}

	return ValidateRoles(it.Name, it.TemplateAttributes)
}

func renumber(attrs []TemplateAttribute) {
	for i := range attrs {
		attrs[i].Idx = i + 1
		attrs[i].Attribute = strings.TrimSpace(attrs[i].Attribute)
	}
}
