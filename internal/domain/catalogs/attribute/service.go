package attribute

import (
	"context"
	"fmt"
	"strings"

	"varibulk/internal/core/tx"
)

const (
	defaultPageLen = 20
	maxPageLen     = 200
)

// Option is an autocomplete entry: the stored value and the label shown next to it.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Service provides business logic for the Item Attribute catalog.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new attribute service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Get returns an attribute with its value set.
func (s *Service) Get(ctx context.Context, name string) (*Attribute, error) {
	return s.repo.GetByName(ctx, strings.TrimSpace(name))
}

// Create validates and stores a new attribute.
func (s *Service) Create(ctx context.Context, attr *Attribute) error {
	if err := attr.Validate(ctx); err != nil {
		return err
	}
	for i := range attr.Values {
		attr.Values[i].Attribute = attr.Name
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, attr); err != nil {
			return fmt.Errorf("create attribute %s: %w", attr.Name, err)
		}
		return nil
	})
}

// SearchValues serves value autocompletion for one attribute.
// An empty attribute yields an empty list rather than an error.
func (s *Service) SearchValues(ctx context.Context, attribute, text string, start, pageLen int) ([]Option, error) {
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return []Option{}, nil
	}
	if start < 0 {
		start = 0
	}
	if pageLen <= 0 {
		pageLen = defaultPageLen
	}
	if pageLen > maxPageLen {
		pageLen = maxPageLen
	}

	values, err := s.repo.SearchValues(ctx, attribute, strings.TrimSpace(text), start, pageLen)
	if err != nil {
		return nil, fmt.Errorf("search values of %s: %w", attribute, err)
	}

	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v.Value, Label: v.Label()})
	}
	return options, nil
}
