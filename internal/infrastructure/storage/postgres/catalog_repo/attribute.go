package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/infrastructure/storage/postgres"
)

const (
	attributeTable      = "cat_item_attributes"
	attributeValueTable = "cat_item_attribute_values"
)

var attributeValueColumns = []string{"id", "attribute", "idx", "attribute_value", "abbr"}

var _ attribute.Repository = (*AttributeRepo)(nil)

// AttributeRepo implements attribute.Repository.
type AttributeRepo struct {
	baseRepo[attribute.Attribute]
}

// NewAttributeRepo creates a new attribute repository.
func NewAttributeRepo(txm *postgres.TxManager) *AttributeRepo {
	return &AttributeRepo{baseRepo: newBaseRepo[attribute.Attribute](txm, "item attribute", attributeTable)}
}

// GetByName implements attribute.Repository.
func (r *AttributeRepo) GetByName(ctx context.Context, name string) (*attribute.Attribute, error) {
	a, err := r.getByName(ctx, name)
	if err != nil {
		return nil, err
	}

	sql, args, err := valuesQuery([]string{name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &a.Values, sql, args...); err != nil {
		return nil, fmt.Errorf("load attribute values: %w", err)
	}
	return a, nil
}

// ListByNames implements attribute.Repository.
func (r *AttributeRepo) ListByNames(ctx context.Context, names []string) (map[string]*attribute.Attribute, error) {
	out := make(map[string]*attribute.Attribute, len(names))
	if len(names) == 0 {
		return out, nil
	}

	sql, args, err := postgres.Builder().
		Select(r.selectCols...).
		From(attributeTable).
		Where(squirrel.Eq{"name": names}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var attrs []*attribute.Attribute
	if err := pgxscan.Select(ctx, r.querier(ctx), &attrs, sql, args...); err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
	}
	for _, a := range attrs {
		out[a.Name] = a
	}

	sql, args, err = valuesQuery(names).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var values []attribute.Value
	if err := pgxscan.Select(ctx, r.querier(ctx), &values, sql, args...); err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
	}
	for _, v := range values {
		if a, ok := out[v.Attribute]; ok {
			a.Values = append(a.Values, v)
		}
	}

	return out, nil
}

// SearchValues implements attribute.Repository.
func (r *AttributeRepo) SearchValues(ctx context.Context, attr, text string, start, limit int) ([]attribute.Value, error) {
	sql, args, err := searchValuesQuery(attr, text, start, limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var values []attribute.Value
	if err := pgxscan.Select(ctx, r.querier(ctx), &values, sql, args...); err != nil {
		return nil, fmt.Errorf("search attribute values: %w", err)
	}
	return values, nil
}

// Create implements attribute.Repository.
func (r *AttributeRepo) Create(ctx context.Context, a *attribute.Attribute) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.insert(ctx, a, a.Name); err != nil {
			return err
		}
		if len(a.Values) == 0 {
			return nil
		}

		rows := make([][]any, len(a.Values))
		for i, v := range a.Values {
			rows[i] = []any{v.ID, a.Name, v.Idx, v.Value, v.Abbr}
		}
		if _, err := r.txm.CopyRows(ctx, attributeValueTable, attributeValueColumns, rows); err != nil {
			return fmt.Errorf("insert attribute values: %w", err)
		}
		return nil
	})
}

func valuesQuery(names []string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("id", "attribute", "idx", "attribute_value", "abbr").
		From(attributeValueTable).
		Where(squirrel.Eq{"attribute": names}).
		OrderBy("attribute", "idx")
}

func searchValuesQuery(attr, text string, start, limit int) squirrel.SelectBuilder {
	pattern := "%" + text + "%"
	q := postgres.Builder().
		Select("id", "attribute", "idx", "attribute_value", "abbr").
		From(attributeValueTable).
		Where(squirrel.Eq{"attribute": attr}).
		Where(squirrel.Or{
			squirrel.ILike{"attribute_value": pattern},
			squirrel.ILike{"abbr": pattern},
		}).
		OrderBy("idx")
	if start > 0 {
		q = q.Offset(uint64(start))
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	return q
}
