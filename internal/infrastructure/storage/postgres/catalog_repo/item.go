package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/infrastructure/storage/postgres"
)

const (
	itemTable              = "cat_items"
	templateAttributeTable = "cat_item_template_attributes"
	variantAttributeTable  = "cat_item_variant_attributes"
)

var _ item.Repository = (*ItemRepo)(nil)

// ItemRepo implements item.Repository.
type ItemRepo struct {
	baseRepo[item.Item]
}

// NewItemRepo creates a new item repository.
func NewItemRepo(txm *postgres.TxManager) *ItemRepo {
	return &ItemRepo{baseRepo: newBaseRepo[item.Item](txm, "item", itemTable)}
}

// GetByName implements item.Repository.
func (r *ItemRepo) GetByName(ctx context.Context, name string) (*item.Item, error) {
	it, err := r.getByName(ctx, name)
	if err != nil {
		return nil, err
	}

	sql, args, err := templateAttributesQuery(name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &it.TemplateAttributes, sql, args...); err != nil {
		return nil, fmt.Errorf("load template attributes: %w", err)
	}

	sql, args, err = variantAttributesQuery(name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &it.VariantAttributes, sql, args...); err != nil {
		return nil, fmt.Errorf("load variant attributes: %w", err)
	}

	return it, nil
}

// Exists implements item.Repository.
func (r *ItemRepo) Exists(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, name)
}

// Create implements item.Repository.
func (r *ItemRepo) Create(ctx context.Context, it *item.Item) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := r.insert(ctx, it, it.Name); err != nil {
			return err
		}
		if err := r.insertTemplateAttributes(ctx, it); err != nil {
			return err
		}
		return r.insertVariantAttributes(ctx, it)
	})
}

// Update implements item.Repository. Attribute rows are left untouched.
func (r *ItemRepo) Update(ctx context.Context, it *item.Item) error {
	if err := r.update(ctx, it, it.Name); err != nil {
		return err
	}
	it.Version++
	return nil
}

// Rename implements item.Repository. Child rows and variant_of follow through
// ON UPDATE CASCADE.
func (r *ItemRepo) Rename(ctx context.Context, oldName, newName string) error {
	sql, args, err := renameQuery(oldName, newName).ToSql()
	if err != nil {
		return fmt.Errorf("build rename: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return r.mapWriteError(err, newName)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("item", oldName)
	}
	return nil
}

// FindVariant implements item.Repository.
func (r *ItemRepo) FindVariant(ctx context.Context, template, key string) (string, error) {
	sql, args, err := findVariantQuery(template, key).ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var names []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &names, sql, args...); err != nil {
		return "", fmt.Errorf("find variant: %w", err)
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// ReplaceTemplateAttributes implements item.Repository.
func (r *ItemRepo) ReplaceTemplateAttributes(ctx context.Context, it *item.Item) error {
	return r.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		sql, args, err := postgres.Builder().
			Delete(templateAttributeTable).
			Where(squirrel.Eq{"item": it.Name}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}
		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("clear template attributes: %w", err)
		}
		return r.insertTemplateAttributes(ctx, it)
	})
}

func (r *ItemRepo) insertTemplateAttributes(ctx context.Context, it *item.Item) error {
	if len(it.TemplateAttributes) == 0 {
		return nil
	}
	sql, args, err := insertTemplateAttributesQuery(it).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert template attributes: %w", err)
	}
	return nil
}

func (r *ItemRepo) insertVariantAttributes(ctx context.Context, it *item.Item) error {
	if len(it.VariantAttributes) == 0 {
		return nil
	}
	q := postgres.Builder().
		Insert(variantAttributeTable).
		Columns("item", "idx", "attribute", "attribute_value")
	for _, a := range it.VariantAttributes {
		q = q.Values(it.Name, a.Idx, a.Attribute, a.Value)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert variant attributes: %w", err)
	}
	return nil
}

func templateAttributesQuery(name string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("idx", "attribute", "role").
		From(templateAttributeTable).
		Where(squirrel.Eq{"item": name}).
		OrderBy("idx")
}

func variantAttributesQuery(name string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("idx", "attribute", "attribute_value").
		From(variantAttributeTable).
		Where(squirrel.Eq{"item": name}).
		OrderBy("idx")
}

func insertTemplateAttributesQuery(it *item.Item) squirrel.InsertBuilder {
	q := postgres.Builder().
		Insert(templateAttributeTable).
		Columns("item", "idx", "attribute", "role")
	for _, a := range it.TemplateAttributes {
		q = q.Values(it.Name, a.Idx, a.Attribute, string(a.Role))
	}
	return q
}

func renameQuery(oldName, newName string) squirrel.UpdateBuilder {
	return postgres.Builder().
		Update(itemTable).
		Set("name", newName).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"name": oldName})
}

// findVariantQuery picks the oldest variant when the race described on
// variant.NopLocker left more than one.
func findVariantQuery(template, key string) squirrel.SelectBuilder {
	return postgres.Builder().
		Select("name").
		From(itemTable).
		Where(squirrel.Eq{"variant_of": template, "variant_key": key}).
		OrderBy("created_at", "name").
		Limit(1)
}
