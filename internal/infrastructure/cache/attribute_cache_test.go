package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/attribute"
)

type countingRepo struct {
	*attribute.MemoryRepository
	gets, lists int
	// onLoad runs after the store read, before the cache sees the result
	onLoad func()
}

func (r *countingRepo) GetByName(ctx context.Context, name string) (*attribute.Attribute, error) {
	r.gets++
	a, err := r.MemoryRepository.GetByName(ctx, name)
	if r.onLoad != nil {
		r.onLoad()
	}
	return a, err
}

func (r *countingRepo) ListByNames(ctx context.Context, names []string) (map[string]*attribute.Attribute, error) {
	r.lists++
	out, err := r.MemoryRepository.ListByNames(ctx, names)
	if r.onLoad != nil {
		r.onLoad()
	}
	return out, err
}

func newCache() (*AttributeCache, *countingRepo) {
	repo := &countingRepo{MemoryRepository: attribute.NewMemoryRepository(
		attribute.NewAttribute("Color", attribute.Value{Value: "Red"}, attribute.Value{Value: "Blue", Abbr: "BL"}),
		attribute.NewAttribute("Size", attribute.Value{Value: "Small", Abbr: "S"}),
	)}
	return NewAttributeCache(repo), repo
}

func TestAttributeCache_GetByName(t *testing.T) {
	ctx := context.Background()
	c, repo := newCache()

	first, err := c.GetByName(ctx, "Color")
	require.NoError(t, err)
	second, err := c.GetByName(ctx, "Color")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.gets)
	assert.Equal(t, first.Values, second.Values)
	assert.Equal(t, Stats{Entries: 1, Hits: 1, Misses: 1}, c.Stats())

	// callers own their copy
	second.Values[0].Value = "Green"
	third, err := c.GetByName(ctx, "Color")
	require.NoError(t, err)
	assert.Equal(t, "Red", third.Values[0].Value)
}

func TestAttributeCache_GetByName_NotFoundIsNotCached(t *testing.T) {
	c, repo := newCache()

	_, err := c.GetByName(context.Background(), "Finish")
	assert.True(t, apperror.IsNotFound(err))
	_, _ = c.GetByName(context.Background(), "Finish")

	assert.Equal(t, 2, repo.gets)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestAttributeCache_ListByNames_FetchesOnlyMissing(t *testing.T) {
	ctx := context.Background()
	c, repo := newCache()

	_, err := c.GetByName(ctx, "Color")
	require.NoError(t, err)

	got, err := c.ListByNames(ctx, []string{"Color", "Size", "Finish"})
	require.NoError(t, err)

	assert.Len(t, got, 2)
	assert.Equal(t, 1, repo.lists)

	_, err = c.ListByNames(ctx, []string{"Color", "Size"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)
}

func TestAttributeCache_InvalidationDuringLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("get by name", func(t *testing.T) {
		c, repo := newCache()
		repo.onLoad = func() { c.Invalidate("Color") }

		_, err := c.GetByName(ctx, "Color")
		require.NoError(t, err)
		assert.Zero(t, c.Stats().Entries)

		repo.onLoad = nil
		_, err = c.GetByName(ctx, "Color")
		require.NoError(t, err)
		assert.Equal(t, 2, repo.gets)
		assert.Equal(t, 1, c.Stats().Entries)
	})

	t.Run("list by names", func(t *testing.T) {
		c, repo := newCache()
		repo.onLoad = func() { c.Invalidate("") }

		got, err := c.ListByNames(ctx, []string{"Color", "Size"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Zero(t, c.Stats().Entries)
	})
}

func TestInvalidateOn(t *testing.T) {
	ctx := context.Background()
	c, repo := newCache()
	_, _ = c.ListByNames(ctx, []string{"Color", "Size"})
	handle := InvalidateOn(c)

	handle("other_channel", "Color")
	assert.Equal(t, 2, c.Stats().Entries)

	handle(AttributeChannel, " Color ")
	assert.Equal(t, 1, c.Stats().Entries)

	handle("", "")
	assert.Equal(t, 0, c.Stats().Entries)

	_, _ = c.GetByName(ctx, "Size")
	assert.Equal(t, 1, repo.gets)
}

func TestListenSQL(t *testing.T) {
	assert.Equal(t, "LISTEN item_attribute_changed; LISTEN other;", listenSQL([]string{AttributeChannel, "other"}))
}
