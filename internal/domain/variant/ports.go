package variant

import (
	"context"

	"varibulk/internal/domain/catalogs/item"
)

// Error sink titles.
const (
	SinkTitleTool       = "Variant Creation Tool"
	SinkTitleSalesOrder = "Variant Bulk Creation - Sales Order"
)

// ErrorSink records failures for later inspection. Implementations must not
// fail the caller; errors writing the entry are their own concern.
type ErrorSink interface {
	LogError(ctx context.Context, title, trace string)
}

// ErrorLogReader lists recorded failures, newest first. An empty title lists
// every title; limit <= 0 means no limit.
type ErrorLogReader interface {
	RecentErrors(ctx context.Context, title string, limit int) ([]SinkEntry, error)
}

// Provider finds and builds variants of a template.
type Provider interface {
	// FindVariant returns the name of the variant of tc bound exactly to b,
	// or "" when there is none.
	FindVariant(ctx context.Context, tc *TemplateContext, b Binding) (string, error)

	// CreateVariant returns the variant for b. The result may or may not be
	// stored yet; callers verify and insert when needed.
	CreateVariant(ctx context.Context, tc *TemplateContext, b Binding) (*item.Item, error)
}

// BindingLocker serialises materialisation of one binding across processes.
// Lock returns a release func, or apperror Locked when another holder has it.
type BindingLocker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// NopLocker never blocks. Concurrent callers resolving the same new binding
// can both create a variant; see the variant_key index note in the schema.
type NopLocker struct{}

// Lock implements BindingLocker.
func (NopLocker) Lock(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}
