package variant

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"varibulk/internal/core/apperror"
	"varibulk/internal/core/tx"
	"varibulk/internal/domain/catalogs/item"
)

var tracer = otel.Tracer("varibulk/variant")

// Overrides are optional caller-supplied fields applied to a newly created variant.
type Overrides struct {
	// Code renames the variant when it differs from the generated name
	Code        string `json:"itemCode,omitempty"`
	ItemName    string `json:"itemName,omitempty"`
	SKU         string `json:"variantSku,omitempty"`
	Description string `json:"description,omitempty"`
}

// MaterializeRequest asks for the variant of Context bound to Binding.
type MaterializeRequest struct {
	Context   *TemplateContext
	Binding   Binding
	Overrides Overrides
}

// MaterializeResult is the stored variant and whether this call created it.
type MaterializeResult struct {
	Item    *item.Item `json:"item"`
	Created bool       `json:"created"`
}

// Materializer performs get-or-create of variants.
type Materializer struct {
	items     item.Repository
	provider  Provider
	txManager tx.Manager
	locker    BindingLocker
}

// NewMaterializer creates a materializer. A nil locker disables locking.
func NewMaterializer(items item.Repository, provider Provider, txManager tx.Manager, locker BindingLocker) *Materializer {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Materializer{
		items:     items,
		provider:  provider,
		txManager: txManager,
		locker:    locker,
	}
}

// Materialize returns the existing variant for the binding unchanged, or creates,
// optionally renames, and stores a new one. Store failures are returned as
// variant creation errors; a failed call leaves nothing behind.
func (m *Materializer) Materialize(ctx context.Context, req MaterializeRequest) (*MaterializeResult, error) {
	tc := req.Context
	ctx, span := tracer.Start(ctx, "variant.Materialize")
	defer span.End()
	span.SetAttributes(
		attribute.String("variant.template", tc.Template),
		attribute.String("variant.binding", req.Binding.Key()),
	)

	release, err := m.locker.Lock(ctx, tc.Template+"|"+req.Binding.Key())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lock")
		return nil, apperror.NewVariantCreation(err)
	}
	defer release()

	var result *MaterializeResult
	err = m.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = m.getOrCreate(ctx, req)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "materialize")
		if apperror.HasCode(err, apperror.CodeVariantCreation) {
			return nil, err
		}
		return nil, apperror.NewVariantCreation(err)
	}

	span.SetAttributes(
		attribute.String("variant.item", result.Item.Name),
		attribute.Bool("variant.created", result.Created),
	)
	return result, nil
}

func (m *Materializer) getOrCreate(ctx context.Context, req MaterializeRequest) (*MaterializeResult, error) {
	tc, b := req.Context, req.Binding

	existing, err := m.provider.FindVariant(ctx, tc, b)
	if err != nil {
		return nil, fmt.Errorf("find variant of %s: %w", tc.Template, err)
	}
	if existing != "" {
		it, err := m.items.GetByName(ctx, existing)
		if err != nil {
			return nil, fmt.Errorf("load variant %s: %w", existing, err)
		}
		return &MaterializeResult{Item: it}, nil
	}

	v, err := m.provider.CreateVariant(ctx, tc, b)
	if err != nil {
		return nil, fmt.Errorf("create variant of %s: %w", tc.Template, err)
	}

	stored, err := m.items.Exists(ctx, v.Name)
	if err != nil {
		return nil, fmt.Errorf("check variant %s: %w", v.Name, err)
	}

	code := strings.TrimSpace(req.Overrides.Code)
	if code != "" && code != v.Name {
		if stored {
			if err := m.items.Rename(ctx, v.Name, code); err != nil {
				return nil, fmt.Errorf("rename variant %s to %s: %w", v.Name, code, err)
			}
		}
		v.Name = code
	}

	if !stored {
		if err := m.items.Create(ctx, v); err != nil {
			return nil, fmt.Errorf("insert variant %s: %w", v.Name, err)
		}
	}

	it, err := m.items.GetByName(ctx, v.Name)
	if err != nil {
		return nil, fmt.Errorf("reload variant %s: %w", v.Name, err)
	}

	if applyOverrides(it, req.Overrides, tc, b) {
		it.Touch()
		if err := m.items.Update(ctx, it); err != nil {
			return nil, fmt.Errorf("update variant %s: %w", it.Name, err)
		}
	}

	return &MaterializeResult{Item: it, Created: true}, nil
}

// applyOverrides sets display fields and the derived weight. Reports whether anything changed.
func applyOverrides(it *item.Item, ov Overrides, tc *TemplateContext, b Binding) bool {
	changed := false
	if name := strings.TrimSpace(ov.ItemName); name != "" && name != it.ItemName {
		it.ItemName = name
		changed = true
	}
	if sku := strings.TrimSpace(ov.SKU); sku != "" {
		it.VariantSKU = &sku
		changed = true
	}
	if desc := strings.TrimSpace(ov.Description); desc != "" && desc != it.Description {
		it.Description = desc
		changed = true
	}
	if w, ok := WeightForBinding(tc.Weight, b); ok {
		it.PiecesPerKg = decimal.NullDecimal{Decimal: w.PiecesPerKg, Valid: true}
		it.WeightUOM = w.UOM
		changed = true
	}
	return changed
}
