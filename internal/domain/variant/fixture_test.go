package variant

import (
	"testing"

	"github.com/shopspring/decimal"

	"varibulk/internal/core/tx"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
)

type fixture struct {
	items    *item.MemoryRepository
	attrs    *attribute.MemoryRepository
	provider *MockProvider
	sink     *MemorySink
	resolver *Resolver
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	attrs := attribute.NewMemoryRepository(
		attribute.NewAttribute("Color",
			attribute.Value{Value: "Red"},
			attribute.Value{Value: "Blue", Abbr: "BL"},
		),
		attribute.NewAttribute("Size",
			attribute.Value{Value: "Small", Abbr: "S"},
			attribute.Value{Value: "Medium", Abbr: "M"},
		),
		attribute.NewAttribute("Sticker",
			attribute.Value{Value: "With Sticker", Abbr: "WS"},
			attribute.Value{Value: "No Sticker", Abbr: "NS"},
		),
		attribute.NewAttribute("Powder Code",
			attribute.Value{Value: "RAL9016", Abbr: "9016"},
			attribute.Value{Value: "RAL7016", Abbr: "7016"},
		),
		attribute.NewNumericAttribute("Length", decimal.Zero, decimal.Zero, decimal.Zero),
		attribute.NewAttribute("Sticker Brand", attribute.Value{Value: "Acme"}),
		attribute.NewAttribute("Finish"),
	)

	profile := item.NewTemplate("PROFILE", "Aluminium Profile", "Sticker", "Powder Code", "Length")
	profile.WeightPerMeterWithSticker = decimal.RequireFromString("0.5")
	profile.WeightPerMeterNoSticker = decimal.RequireFromString("0.4")
	profile.Description = "Extruded profile"

	items := item.NewMemoryRepository(
		item.NewTemplate("T1", "T-Shirt", "Color"),
		item.NewTemplate("SHIRT", "", "Color", "Size"),
		profile,
		item.NewTemplate("WIDE", "Wide", "Color", "Size", "Finish", "Sticker Brand"),
		item.NewTemplate("BROKEN", "Broken", "Color", "Finish"),
		item.NewTemplate("CLASH", "Clash", "Sticker", "Sticker Brand"),
		item.NewTemplate("MIX", "Mixed", "Powder Code", "Length", "Color"),
		item.NewTemplate("EMPTY", "Empty"),
		item.NewItem("PLAIN", "Plain item"),
	)

	provider := &MockProvider{Base: NewStoreProvider(items)}
	sink := &MemorySink{}
	resolver := NewResolver(items, attrs, 3)
	materializer := NewMaterializer(items, provider, tx.Nop{}, nil)
	attrSvc := attribute.NewService(attrs, tx.Nop{})

	return &fixture{
		items:    items,
		attrs:    attrs,
		provider: provider,
		sink:     sink,
		resolver: resolver,
		svc:      NewService(resolver, materializer, attrSvc, sink),
	}
}
