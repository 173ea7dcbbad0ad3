package variant

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"varibulk/internal/domain/catalogs/item"
)

// WeightUOM is the unit pieces-per-kg is expressed in.
const WeightUOM = "pcs"

var lengthPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// Weight is a derived pieces-per-kilogram figure.
type Weight struct {
	PiecesPerKg decimal.Decimal `json:"piecesPerKg"`
	UOM         string          `json:"uom"`
}

// DeriveWeight computes pieces per kilogram as 1 / (length × rate), where the
// rate is the per-meter weight with or without sticker. It reports false when
// the rate is unset or the piece weight is zero; derivation never fails.
func DeriveWeight(cfg WeightConfig, length decimal.Decimal, hasSticker bool) (Weight, bool) {
	rate := cfg.PerMeterNoSticker
	if hasSticker {
		rate = cfg.PerMeterWithSticker
	}
	if rate.IsZero() {
		return Weight{}, false
	}

	perPiece := length.Mul(rate)
	if perPiece.Sign() <= 0 {
		return Weight{}, false
	}

	return Weight{
		PiecesPerKg: decimal.NewFromInt(1).Div(perPiece),
		UOM:         WeightUOM,
	}, true
}

// ExtractLength takes the first integer or decimal number in text ("6m" → 6).
func ExtractLength(text string) (decimal.Decimal, bool) {
	m := lengthPattern.FindString(text)
	if m == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// HasSticker reports whether a sticker value means "with sticker": it mentions
// sticker and does not contain "no", case-insensitively.
func HasSticker(text string) bool {
	t := strings.ToLower(text)
	return strings.Contains(t, "sticker") && !strings.Contains(t, "no")
}

// WeightForBinding derives the weight of a variant from its length and sticker
// values. The length comes from the length role, or the first numeric attribute.
func WeightForBinding(cfg WeightConfig, b Binding) (Weight, bool) {
	lengthValue, ok := b.ByRole(item.RoleLength)
	if !ok {
		for _, v := range b.values {
			if v.Numeric {
				lengthValue, ok = v, true
				break
			}
		}
	}
	if !ok {
		return Weight{}, false
	}

	length, ok := ExtractLength(lengthValue.Value)
	if !ok {
		return Weight{}, false
	}

	sticker, _ := b.ByRole(item.RoleSticker)
	return DeriveWeight(cfg, length, HasSticker(sticker.Value))
}
