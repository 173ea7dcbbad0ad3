// Package spreadsheet reads variant batches from and writes reports to .xlsx workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"varibulk/internal/core/apperror"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/variant"
)

// BatchSheet is preferred over the first sheet when a workbook has it.
const BatchSheet = "Variants"

// MaxImportRows caps the number of data rows read from one workbook.
const MaxImportRows = 5000

// Import is a batch read from a workbook.
type Import struct {
	Batch variant.Batch
	// SheetRows holds the 1-based sheet row of every batch row
	SheetRows []int
}

// SheetRow maps a 1-based batch row back to its sheet row.
func (im *Import) SheetRow(n int) int {
	if n < 1 || n > len(im.SheetRows) {
		return 0
	}
	return im.SheetRows[n-1]
}

type column struct {
	index int
	kind  columnKind
	// position for value columns, 0-based
	position int
	role     item.Role
}

type columnKind int

const (
	colTemplate columnKind = iota
	colValue
	colRole
	colCode
	colItemName
	colSKU
	colDescription
)

// ParseBatch reads the batch sheet of an .xlsx workbook. The first row holds
// headers; the rest are variant rows. Blank rows are skipped.
//
// Recognised headers (case-insensitive, a trailing " *" is ignored):
// template, value 1..n (or attribute 1..n), sticker, powder code, length,
// item code, item name, sku (or variant sku), description.
// n may not exceed maxValues; maxValues <= 0 selects item.DefaultMaxAttributes.
func ParseBatch(r io.Reader, defaultTemplate string, maxValues int) (*Import, error) {
	if maxValues <= 0 {
		maxValues = item.DefaultMaxAttributes
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewValidation("The file is not a readable .xlsx workbook.").WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewValidation("The workbook has no sheets.")
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, BatchSheet) {
			sheet = name
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, apperror.NewValidation("The sheet must have a header row and at least one variant row.").
			WithDetail("sheet", sheet)
	}
	if len(rows)-1 > MaxImportRows {
		return nil, apperror.NewValidation(fmt.Sprintf("The sheet has more than %d variant rows.", MaxImportRows)).
			WithDetail("sheet", sheet)
	}

	cols, err := parseHeader(rows[0], maxValues)
	if err != nil {
		return nil, err
	}

	im := &Import{Batch: variant.Batch{DefaultTemplate: strings.TrimSpace(defaultTemplate)}}
	for i, cells := range rows[1:] {
		row, ok := parseRow(cells, cols)
		if !ok {
			continue
		}
		im.Batch.Rows = append(im.Batch.Rows, row)
		im.SheetRows = append(im.SheetRows, i+2)
	}

	if len(im.Batch.Rows) == 0 {
		return nil, apperror.NewValidation("The sheet has no variant rows.").WithDetail("sheet", sheet)
	}
	return im, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimSuffix(h, " *")
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func parseHeader(headers []string, maxValues int) ([]column, error) {
	var (
		cols              []column
		hasValue, hasRole bool
	)
	for i, raw := range headers {
		h := normalizeHeader(raw)
		if h == "" {
			continue
		}
		c := column{index: i}
		switch h {
		case "template", "template item", "item template":
			c.kind = colTemplate
		case "item code", "code", "variant code":
			c.kind = colCode
		case "item name", "variant name":
			c.kind = colItemName
		case "sku", "variant sku":
			c.kind = colSKU
		case "description":
			c.kind = colDescription
		default:
			if pos, ok := valuePosition(h); ok {
				if pos >= maxValues {
					return nil, apperror.NewValidation(fmt.Sprintf(
						"Column %q is past the last attribute. Templates have at most %d attributes.", strings.TrimSpace(raw), maxValues)).
						WithDetail("column", i+1)
				}
				c.kind, c.position = colValue, pos
				hasValue = true
			} else if role, ok := headerRole(h); ok {
				c.kind, c.role = colRole, role
				hasRole = true
			} else {
				continue
			}
		}
		cols = append(cols, c)
	}

	if !hasValue && !hasRole {
		return nil, apperror.NewValidation("The sheet has no attribute value columns.").
			WithDetail("expected", []string{"value 1", "sticker", "powder code", "length"})
	}
	return cols, nil
}

// valuePosition parses "value 2" or "attribute 2" into position 1.
func valuePosition(h string) (int, bool) {
	for _, prefix := range []string{"value ", "attribute "} {
		rest, ok := strings.CutPrefix(h, prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n < 1 {
			return 0, false
		}
		return n - 1, true
	}
	return 0, false
}

func headerRole(h string) (item.Role, bool) {
	role, err := item.ParseRole(strings.ReplaceAll(h, " ", "_"))
	if err != nil || role == item.RoleNone {
		return item.RoleNone, false
	}
	return role, true
}

func parseRow(cells []string, cols []column) (variant.Row, bool) {
	var (
		row   variant.Row
		blank = true
	)
	for _, c := range cols {
		if c.index >= len(cells) {
			continue
		}
		v := strings.TrimSpace(cells[c.index])
		if v == "" {
			continue
		}
		blank = false

		switch c.kind {
		case colTemplate:
			row.Template = v
		case colValue:
			for len(row.Values) <= c.position {
				row.Values = append(row.Values, "")
			}
			row.Values[c.position] = v
		case colRole:
			if row.Roles == nil {
				row.Roles = make(map[item.Role]string, len(item.Roles))
			}
			row.Roles[c.role] = v
		case colCode:
			row.Code = v
		case colItemName:
			row.ItemName = v
		case colSKU:
			row.SKU = v
		case colDescription:
			row.Description = v
		}
	}
	return row, !blank
}
