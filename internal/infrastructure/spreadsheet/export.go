package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"varibulk/internal/domain/reports"
	"varibulk/internal/domain/variant"
)

// ContentType is the MIME type of the workbooks produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	headerFill     = "4472C4"
	defaultWidth   = 14
	maxSheetName   = 31
	instructionTab = "Instructions"
)

// WriteTable writes a report table as a single-sheet workbook.
func WriteTable(w io.Writer, t reports.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return err
	}

	for i, col := range t.Columns {
		if err := writeHeader(f, sheet, i+1, col.Label, col.Width, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("write %s: %w", cell, err)
			}
		}
	}

	if len(t.Columns) > 0 {
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	return f.Write(w)
}

// WriteBatchTemplate writes an empty import workbook for one template: a
// Variants sheet with a column per attribute and an Instructions sheet listing
// the allowed values.
func WriteBatchTemplate(w io.Writer, d *variant.TemplateDetails) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", BatchSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := newHeaderStyle(f)
	if err != nil {
		return err
	}

	headers := []string{"Template"}
	for i := range d.Attributes {
		headers = append(headers, fmt.Sprintf("Value %d *", i+1))
	}
	headers = append(headers, "Item Code", "Item Name", "SKU", "Description")

	for i, h := range headers {
		if err := writeHeader(f, BatchSheet, i+1, h, 0, headerStyle); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(BatchSheet, "A2", d.Template); err != nil {
		return err
	}

	if _, err := f.NewSheet(instructionTab); err != nil {
		return fmt.Errorf("add instructions: %w", err)
	}
	lines := [][]any{
		{"Template", d.Template},
		{"Label", d.TemplateLabel},
		{"Strategy", d.Strategy},
		{},
		{"Column", "Attribute", "Allowed values"},
	}
	for i, a := range d.Attributes {
		allowed := d.ValueLabels[a.Name]
		if a.Numeric {
			allowed = "any number"
		}
		lines = append(lines, []any{fmt.Sprintf("Value %d", i+1), a.Name, allowed})
	}
	for r, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(instructionTab, cell, &line); err != nil {
			return fmt.Errorf("write instructions: %w", err)
		}
	}
	if err := f.SetColWidth(instructionTab, "A", "B", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(instructionTab, "C", "C", 60); err != nil {
		return err
	}

	return f.Write(w)
}

func newHeaderStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("header style: %w", err)
	}
	return style, nil
}

func writeHeader(f *excelize.File, sheet string, col int, label string, width float64, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, label); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
		return err
	}

	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	if width <= 0 {
		width = defaultWidth
	}
	return f.SetColWidth(sheet, name, name, width)
}

// sheetName strips characters Excel rejects and truncates to the sheet name limit.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Report"
	}
	if len([]rune(name)) > maxSheetName {
		name = string([]rune(name)[:maxSheetName])
	}
	return name
}
