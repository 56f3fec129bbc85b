package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shivxmr/exemplar/internal/model"
)

// exemplarColumns is the fixed column order of the exemplar workbook.
var exemplarColumns = []string{
	"Order Id",
	"Transaction Type",
	"Payment Type",
	"Invoice Amount",
	"Net Amount",
	"P Description",
	"Order Date",
	"Payment Date",
}

// WriteTableXLSX writes a table to a single-sheet workbook in column
// order. Null cells stay empty.
func WriteTableXLSX(w io.Writer, t *model.Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	if err := writeRow(f, sheet, 1, stringsToCells(t.Columns)); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]any, len(t.Columns))
		for j, col := range t.Columns {
			if val, ok := row.Get(col); ok {
				cells[j] = val
			}
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteExemplarXLSX writes the unified record stream, gap rows
// included, so the fixed offsets downstream consumers rely on are
// preserved.
func WriteExemplarXLSX(w io.Writer, records []model.UnifiedRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)

	if err := writeRow(f, sheet, 1, stringsToCells(exemplarColumns)); err != nil {
		return err
	}

	for i := range records {
		rec := &records[i]
		cells := []any{
			stringCell(rec.OrderID),
			stringCell(rec.TransactionType),
			stringCell(rec.PaymentType),
			floatCell(rec.InvoiceAmount),
			floatCell(rec.NetAmount),
			stringCell(rec.Description),
			dateCell(rec.OrderDate),
			dateCell(rec.PaymentDate),
		}
		if err := writeRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell for row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

func stringsToCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func stringCell(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func floatCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func dateCell(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.Format("2006-01-02 15:04:05")
}
