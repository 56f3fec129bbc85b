package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
)

// ReadMTRXLSX parses an MTR transaction report workbook. Data is read
// from the first sheet; the first row is the header. Cells excelize
// reports as empty, and cells beyond a short row's end, are omitted so
// they read back as the null sentinel.
func ReadMTRXLSX(r io.Reader) (*model.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open MTR workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: MTR report has no sheets", common.ErrEmptyReport)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: MTR report", common.ErrEmptyReport)
	}

	header := rows[0]
	table := &model.Table{Columns: header}

	for _, cells := range rows[1:] {
		row := make(model.Row, len(header))
		for i, col := range header {
			if i >= len(cells) || cells[i] == "" {
				continue
			}
			row[col] = cells[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
