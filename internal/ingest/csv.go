// Package ingest reads the raw report files into tables the pipeline
// can normalize.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
)

// ReadPaymentCSV parses a payment settlement report. The first record
// is the header row; empty cells are omitted from the row map so they
// read back as the null sentinel, matching how absent spreadsheet cells
// behave.
func ReadPaymentCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: payment report", common.ErrEmptyReport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payment report header: %w", err)
	}

	table := &model.Table{Columns: header}

	for line := 2; ; line++ {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("failed to read payment report line %d: %w", line, readErr)
		}

		row := make(model.Row, len(header))
		for i, col := range header {
			if i >= len(record) || record[i] == "" {
				continue
			}
			row[col] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
