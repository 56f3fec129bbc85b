// Package export writes the transformed reports and the exemplar
// workbook back to disk in the formats downstream consumers expect.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shivxmr/exemplar/internal/model"
)

// WriteTableCSV writes a table as CSV in column order. Null cells are
// written as empty fields.
func WriteTableCSV(w io.Writer, t *model.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j, col := range t.Columns {
			record[j] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
