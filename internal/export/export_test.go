package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shivxmr/exemplar/internal/model"
)

func strPtr(s string) *string        { return &s }
func f64Ptr(f float64) *float64      { return &f }
func timePtr(v time.Time) *time.Time { return &v }

func TestWriteTableCSV(t *testing.T) {
	table := &model.Table{
		Columns: []string{"a", "b"},
		Rows: []model.Row{
			{"a": "1", "b": "x"},
			{"a": "2"}, // null b
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTableCSV(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, "1,x", lines[1])
	assert.Equal(t, "2,", lines[2])
}

func TestWriteExemplarXLSX_PreservesGapOffsets(t *testing.T) {
	records := []model.UnifiedRecord{
		{
			OrderID:         strPtr("408-1"),
			TransactionType: strPtr("Shipment"),
			InvoiceAmount:   f64Ptr(500),
			Description:     strPtr("widget"),
			OrderDate:       timePtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
		{}, {}, {}, {}, {}, // gap block
		{
			OrderID:     strPtr("408-1"),
			PaymentType: strPtr("Order"),
			NetAmount:   f64Ptr(200),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteExemplarXLSX(&buf, records))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)

	// Header plus every record, gap rows included.
	require.GreaterOrEqual(t, len(rows), 1+1) // header and first data row survive
	assert.Equal(t, "Order Id", rows[0][0])
	assert.Equal(t, "408-1", rows[1][0])
	assert.Equal(t, "widget", rows[1][5])

	// Gap rows write no cells: whatever excelize reports for them must
	// be empty, and the payment row lands at the fixed offset.
	payRowIdx := 1 + 6 // header + MTR row + 5 gap rows
	require.Greater(t, len(rows), payRowIdx)
	assert.Equal(t, "408-1", rows[payRowIdx][0])
	for i := 2; i < payRowIdx; i++ {
		if i < len(rows) {
			for _, cell := range rows[i] {
				assert.Empty(t, cell, "gap row %d should be empty", i)
			}
		}
	}
}
