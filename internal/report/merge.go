package report

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
)

// GapRows is the fixed number of entirely-null rows inserted between the
// MTR segment and the payment segment. Downstream consumers parse the
// exemplar report at fixed offsets, so the gap must be exactly this size.
const GapRows = 5

// MergeStats reports what the merge consumed and what it had to null out.
type MergeStats struct {
	MTRRows       int
	PaymentRows   int
	SkippedValues int
}

// dateLayouts are tried in order when parsing order and payment dates.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006 3:04:05 PM MST",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// Merge builds the unified record stream from the two normalized
// reports: the MTR segment first, then exactly GapRows all-null rows,
// then the payment segment. Within each segment the input row order is
// preserved. Cells that fail numeric or date conversion become null and
// are counted in the stats rather than failing the merge. After
// concatenation the per-order payment and shipment amounts are joined
// onto every row whose order id appears in the respective segment.
func Merge(mtr, payment *model.Table) ([]model.UnifiedRecord, MergeStats, error) {
	var stats MergeStats

	mtrCols, err := resolveMergeColumns(mtr.Columns, "MTR",
		"Order Id", ColumnTransactionType, "Invoice Amount", "Item Description", "Order Date")
	if err != nil {
		return nil, stats, err
	}
	payCols, err := resolveMergeColumns(payment.Columns, "payment",
		"order id", ColumnTransactionType, ColumnPaymentType, "total", "description", "date/time")
	if err != nil {
		return nil, stats, err
	}

	unified := make([]model.UnifiedRecord, 0, len(mtr.Rows)+GapRows+len(payment.Rows))

	for _, row := range mtr.Rows {
		rec := model.UnifiedRecord{
			OrderID:         cellString(row, mtrCols["Order Id"]),
			TransactionType: cellString(row, mtrCols[ColumnTransactionType]),
			Description:     cellString(row, mtrCols["Item Description"]),
		}
		rec.InvoiceAmount = cellAmount(row, mtrCols["Invoice Amount"], &stats)
		rec.OrderDate = cellDate(row, mtrCols["Order Date"], &stats)
		unified = append(unified, rec)
	}
	stats.MTRRows = len(mtr.Rows)

	// Structural gap between the two segments.
	for i := 0; i < GapRows; i++ {
		unified = append(unified, model.UnifiedRecord{})
	}

	for _, row := range payment.Rows {
		rec := model.UnifiedRecord{
			OrderID:         cellString(row, payCols["order id"]),
			TransactionType: cellString(row, payCols[ColumnTransactionType]),
			PaymentType:     cellString(row, payCols[ColumnPaymentType]),
			Description:     cellString(row, payCols["description"]),
		}
		rec.NetAmount = cellAmount(row, payCols["total"], &stats)
		rec.PaymentDate = cellDate(row, payCols["date/time"], &stats)
		unified = append(unified, rec)
	}
	stats.PaymentRows = len(payment.Rows)

	joinOrderAmounts(unified)

	slog.Info("Merged reports into unified stream",
		"mtr_rows", stats.MTRRows,
		"payment_rows", stats.PaymentRows,
		"gap_rows", GapRows,
		"skipped_values", stats.SkippedValues)

	return unified, stats, nil
}

// joinOrderAmounts populates PaymentNetAmount and ShipmentInvoiceAmount
// on every record whose order id has a net amount in the payment
// segment or an invoice amount in the MTR segment.
func joinOrderAmounts(records []model.UnifiedRecord) {
	paymentNet := make(map[string]float64)
	shipmentInvoice := make(map[string]float64)

	for _, rec := range records {
		if rec.OrderID == nil {
			continue
		}
		if rec.NetAmount != nil {
			paymentNet[*rec.OrderID] = *rec.NetAmount
		}
		if rec.InvoiceAmount != nil {
			shipmentInvoice[*rec.OrderID] = *rec.InvoiceAmount
		}
	}

	for i := range records {
		if records[i].OrderID == nil {
			continue
		}
		if amount, ok := paymentNet[*records[i].OrderID]; ok {
			v := amount
			records[i].PaymentNetAmount = &v
		}
		if amount, ok := shipmentInvoice[*records[i].OrderID]; ok {
			v := amount
			records[i].ShipmentInvoiceAmount = &v
		}
	}
}

// resolveMergeColumns maps each required logical name to the actual
// column in the table, case-insensitively. A missing column is a fatal
// input-shape error.
func resolveMergeColumns(columns []string, reportName string, names ...string) (map[string]string, error) {
	resolved := make(map[string]string, len(names))
	for _, name := range names {
		col, ok := FindColumn(columns, name)
		if !ok {
			return nil, fmt.Errorf("%w: %q column in %s report", common.ErrColumnNotFound, name, reportName)
		}
		resolved[name] = col
	}
	return resolved, nil
}

func cellString(row model.Row, col string) *string {
	val, present := row.Get(col)
	if !present {
		return nil
	}
	return &val
}

func cellAmount(row model.Row, col string, stats *MergeStats) *float64 {
	val, present := row.Get(col)
	if !present || val == "" {
		return nil
	}

	cleaned := strings.ReplaceAll(strings.TrimSpace(val), ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		stats.SkippedValues++
		return nil
	}
	return &amount
}

func cellDate(row model.Row, col string, stats *MergeStats) *time.Time {
	val, present := row.Get(col)
	if !present || val == "" {
		return nil
	}

	trimmed := strings.TrimSpace(val)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			return &ts
		}
	}

	stats.SkippedValues++
	return nil
}
