package report

import (
	"fmt"
	"strings"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
)

// Canonical column names produced by payment normalization.
const (
	ColumnPaymentType     = "Payment Type"
	ColumnTransactionType = "Transaction Type"
)

// paymentTypeMapping rewrites settlement type values into the unified
// vocabulary. Keys are matched case-insensitively against the whole
// cell value.
var paymentTypeMapping = map[string]string{
	"Refund":                "Return",
	"Adjustment":            "Order",
	"FBA Inventory Fee":     "Order",
	"Fulfilment Fee Refund": "Order",
	"Service Fee":           "Order",
}

// paymentDescriptionMapping rewrites description values the same way.
var paymentDescriptionMapping = map[string]string{
	"Adjustment":             "Order",
	"FBA Inventory Fee":      "Order",
	"Fulfillment Fee Refund": "Order",
	"Service Fee":            "Order",
	"FBA Inventory Reimbursement - Customer Service Issue": "Order",
}

// NormalizePayment applies the payment report rules: trim every cell,
// drop transfer rows, remap type and description values, rename the
// type column to "Payment Type" and stamp every row with transaction
// type "Payment". All other columns and the remaining row order are
// preserved. The input table is not mutated.
func NormalizePayment(t *model.Table) (*model.Table, error) {
	out := t.Clone()

	for _, row := range out.Rows {
		for col, val := range row {
			row[col] = strings.TrimSpace(val)
		}
	}

	// "payment type" is accepted so re-normalizing already-normalized
	// output resolves the renamed column instead of failing.
	typeCol, ok := FindColumn(out.Columns, "type", ColumnPaymentType)
	if !ok {
		return nil, fmt.Errorf("%w: type column in payment report", common.ErrColumnNotFound)
	}
	descCol, ok := FindColumn(out.Columns, "description")
	if !ok {
		return nil, fmt.Errorf("%w: description column in payment report", common.ErrColumnNotFound)
	}

	// Drop transfer rows. A missing type cell does not match and the
	// row is kept.
	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if val, present := row.Get(typeCol); present &&
			strings.Contains(strings.ToLower(val), "transfer") {
			continue
		}
		kept = append(kept, row)
	}
	out.Rows = kept

	for _, row := range out.Rows {
		if val, present := row.Get(typeCol); present {
			row[typeCol] = replaceInsensitive(val, paymentTypeMapping)
		}
		if val, present := row.Get(descCol); present {
			row[descCol] = replaceInsensitive(val, paymentDescriptionMapping)
		}

		// Safety net: any value still reading "refund" after the remap
		// is forced to Return.
		if val, present := row.Get(typeCol); present && strings.EqualFold(val, "refund") {
			row[typeCol] = "Return"
		}
	}

	renameColumn(out, typeCol, ColumnPaymentType)

	if _, ok := FindColumn(out.Columns, ColumnTransactionType); !ok {
		out.Columns = append(out.Columns, ColumnTransactionType)
	}
	for _, row := range out.Rows {
		row[ColumnTransactionType] = "Payment"
	}

	return out, nil
}

// replaceInsensitive returns the mapped value when the whole cell
// matches a mapping key case-insensitively, otherwise the cell
// unchanged.
func replaceInsensitive(val string, mapping map[string]string) string {
	for from, to := range mapping {
		if strings.EqualFold(val, from) {
			return to
		}
	}
	return val
}

// renameColumn renames a column in place, moving each row's cell to the
// new key. A rename onto the same name is a no-op.
func renameColumn(t *model.Table, from, to string) {
	if from == to {
		return
	}
	for i, col := range t.Columns {
		if col == from {
			t.Columns[i] = to
		}
	}
	for _, row := range t.Rows {
		if val, present := row.Get(from); present {
			row[to] = val
			delete(row, from)
		}
	}
}
