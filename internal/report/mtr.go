package report

import (
	"fmt"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
)

// mtrTransactionMapping rewrites MTR transaction types into the unified
// vocabulary. Unlike the payment path these are exact-match replacements.
var mtrTransactionMapping = map[string]string{
	"Refund":          "Return",
	"FreeReplacement": "Return",
}

// NormalizeMTR applies the MTR report rules: drop rows whose
// "Transaction Type" is exactly "Cancel" and remap refund-like types to
// "Return". No trimming or case folding happens on this path; the MTR
// report arrives with a fixed schema. All other columns and the
// remaining row order are preserved. The input table is not mutated.
func NormalizeMTR(t *model.Table) (*model.Table, error) {
	typeCol, ok := FindColumn(t.Columns, ColumnTransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q column in MTR report", common.ErrColumnNotFound, ColumnTransactionType)
	}

	out := t.Clone()

	kept := out.Rows[:0]
	for _, row := range out.Rows {
		if val, present := row.Get(typeCol); present && val == "Cancel" {
			continue
		}
		kept = append(kept, row)
	}
	out.Rows = kept

	for _, row := range out.Rows {
		if val, present := row.Get(typeCol); present {
			if mapped, ok := mtrTransactionMapping[val]; ok {
				row[typeCol] = mapped
			}
		}
	}

	return out, nil
}
