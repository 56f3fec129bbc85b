package engine

import "github.com/shivxmr/exemplar/internal/model"

// SummarizeEmptyOrders groups records that have no order identifier by
// exact description, summing net amounts (null counts as zero) and
// counting occurrences. Only the missing sentinel qualifies as "no
// order id"; an empty-string id does not. Records with a null
// description, such as the structural gap rows, form no group. Output
// order is unspecified.
func SummarizeEmptyOrders(records []model.CategorizedRecord) []model.EmptyOrderSummary {
	groups := make(map[string]*model.EmptyOrderSummary)

	for i := range records {
		rec := &records[i]
		if rec.OrderID != nil || rec.Description == nil {
			continue
		}

		summary, ok := groups[*rec.Description]
		if !ok {
			summary = &model.EmptyOrderSummary{Description: *rec.Description}
			groups[*rec.Description] = summary
		}

		if rec.NetAmount != nil {
			summary.TotalNetAmount += *rec.NetAmount
		}
		summary.TransactionCount++
	}

	out := make([]model.EmptyOrderSummary, 0, len(groups))
	for _, summary := range groups {
		out = append(out, *summary)
	}

	return out
}
