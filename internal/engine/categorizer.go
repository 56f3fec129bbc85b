package engine

import "github.com/shivxmr/exemplar/internal/model"

// removalOrderIDLength identifies removal orders by their 10-character
// order id convention.
const removalOrderIDLength = 10

// categoryRule assigns a category to every record it matches. Rules are
// evaluated in order with last-write-wins semantics: a later rule that
// also matches overwrites the label from an earlier one.
type categoryRule struct {
	matches  func(*model.UnifiedRecord) bool
	category model.Category
}

var categoryRules = []categoryRule{
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.OrderID != nil && len(*r.OrderID) == removalOrderIDLength
		},
		category: model.CategoryRemovalOrder,
	},
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.TransactionType != nil && *r.TransactionType == "Return" && r.InvoiceAmount != nil
		},
		category: model.CategoryReturn,
	},
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.TransactionType != nil && *r.TransactionType == "Payment" &&
				r.NetAmount != nil && *r.NetAmount < 0
		},
		category: model.CategoryNegativePayout,
	},
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.OrderID != nil && r.PaymentNetAmount != nil && r.ShipmentInvoiceAmount != nil
		},
		category: model.CategoryOrderAndPayment,
	},
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.OrderID != nil && r.PaymentNetAmount != nil && r.ShipmentInvoiceAmount == nil
		},
		category: model.CategoryPaymentOnly,
	},
	{
		matches: func(r *model.UnifiedRecord) bool {
			return r.OrderID != nil && r.ShipmentInvoiceAmount != nil && r.PaymentNetAmount == nil
		},
		category: model.CategoryPaymentPending,
	},
}

// Categorize labels every unified record with exactly one category,
// preserving input order 1:1. Every rule is evaluated for every record;
// the last matching rule wins, and records matching none stay
// Uncategorized.
func Categorize(records []model.UnifiedRecord) []model.CategorizedRecord {
	out := make([]model.CategorizedRecord, len(records))

	for i := range records {
		out[i] = model.CategorizedRecord{
			UnifiedRecord: records[i],
			Category:      model.CategoryUncategorized,
		}
		for _, rule := range categoryRules {
			if rule.matches(&records[i]) {
				out[i].Category = rule.category
			}
		}
	}

	return out
}
