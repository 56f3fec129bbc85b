package engine

import "github.com/shivxmr/exemplar/internal/model"

// toleranceThreshold returns the compliance threshold for a payment net
// amount. Tiers have inclusive upper bounds; everything outside the
// tiers, including non-positive amounts, falls through to 30.
func toleranceThreshold(paymentNetAmount float64) float64 {
	switch {
	case paymentNetAmount > 0 && paymentNetAmount <= 300:
		return 50
	case paymentNetAmount > 300 && paymentNetAmount <= 500:
		return 45
	case paymentNetAmount > 500 && paymentNetAmount <= 900:
		return 43
	case paymentNetAmount > 900 && paymentNetAmount <= 1500:
		return 38
	default:
		return 30
	}
}

// AnalyzeTolerance computes a compliance result for every order that
// has both a payment net amount and a non-zero shipment invoice amount.
// Records missing either amount, or with a zero shipment amount, are
// silently skipped. The merge join stamps both amounts on every row of
// an order, so only the first row per order id produces a result.
func AnalyzeTolerance(records []model.CategorizedRecord) []model.ToleranceResult {
	var results []model.ToleranceResult
	seen := make(map[string]bool)

	for i := range records {
		rec := &records[i]
		if rec.PaymentNetAmount == nil || rec.ShipmentInvoiceAmount == nil {
			continue
		}
		if *rec.ShipmentInvoiceAmount == 0 {
			continue
		}
		if rec.OrderID != nil && seen[*rec.OrderID] {
			continue
		}

		percentage := *rec.PaymentNetAmount / *rec.ShipmentInvoiceAmount * 100
		threshold := toleranceThreshold(*rec.PaymentNetAmount)

		status := model.StatusToleranceBreached
		if percentage >= threshold {
			status = model.StatusWithinTolerance
		}

		orderID := ""
		if rec.OrderID != nil {
			orderID = *rec.OrderID
			seen[orderID] = true
		}

		results = append(results, model.ToleranceResult{
			OrderID:               orderID,
			PaymentNetAmount:      *rec.PaymentNetAmount,
			ShipmentInvoiceAmount: *rec.ShipmentInvoiceAmount,
			TolerancePercentage:   percentage,
			ToleranceThreshold:    threshold,
			ToleranceStatus:       status,
		})
	}

	return results
}
