package model

// EmptyOrderSummary aggregates records that carry no order identifier,
// grouped by exact description.
type EmptyOrderSummary struct {
	Description      string
	TotalNetAmount   float64
	TransactionCount int
}
