package model

import "time"

// Category labels a unified record after rule evaluation.
type Category string

// Category constants, in rule-priority order.
const (
	CategoryUncategorized   Category = "Uncategorized"
	CategoryRemovalOrder    Category = "Removal Order"
	CategoryReturn          Category = "Return"
	CategoryNegativePayout  Category = "Negative Payout"
	CategoryOrderAndPayment Category = "Order & Payment Received"
	CategoryPaymentOnly     Category = "Order Not Applicable but Payment Received"
	CategoryPaymentPending  Category = "Payment Pending"
)

// UnifiedRecord is one row of the merged report stream. All fields are
// optional: a nil pointer is the null sentinel. Gap rows at the segment
// boundary are entirely nil.
type UnifiedRecord struct {
	OrderID               *string
	TransactionType       *string
	PaymentType           *string
	Description           *string
	InvoiceAmount         *float64
	NetAmount             *float64
	PaymentNetAmount      *float64
	ShipmentInvoiceAmount *float64
	OrderDate             *time.Time
	PaymentDate           *time.Time
}

// IsEmpty reports whether every field is null, as in the structural gap
// rows inserted between the MTR and payment segments.
func (r *UnifiedRecord) IsEmpty() bool {
	return r.OrderID == nil &&
		r.TransactionType == nil &&
		r.PaymentType == nil &&
		r.Description == nil &&
		r.InvoiceAmount == nil &&
		r.NetAmount == nil &&
		r.PaymentNetAmount == nil &&
		r.ShipmentInvoiceAmount == nil &&
		r.OrderDate == nil &&
		r.PaymentDate == nil
}

// CategorizedRecord is a unified record plus its final category label.
type CategorizedRecord struct {
	UnifiedRecord
	Category Category
}

// IsRemovalOrder reports whether the record follows the 10-character
// removal order identifier convention.
func (r *CategorizedRecord) IsRemovalOrder() bool {
	return r.Category == CategoryRemovalOrder
}
