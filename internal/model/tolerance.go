package model

// ToleranceStatus is the binary outcome of the tolerance compliance check.
type ToleranceStatus string

// Tolerance status constants.
const (
	StatusWithinTolerance   ToleranceStatus = "Within Tolerance"
	StatusToleranceBreached ToleranceStatus = "Tolerance Breached"
)

// ToleranceResult is the compliance check for one order having both a
// payment net amount and a non-zero shipment invoice amount.
type ToleranceResult struct {
	OrderID               string
	PaymentNetAmount      float64
	ShipmentInvoiceAmount float64
	TolerancePercentage   float64
	ToleranceThreshold    float64
	ToleranceStatus       ToleranceStatus
}
