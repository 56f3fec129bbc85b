package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shivxmr/exemplar/internal/model"
)

// SaveToleranceResults persists the compliance results in one
// transaction, attaching each to its processed row where the order id
// resolves. Results whose order id has no processed row are stored with
// a null link.
func (s *SQLiteStorage) SaveToleranceResults(ctx context.Context, results []model.ToleranceResult, processedIDs map[string]int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tolerance_analysis (
			processed_data_id, order_id, payment_net_amount,
			shipment_invoice_amount, tolerance_percentage,
			tolerance_threshold, tolerance_status
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range results {
		res := &results[i]

		var processedID any
		if id, ok := processedIDs[res.OrderID]; ok {
			processedID = id
		}

		if _, execErr := stmt.ExecContext(ctx,
			processedID,
			res.OrderID,
			res.PaymentNetAmount,
			res.ShipmentInvoiceAmount,
			res.TolerancePercentage,
			res.ToleranceThreshold,
			string(res.ToleranceStatus),
		); execErr != nil {
			return fmt.Errorf("failed to insert tolerance result for order %s: %w", res.OrderID, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tolerance analysis: %w", err)
	}

	return nil
}

// GetToleranceResults returns all stored compliance results.
func (s *SQLiteStorage) GetToleranceResults(ctx context.Context) ([]model.ToleranceResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, payment_net_amount, shipment_invoice_amount,
			tolerance_percentage, tolerance_threshold, tolerance_status
		FROM tolerance_analysis
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tolerance analysis: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []model.ToleranceResult
	for rows.Next() {
		var (
			res     model.ToleranceResult
			orderID sql.NullString
			status  string
		)
		if err := rows.Scan(&orderID, &res.PaymentNetAmount, &res.ShipmentInvoiceAmount,
			&res.TolerancePercentage, &res.ToleranceThreshold, &status); err != nil {
			return nil, fmt.Errorf("failed to scan tolerance row: %w", err)
		}
		res.OrderID = orderID.String
		res.ToleranceStatus = model.ToleranceStatus(status)
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tolerance rows: %w", err)
	}

	return results, nil
}
