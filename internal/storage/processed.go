package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shivxmr/exemplar/internal/model"
)

// SaveCategorizedRecords persists the categorized stream in one
// transaction, linking each row to its merged counterpart by position.
// It returns the order id to processed-row id mapping; when an order id
// appears on several rows the last row wins, matching the mapping the
// merged-data phase builds.
func (s *SQLiteStorage) SaveCategorizedRecords(ctx context.Context, records []model.CategorizedRecord, mergedIDs []int64) (map[string]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(records) != len(mergedIDs) {
		return nil, fmt.Errorf("%w: %d records, %d merged ids", ErrLengthMismatch, len(records), len(mergedIDs))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO processed_data (
			merged_data_id, order_id, category, transaction_type,
			payment_type, description, invoice_amount, net_amount,
			payment_net_amount, shipment_invoice_amount, is_removal_order
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	processedIDs := make(map[string]int64)
	for i := range records {
		rec := &records[i]
		result, execErr := stmt.ExecContext(ctx,
			mergedIDs[i],
			rec.OrderID,
			string(rec.Category),
			rec.TransactionType,
			rec.PaymentType,
			rec.Description,
			rec.InvoiceAmount,
			rec.NetAmount,
			rec.PaymentNetAmount,
			rec.ShipmentInvoiceAmount,
			rec.IsRemovalOrder(),
		)
		if execErr != nil {
			return nil, fmt.Errorf("failed to insert processed row %d: %w", i, execErr)
		}

		id, idErr := result.LastInsertId()
		if idErr != nil {
			return nil, fmt.Errorf("failed to read processed row id: %w", idErr)
		}
		if rec.OrderID != nil && *rec.OrderID != "" {
			processedIDs[*rec.OrderID] = id
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit processed data: %w", err)
	}

	return processedIDs, nil
}

// GetRecordsByCategory returns the categorized records stored under the
// given category label.
func (s *SQLiteStorage) GetRecordsByCategory(ctx context.Context, category model.Category) ([]model.CategorizedRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(string(category), "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, category, transaction_type, payment_type,
			description, invoice_amount, net_amount,
			payment_net_amount, shipment_invoice_amount
		FROM processed_data
		WHERE category = ?
		ORDER BY id
	`, string(category))
	if err != nil {
		return nil, fmt.Errorf("failed to query processed data: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CategorizedRecord
	for rows.Next() {
		var (
			rec             model.CategorizedRecord
			cat             string
			orderID         sql.NullString
			transactionType sql.NullString
			paymentType     sql.NullString
			description     sql.NullString
			invoiceAmount   sql.NullFloat64
			netAmount       sql.NullFloat64
			paymentNet      sql.NullFloat64
			shipmentInvoice sql.NullFloat64
		)

		if err := rows.Scan(&orderID, &cat, &transactionType, &paymentType,
			&description, &invoiceAmount, &netAmount, &paymentNet, &shipmentInvoice); err != nil {
			return nil, fmt.Errorf("failed to scan processed row: %w", err)
		}

		rec.Category = model.Category(cat)
		rec.OrderID = nullableString(orderID)
		rec.TransactionType = nullableString(transactionType)
		rec.PaymentType = nullableString(paymentType)
		rec.Description = nullableString(description)
		rec.InvoiceAmount = nullableFloat(invoiceAmount)
		rec.NetAmount = nullableFloat(netAmount)
		rec.PaymentNetAmount = nullableFloat(paymentNet)
		rec.ShipmentInvoiceAmount = nullableFloat(shipmentInvoice)

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate processed rows: %w", err)
	}

	return records, nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
