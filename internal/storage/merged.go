package storage

import (
	"context"
	"fmt"

	"github.com/shivxmr/exemplar/internal/model"
)

// SaveMergedRecords persists the unified record stream in one
// transaction and returns the generated row identifiers in input order.
// A failure rolls the whole stage back.
func (s *SQLiteStorage) SaveMergedRecords(ctx context.Context, records []model.UnifiedRecord) ([]int64, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO merged_data (
			order_id, transaction_type, payment_type, description,
			invoice_amount, net_amount, payment_net_amount,
			shipment_invoice_amount, order_date, payment_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	ids := make([]int64, 0, len(records))
	for i := range records {
		rec := &records[i]
		result, execErr := stmt.ExecContext(ctx,
			rec.OrderID,
			rec.TransactionType,
			rec.PaymentType,
			rec.Description,
			rec.InvoiceAmount,
			rec.NetAmount,
			rec.PaymentNetAmount,
			rec.ShipmentInvoiceAmount,
			rec.OrderDate,
			rec.PaymentDate,
		)
		if execErr != nil {
			return nil, fmt.Errorf("failed to insert merged row %d: %w", i, execErr)
		}

		id, idErr := result.LastInsertId()
		if idErr != nil {
			return nil, fmt.Errorf("failed to read merged row id: %w", idErr)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit merged data: %w", err)
	}

	return ids, nil
}
