package storage

import (
	"context"
	"fmt"

	"github.com/shivxmr/exemplar/internal/model"
)

// SaveEmptyOrderSummaries persists the standalone aggregates in one
// transaction.
func (s *SQLiteStorage) SaveEmptyOrderSummaries(ctx context.Context, summaries []model.EmptyOrderSummary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO empty_order_summary (description, total_net_amount, transaction_count)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range summaries {
		sum := &summaries[i]
		if _, execErr := stmt.ExecContext(ctx,
			sum.Description,
			sum.TotalNetAmount,
			sum.TransactionCount,
		); execErr != nil {
			return fmt.Errorf("failed to insert empty order summary %q: %w", sum.Description, execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit empty order summaries: %w", err)
	}

	return nil
}

// GetEmptyOrderSummaries returns all stored aggregates.
func (s *SQLiteStorage) GetEmptyOrderSummaries(ctx context.Context) ([]model.EmptyOrderSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT description, total_net_amount, transaction_count
		FROM empty_order_summary
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query empty order summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []model.EmptyOrderSummary
	for rows.Next() {
		var sum model.EmptyOrderSummary
		if err := rows.Scan(&sum.Description, &sum.TotalNetAmount, &sum.TransactionCount); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate summary rows: %w", err)
	}

	return summaries, nil
}
