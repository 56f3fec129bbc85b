// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/shivxmr/exemplar/internal/model"
)

// Storage defines the contract for our persistence layer. Each save
// operation persists one pipeline stage atomically: it either commits
// every row or rolls the stage back.
type Storage interface {
	// SaveMergedRecords persists the unified record stream and returns
	// the generated identifier for each row, in input order.
	SaveMergedRecords(ctx context.Context, records []model.UnifiedRecord) ([]int64, error)

	// SaveCategorizedRecords persists the categorized stream, linking
	// each row 1:1 to its merged row by mergedIDs (same order as the
	// records). It returns the order id to processed-row id mapping
	// used to attach tolerance results.
	SaveCategorizedRecords(ctx context.Context, records []model.CategorizedRecord, mergedIDs []int64) (map[string]int64, error)

	// SaveToleranceResults persists the compliance results, resolving
	// each order id to its processed-row id through processedIDs.
	SaveToleranceResults(ctx context.Context, results []model.ToleranceResult, processedIDs map[string]int64) error

	// SaveEmptyOrderSummaries persists the standalone aggregates.
	SaveEmptyOrderSummaries(ctx context.Context, summaries []model.EmptyOrderSummary) error

	// Query operations backing the read API.
	GetRecordsByCategory(ctx context.Context, category model.Category) ([]model.CategorizedRecord, error)
	GetEmptyOrderSummaries(ctx context.Context) ([]model.EmptyOrderSummary, error)
	GetToleranceResults(ctx context.Context) ([]model.ToleranceResult, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
