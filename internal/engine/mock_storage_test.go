package engine

import (
	"context"
	"errors"

	"github.com/shivxmr/exemplar/internal/model"
)

// mockStorage records what the engine persists and can fail any stage.
type mockStorage struct {
	mergedRecords    []model.UnifiedRecord
	processedRecords []model.CategorizedRecord
	mergedIDs        []int64
	tolerance        []model.ToleranceResult
	toleranceIDs     map[string]int64
	summaries        []model.EmptyOrderSummary

	failMerged    bool
	failProcessed bool
	failTolerance bool
	failSummaries bool
}

var errMockStorage = errors.New("storage unavailable")

func (m *mockStorage) SaveMergedRecords(_ context.Context, records []model.UnifiedRecord) ([]int64, error) {
	if m.failMerged {
		return nil, errMockStorage
	}
	m.mergedRecords = records

	ids := make([]int64, len(records))
	for i := range ids {
		ids[i] = int64(i + 1)
	}
	return ids, nil
}

func (m *mockStorage) SaveCategorizedRecords(_ context.Context, records []model.CategorizedRecord, mergedIDs []int64) (map[string]int64, error) {
	if m.failProcessed {
		return nil, errMockStorage
	}
	m.processedRecords = records
	m.mergedIDs = mergedIDs

	ids := make(map[string]int64)
	for i := range records {
		if records[i].OrderID != nil && *records[i].OrderID != "" {
			ids[*records[i].OrderID] = int64(i + 1)
		}
	}
	return ids, nil
}

func (m *mockStorage) SaveToleranceResults(_ context.Context, results []model.ToleranceResult, processedIDs map[string]int64) error {
	if m.failTolerance {
		return errMockStorage
	}
	m.tolerance = results
	m.toleranceIDs = processedIDs
	return nil
}

func (m *mockStorage) SaveEmptyOrderSummaries(_ context.Context, summaries []model.EmptyOrderSummary) error {
	if m.failSummaries {
		return errMockStorage
	}
	m.summaries = summaries
	return nil
}

func (m *mockStorage) GetRecordsByCategory(_ context.Context, _ model.Category) ([]model.CategorizedRecord, error) {
	return nil, nil
}

func (m *mockStorage) GetEmptyOrderSummaries(_ context.Context) ([]model.EmptyOrderSummary, error) {
	return m.summaries, nil
}

func (m *mockStorage) GetToleranceResults(_ context.Context) ([]model.ToleranceResult, error) {
	return m.tolerance, nil
}

func (m *mockStorage) Migrate(_ context.Context) error { return nil }

func (m *mockStorage) Close() error { return nil }
