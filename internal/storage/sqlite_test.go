package storage

import (
	"context"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivxmr/exemplar/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func strPtr(s string) *string        { return &s }
func f64Ptr(f float64) *float64      { return &f }
func timePtr(v time.Time) *time.Time { return &v }

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveMergedRecords(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	records := []model.UnifiedRecord{
		{
			OrderID:         strPtr("408-1"),
			TransactionType: strPtr("Shipment"),
			Description:     strPtr("widget"),
			InvoiceAmount:   f64Ptr(500),
			OrderDate:       timePtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
		{}, // gap row, every column null
		{
			OrderID:     strPtr("408-1"),
			PaymentType: strPtr("Order"),
			NetAmount:   f64Ptr(200),
		},
	}

	ids, err := store.SaveMergedRecords(ctx, records)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	// Identifiers are generated in input order.
	assert.True(t, sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }))
}

func TestSaveCategorizedRecords(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	records := []model.CategorizedRecord{
		{
			UnifiedRecord: model.UnifiedRecord{
				OrderID:               strPtr("408-1"),
				TransactionType:       strPtr("Shipment"),
				PaymentNetAmount:      f64Ptr(200),
				ShipmentInvoiceAmount: f64Ptr(500),
			},
			Category: model.CategoryOrderAndPayment,
		},
		{
			UnifiedRecord: model.UnifiedRecord{OrderID: strPtr("S012345678")},
			Category:      model.CategoryRemovalOrder,
		},
		{Category: model.CategoryUncategorized},
	}

	mergedIDs, err := store.SaveMergedRecords(ctx, unifiedOf(records))
	require.NoError(t, err)

	processedIDs, err := store.SaveCategorizedRecords(ctx, records, mergedIDs)
	require.NoError(t, err)
	assert.Len(t, processedIDs, 2)
	assert.Contains(t, processedIDs, "408-1")
	assert.Contains(t, processedIDs, "S012345678")

	got, err := store.GetRecordsByCategory(ctx, model.CategoryRemovalOrder)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].OrderID)
	assert.Equal(t, "S012345678", *got[0].OrderID)
	assert.Nil(t, got[0].PaymentNetAmount)

	got, err = store.GetRecordsByCategory(ctx, model.CategoryOrderAndPayment)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].PaymentNetAmount)
	assert.Equal(t, 200.0, *got[0].PaymentNetAmount)
}

func TestSaveCategorizedRecords_LengthMismatch(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.SaveCategorizedRecords(context.Background(),
		[]model.CategorizedRecord{{Category: model.CategoryUncategorized}}, nil)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSaveToleranceResults(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	records := []model.CategorizedRecord{{
		UnifiedRecord: model.UnifiedRecord{
			OrderID:               strPtr("408-1"),
			PaymentNetAmount:      f64Ptr(200),
			ShipmentInvoiceAmount: f64Ptr(500),
		},
		Category: model.CategoryOrderAndPayment,
	}}

	mergedIDs, err := store.SaveMergedRecords(ctx, unifiedOf(records))
	require.NoError(t, err)
	processedIDs, err := store.SaveCategorizedRecords(ctx, records, mergedIDs)
	require.NoError(t, err)

	results := []model.ToleranceResult{{
		OrderID:               "408-1",
		PaymentNetAmount:      200,
		ShipmentInvoiceAmount: 500,
		TolerancePercentage:   40,
		ToleranceThreshold:    50,
		ToleranceStatus:       model.StatusToleranceBreached,
	}}

	require.NoError(t, store.SaveToleranceResults(ctx, results, processedIDs))

	got, err := store.GetToleranceResults(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "408-1", got[0].OrderID)
	assert.Equal(t, 40.0, got[0].TolerancePercentage)
	assert.Equal(t, model.StatusToleranceBreached, got[0].ToleranceStatus)
}

func TestSaveToleranceResults_UnresolvedOrderStoredUnlinked(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	results := []model.ToleranceResult{{
		OrderID:               "unknown-order",
		PaymentNetAmount:      100,
		ShipmentInvoiceAmount: 100,
		TolerancePercentage:   100,
		ToleranceThreshold:    50,
		ToleranceStatus:       model.StatusWithinTolerance,
	}}

	require.NoError(t, store.SaveToleranceResults(ctx, results, map[string]int64{}))

	got, err := store.GetToleranceResults(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveEmptyOrderSummaries(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	summaries := []model.EmptyOrderSummary{
		{Description: "X", TotalNetAmount: 30, TransactionCount: 2},
		{Description: "Y", TotalNetAmount: -5, TransactionCount: 1},
	}

	require.NoError(t, store.SaveEmptyOrderSummaries(ctx, summaries))

	got, err := store.GetEmptyOrderSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "X", got[0].Description)
	assert.Equal(t, 30.0, got[0].TotalNetAmount)
	assert.Equal(t, 2, got[0].TransactionCount)
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func unifiedOf(records []model.CategorizedRecord) []model.UnifiedRecord {
	out := make([]model.UnifiedRecord, len(records))
	for i := range records {
		out[i] = records[i].UnifiedRecord
	}
	return out
}
