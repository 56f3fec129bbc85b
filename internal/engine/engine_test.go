package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
	"github.com/shivxmr/exemplar/internal/report"
)

func testPaymentTable() *model.Table {
	return &model.Table{
		Columns: []string{"date/time", "type", "description", "order id", "total"},
		Rows: []model.Row{
			{"type": "Order", "description": "order payment", "order id": "408-1", "total": "200", "date/time": "2024-06-05 10:30:00"},
			{"type": "Transfer", "description": "payout", "total": "1000"},
			{"type": "FBA Inventory Fee", "description": "FBA Inventory Fee", "total": "-12.5"},
		},
	}
}

func testMTRTable() *model.Table {
	return &model.Table{
		Columns: []string{"Order Id", "Transaction Type", "Invoice Amount", "Item Description", "Order Date"},
		Rows: []model.Row{
			{"Order Id": "408-1", "Transaction Type": "Shipment", "Invoice Amount": "500", "Item Description": "widget", "Order Date": "2024-06-01"},
			{"Order Id": "408-2", "Transaction Type": "Cancel", "Invoice Amount": "50", "Item Description": "gadget"},
			{"Order Id": "408-3", "Transaction Type": "Refund", "Invoice Amount": "75", "Item Description": "gizmo"},
		},
	}
}

func TestEngine_Process(t *testing.T) {
	store := &mockStorage{}
	eng := New(store)

	result, err := eng.Process(context.Background(), testPaymentTable(), testMTRTable())
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// 2 MTR rows survive (Cancel dropped), 2 payment rows survive
	// (Transfer dropped), plus the gap block.
	wantRows := 2 + report.GapRows + 2
	if len(result.Unified) != wantRows {
		t.Fatalf("unified rows = %d, want %d", len(result.Unified), wantRows)
	}
	if len(store.mergedRecords) != wantRows {
		t.Errorf("stored merged rows = %d, want %d", len(store.mergedRecords), wantRows)
	}
	if len(store.processedRecords) != wantRows {
		t.Errorf("stored processed rows = %d, want %d", len(store.processedRecords), wantRows)
	}
	if len(store.mergedIDs) != wantRows {
		t.Errorf("merged id links = %d, want %d", len(store.mergedIDs), wantRows)
	}

	// 408-1 has both amounts: one tolerance result, category reflects it.
	if len(store.tolerance) != 1 {
		t.Fatalf("tolerance results = %d, want 1", len(store.tolerance))
	}
	if store.tolerance[0].OrderID != "408-1" {
		t.Errorf("tolerance order = %q, want 408-1", store.tolerance[0].OrderID)
	}
	if store.tolerance[0].ToleranceStatus != model.StatusToleranceBreached {
		t.Errorf("tolerance status = %q, want breached (40%% < 50%%)", store.tolerance[0].ToleranceStatus)
	}

	if got := result.Categorized[0].Category; got != model.CategoryOrderAndPayment {
		t.Errorf("408-1 category = %q, want %q", got, model.CategoryOrderAndPayment)
	}

	// The fee row has no order id and one description: one summary.
	if len(store.summaries) != 1 {
		t.Fatalf("summaries = %d, want 1", len(store.summaries))
	}
	if store.summaries[0].Description != "Order" || store.summaries[0].TotalNetAmount != -12.5 {
		t.Errorf("summary = %+v, want description Order with total -12.5", store.summaries[0])
	}
}

func TestEngine_Process_InputShapeErrorRejectsUpload(t *testing.T) {
	store := &mockStorage{}
	eng := New(store)

	badPayment := &model.Table{Columns: []string{"date/time"}, Rows: []model.Row{{}}}

	_, err := eng.Process(context.Background(), badPayment, testMTRTable())
	if !errors.Is(err, common.ErrColumnNotFound) {
		t.Fatalf("error = %v, want ErrColumnNotFound", err)
	}

	var stageErr *common.StageError
	if !errors.As(err, &stageErr) {
		t.Fatal("error should carry its pipeline stage")
	}
	if stageErr.Stage != StageNormalizePayment {
		t.Errorf("stage = %q, want %q", stageErr.Stage, StageNormalizePayment)
	}

	if store.mergedRecords != nil {
		t.Error("nothing should be persisted after a rejected upload")
	}
}

func TestEngine_Process_PersistenceFailureAborts(t *testing.T) {
	tests := []struct {
		name      string
		store     *mockStorage
		wantStage string
	}{
		{"merged store fails", &mockStorage{failMerged: true}, StageStoreMerged},
		{"processed store fails", &mockStorage{failProcessed: true}, StageStoreProcessed},
		{"summary store fails", &mockStorage{failSummaries: true}, StageEmptyOrders},
		{"tolerance store fails", &mockStorage{failTolerance: true}, StageTolerance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := New(tt.store)

			_, err := eng.Process(context.Background(), testPaymentTable(), testMTRTable())
			if err == nil {
				t.Fatal("Process() should fail")
			}

			var stageErr *common.StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("error %v should carry its pipeline stage", err)
			}
			if stageErr.Stage != tt.wantStage {
				t.Errorf("stage = %q, want %q", stageErr.Stage, tt.wantStage)
			}
		})
	}
}

func TestEngine_Process_ReportsStageProgress(t *testing.T) {
	var stages []string
	eng := NewWithConfig(&mockStorage{}, Config{
		OnStage: func(stage string) { stages = append(stages, stage) },
	})

	if _, err := eng.Process(context.Background(), testPaymentTable(), testMTRTable()); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if len(stages) != StageCount {
		t.Fatalf("got %d stage callbacks, want %d: %v", len(stages), StageCount, stages)
	}
	if stages[0] != StageNormalizePayment || stages[len(stages)-1] != StageTolerance {
		t.Errorf("unexpected stage order: %v", stages)
	}
}
