// Package engine implements the report processing pipeline: normalize,
// merge, categorize, then tolerance analysis and empty-order
// aggregation over the categorized stream.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/model"
	"github.com/shivxmr/exemplar/internal/report"
	"github.com/shivxmr/exemplar/internal/service"
)

// Pipeline stage names used in error wrapping and logs.
const (
	StageNormalizePayment = "normalize_payment"
	StageNormalizeMTR     = "normalize_mtr"
	StageMerge            = "merge"
	StageCategorize       = "categorize"
	StageStoreMerged      = "store_merged"
	StageStoreProcessed   = "store_processed"
	StageEmptyOrders      = "empty_orders"
	StageTolerance        = "tolerance"
)

// ProgressFunc is called as each pipeline stage completes.
type ProgressFunc func(stage string)

// Config holds configuration options for the processing engine.
type Config struct {
	// OnStage, when set, is invoked after each completed stage.
	OnStage ProgressFunc
}

// Engine orchestrates one synchronous end-to-end run of the pipeline
// per report pair. It holds no mutable state between runs; concurrent
// uploads share only the storage layer.
type Engine struct {
	storage service.Storage
	onStage ProgressFunc
}

// New creates a processing engine backed by the given storage.
func New(storage service.Storage) *Engine {
	return NewWithConfig(storage, Config{})
}

// NewWithConfig creates a processing engine with custom configuration.
func NewWithConfig(storage service.Storage, config Config) *Engine {
	return &Engine{
		storage: storage,
		onStage: config.OnStage,
	}
}

// Result carries the outputs and counts of one pipeline run.
type Result struct {
	NormalizedPayment *model.Table
	NormalizedMTR     *model.Table
	Unified           []model.UnifiedRecord
	Categorized       []model.CategorizedRecord
	ToleranceResults  []model.ToleranceResult
	Summaries         []model.EmptyOrderSummary
	SkippedValues     int
}

// Process runs the whole pipeline on one report pair and persists every
// stage's output. Normalization failures reject the upload; conversion
// failures during merge null the offending value and continue; a
// persistence failure aborts with the failing stage rolled back.
func (e *Engine) Process(ctx context.Context, payment, mtr *model.Table) (*Result, error) {
	slog.Info("Starting report processing",
		"payment_rows", len(payment.Rows),
		"mtr_rows", len(mtr.Rows))

	normalizedPayment, err := report.NormalizePayment(payment)
	if err != nil {
		return nil, common.NewStageError(StageNormalizePayment, err)
	}
	e.stageDone(StageNormalizePayment)

	normalizedMTR, err := report.NormalizeMTR(mtr)
	if err != nil {
		return nil, common.NewStageError(StageNormalizeMTR, err)
	}
	e.stageDone(StageNormalizeMTR)

	unified, stats, err := report.Merge(normalizedMTR, normalizedPayment)
	if err != nil {
		return nil, common.NewStageError(StageMerge, err)
	}
	e.stageDone(StageMerge)

	categorized := Categorize(unified)
	slog.Info("Categorized unified records", "count", len(categorized))
	e.stageDone(StageCategorize)

	mergedIDs, err := e.storage.SaveMergedRecords(ctx, unified)
	if err != nil {
		return nil, common.NewStageError(StageStoreMerged, err)
	}
	e.stageDone(StageStoreMerged)

	processedIDs, err := e.storage.SaveCategorizedRecords(ctx, categorized, mergedIDs)
	if err != nil {
		return nil, common.NewStageError(StageStoreProcessed, err)
	}
	e.stageDone(StageStoreProcessed)

	summaries := SummarizeEmptyOrders(categorized)
	if err := e.storage.SaveEmptyOrderSummaries(ctx, summaries); err != nil {
		return nil, common.NewStageError(StageEmptyOrders, err)
	}
	slog.Info("Stored empty order summaries", "count", len(summaries))
	e.stageDone(StageEmptyOrders)

	results := AnalyzeTolerance(categorized)
	if err := e.storage.SaveToleranceResults(ctx, results, processedIDs); err != nil {
		return nil, common.NewStageError(StageTolerance, err)
	}
	slog.Info("Stored tolerance analysis", "count", len(results))
	e.stageDone(StageTolerance)

	slog.Info("Report processing completed",
		"unified_rows", len(unified),
		"tolerance_results", len(results),
		"empty_order_summaries", len(summaries),
		"skipped_values", stats.SkippedValues)

	return &Result{
		NormalizedPayment: normalizedPayment,
		NormalizedMTR:     normalizedMTR,
		Unified:           unified,
		Categorized:       categorized,
		ToleranceResults:  results,
		Summaries:         summaries,
		SkippedValues:     stats.SkippedValues,
	}, nil
}

// StageCount is the number of stages Process reports through OnStage.
const StageCount = 8

func (e *Engine) stageDone(stage string) {
	if e.onStage != nil {
		e.onStage(stage)
	}
}

// Validate sanity-checks the engine wiring before a run.
func (e *Engine) Validate() error {
	if e.storage == nil {
		return fmt.Errorf("%w: storage", common.ErrMissingConfig)
	}
	return nil
}
