package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/shivxmr/exemplar/internal/engine"
	"github.com/shivxmr/exemplar/internal/export"
	"github.com/shivxmr/exemplar/internal/ingest"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process a payment and MTR report pair from local files",
		Long: `Run the full pipeline on two local report files: normalize both
reports, merge them into the unified exemplar stream, categorize every
record, compute tolerance compliance and empty-order summaries, and
persist everything to the database.`,
		RunE: runProcess,
	}

	cmd.Flags().String("payment", "", "path to the payment report CSV (required)")
	cmd.Flags().String("mtr", "", "path to the MTR report XLSX (required)")
	cmd.Flags().String("output", "output", "directory for the transformed report files")
	_ = cmd.MarkFlagRequired("payment")
	_ = cmd.MarkFlagRequired("mtr")

	return cmd
}

func runProcess(cmd *cobra.Command, _ []string) error {
	paymentPath, _ := cmd.Flags().GetString("payment")
	mtrPath, _ := cmd.Flags().GetString("mtr")
	outputDir, _ := cmd.Flags().GetString("output")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	paymentFile, err := os.Open(paymentPath)
	if err != nil {
		return fmt.Errorf("failed to open payment report: %w", err)
	}
	defer func() { _ = paymentFile.Close() }()

	mtrFile, err := os.Open(mtrPath)
	if err != nil {
		return fmt.Errorf("failed to open MTR report: %w", err)
	}
	defer func() { _ = mtrFile.Close() }()

	paymentTable, err := ingest.ReadPaymentCSV(paymentFile)
	if err != nil {
		return err
	}
	mtrTable, err := ingest.ReadMTRXLSX(mtrFile)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(engine.StageCount,
		progressbar.OptionSetDescription("Processing reports"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	eng := engine.NewWithConfig(store, engine.Config{
		OnStage: func(stage string) {
			bar.Describe(stage)
			_ = bar.Add(1)
		},
	})

	result, err := eng.Process(cmd.Context(), paymentTable, mtrTable)
	if err != nil {
		return err
	}

	if outputDir != "" {
		if err := writeOutputs(outputDir, result); err != nil {
			return err
		}
	}

	fmt.Printf("Processed %d unified rows (%d tolerance results, %d empty-order summaries, %d skipped values)\n",
		len(result.Unified), len(result.ToleranceResults), len(result.Summaries), result.SkippedValues)

	return nil
}

func writeOutputs(outputDir string, result *engine.Result) error {
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paymentOut, err := os.Create(filepath.Join(outputDir, "transformed_payment_report.csv"))
	if err != nil {
		return err
	}
	if err := export.WriteTableCSV(paymentOut, result.NormalizedPayment); err != nil {
		_ = paymentOut.Close()
		return err
	}
	if err := paymentOut.Close(); err != nil {
		return err
	}

	mtrOut, err := os.Create(filepath.Join(outputDir, "transformed_mtr_report.xlsx"))
	if err != nil {
		return err
	}
	if err := export.WriteTableXLSX(mtrOut, result.NormalizedMTR); err != nil {
		_ = mtrOut.Close()
		return err
	}
	if err := mtrOut.Close(); err != nil {
		return err
	}

	exemplarOut, err := os.Create(filepath.Join(outputDir, "exemplar_report.xlsx"))
	if err != nil {
		return err
	}
	if err := export.WriteExemplarXLSX(exemplarOut, result.Unified); err != nil {
		_ = exemplarOut.Close()
		return err
	}
	return exemplarOut.Close()
}
