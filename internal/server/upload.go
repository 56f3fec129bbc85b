package server

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/shivxmr/exemplar/internal/common"
	"github.com/shivxmr/exemplar/internal/engine"
	"github.com/shivxmr/exemplar/internal/export"
	"github.com/shivxmr/exemplar/internal/ingest"
	"github.com/shivxmr/exemplar/internal/model"
)

// maxUploadBytes caps a single upload request.
const maxUploadBytes = 128 << 20

// uploadResponse reports what one processed upload produced.
type uploadResponse struct {
	Message             string   `json:"message"`
	FilesCreated        []string `json:"files_created,omitempty"`
	UnifiedRows         int      `json:"unified_rows"`
	ToleranceResults    int      `json:"tolerance_results"`
	EmptyOrderSummaries int      `json:"empty_order_summaries"`
	SkippedValues       int      `json:"skipped_values"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleUpload ingests one payment CSV and one MTR XLSX, runs the
// pipeline synchronously and persists every stage. Input-shape problems
// reject the upload with 400; persistence failures report 500 after the
// failing stage has rolled back.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	paymentFile, _, err := r.FormFile("payment_report")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "missing payment_report file")
		return
	}
	defer func() { _ = paymentFile.Close() }()

	mtrFile, _, err := r.FormFile("mtr_report")
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "missing mtr_report file")
		return
	}
	defer func() { _ = mtrFile.Close() }()

	paymentTable, err := ingest.ReadPaymentCSV(paymentFile)
	if err != nil {
		slog.Error("Failed to read payment report", "error", err)
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	mtrTable, err := ingest.ReadMTRXLSX(mtrFile)
	if err != nil {
		slog.Error("Failed to read MTR report", "error", err)
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Process(r.Context(), paymentTable, mtrTable)
	if err != nil {
		slog.Error("Report processing failed", "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrColumnNotFound) || errors.Is(err, common.ErrEmptyReport) {
			status = http.StatusBadRequest
		}
		renderError(w, r, status, err.Error())
		return
	}

	resp := uploadResponse{
		Message:             "Processing completed successfully",
		UnifiedRows:         len(result.Unified),
		ToleranceResults:    len(result.ToleranceResults),
		EmptyOrderSummaries: len(result.Summaries),
		SkippedValues:       result.SkippedValues,
	}

	if s.outputDir != "" {
		files, exportErr := s.writeOutputs(result)
		if exportErr != nil {
			slog.Error("Failed to write output files", "error", exportErr)
			renderError(w, r, http.StatusInternalServerError, exportErr.Error())
			return
		}
		resp.FilesCreated = files
	}

	render.JSON(w, r, resp)
}

// writeOutputs mirrors the three artifacts the pipeline has always
// produced on disk alongside the database rows.
func (s *Server) writeOutputs(result *engine.Result) ([]string, error) {
	if err := os.MkdirAll(s.outputDir, 0750); err != nil {
		return nil, err
	}

	paymentPath := filepath.Join(s.outputDir, "transformed_payment_report.csv")
	if err := writeFile(paymentPath, func(f *os.File) error {
		return export.WriteTableCSV(f, result.NormalizedPayment)
	}); err != nil {
		return nil, err
	}

	mtrPath := filepath.Join(s.outputDir, "transformed_mtr_report.xlsx")
	if err := writeFile(mtrPath, func(f *os.File) error {
		return export.WriteTableXLSX(f, result.NormalizedMTR)
	}); err != nil {
		return nil, err
	}

	exemplarPath := filepath.Join(s.outputDir, "exemplar_report.xlsx")
	if err := writeFile(exemplarPath, func(f *os.File) error {
		return export.WriteExemplarXLSX(f, result.Unified)
	}); err != nil {
		return nil, err
	}

	return []string{paymentPath, mtrPath, exemplarPath}, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if unescaped, err := url.PathUnescape(category); err == nil {
		category = unescaped
	}

	records, err := s.storage.GetRecordsByCategory(r.Context(), model.Category(category))
	if err != nil {
		slog.Error("Failed to query category", "category", category, "error", err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, map[string]any{
		"category": category,
		"count":    len(records),
		"data":     records,
	})
}

func (s *Server) handleEmptyOrderSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.storage.GetEmptyOrderSummaries(r.Context())
	if err != nil {
		slog.Error("Failed to query empty order summaries", "error", err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, map[string]any{
		"count":     len(summaries),
		"summaries": summaries,
	})
}

func (s *Server) handleToleranceAnalysis(w http.ResponseWriter, r *http.Request) {
	results, err := s.storage.GetToleranceResults(r.Context())
	if err != nil {
		slog.Error("Failed to query tolerance analysis", "error", err)
		renderError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	render.JSON(w, r, map[string]any{
		"count":            len(results),
		"analysis_results": results,
	})
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
