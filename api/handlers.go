/*
handlers.go - HTTP handlers for the reconciliation service

PURPOSE:
  Exposes statement upload and reconciliation over REST. Handlers parse the
  HTTP request, delegate to the normalizer/engine/renderer, and serialize
  the response; no domain logic lives here.

ENDPOINTS:
  Statements:
    POST   /api/statements                  Upload a CSV statement
    GET    /api/statements                  List statements
    GET    /api/statements/{id}             Statement details
    POST   /api/statements/{id}/reconcile   Run the engine

  Runs:
    GET    /api/runs                        Run history (?statement_id=...)
    GET    /api/runs/{id}                   Stored run with report
    GET    /api/runs/{id}/report.csv        Rendered CSV document

ERROR HANDLING:
  - 400: malformed upload, unparsable document, invalid configuration
  - 404: unknown statement or run
  - 500: storage failures

CACHING:
  Reconcile computes the deterministic fingerprint of (statement, config)
  and returns the stored run on a hit; the engine only executes on misses.
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/crestline/arrears/recon"
	"github.com/crestline/arrears/report"
	"github.com/crestline/arrears/statement"
	"github.com/crestline/arrears/store/sqlite"
)

// maxUploadBytes caps statement uploads at 8 MiB.
const maxUploadBytes = 8 << 20

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Logger  *zap.Logger
	Metrics *Metrics
}

// NewHandler creates a handler with the given dependencies.
func NewHandler(store *sqlite.Store, logger *zap.Logger, metrics *Metrics) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Handler{Store: store, Logger: logger, Metrics: metrics}
}

// =============================================================================
// STATEMENT HANDLERS
// =============================================================================

// UploadStatement accepts a CSV statement, either as a multipart "file"
// field or as the raw request body.
func (h *Handler) UploadStatement(w http.ResponseWriter, r *http.Request) {
	body, name, err := uploadReader(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid upload", err)
		return
	}
	defer body.Close()

	parsed, err := statement.Parse(io.LimitReader(body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse statement", err)
		return
	}

	rec := sqlite.StatementRecord{
		ID:          uuid.NewString(),
		Name:        name,
		Statement:   parsed.Statement,
		RowsDropped: parsed.RowsDropped,
		UploadedAt:  time.Now().UTC(),
	}
	if err := h.Store.SaveStatement(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save statement", err)
		return
	}

	h.Metrics.StatementsUploaded.Inc()
	h.Logger.Info("statement uploaded",
		zap.String("statement_id", rec.ID),
		zap.Int("transactions", len(rec.Statement.Transactions)),
		zap.Int("rows_dropped", rec.RowsDropped),
	)

	writeJSON(w, http.StatusCreated, toStatementDTO(rec))
}

// ListStatements returns all stored statements.
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListStatements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list statements", err)
		return
	}

	dtos := make([]StatementDTO, len(records))
	for i, rec := range records {
		dtos[i] = toStatementDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStatement returns one statement.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetStatement(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Statement not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get statement", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatementDTO(*rec))
}

// =============================================================================
// RECONCILIATION HANDLERS
// =============================================================================

// Reconcile runs the engine over a stored statement. An empty body runs
// with the default configuration.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	stmtRec, err := h.Store.GetStatement(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Statement not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get statement", err)
		return
	}

	var req ReconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	cfg, err := req.toConfig()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		return
	}
	if err := cfg.Validate(); err != nil {
		h.Metrics.RunsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusBadRequest, "Invalid configuration", err)
		return
	}

	// Cache lookup by input fingerprint.
	fingerprint := recon.Fingerprint(stmtRec.Statement, cfg)
	if cached, err := h.Store.GetRunByFingerprint(r.Context(), fingerprint); err == nil {
		h.Metrics.RunsTotal.WithLabelValues("cached").Inc()
		writeJSON(w, http.StatusOK, toRunDTO(*cached, true))
		return
	} else if !errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check run cache", err)
		return
	}

	started := time.Now()
	rep, err := recon.Reconcile(stmtRec.Statement, cfg)
	if err != nil {
		h.Metrics.RunsTotal.WithLabelValues("error").Inc()
		status := http.StatusInternalServerError
		if recon.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "Reconciliation failed", err)
		return
	}
	h.Metrics.RunDuration.Observe(time.Since(started).Seconds())

	runRec := sqlite.RunRecord{
		ID:          uuid.NewString(),
		StatementID: stmtRec.ID,
		Fingerprint: fingerprint,
		Config:      cfg,
		Report:      *rep,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.SaveRun(r.Context(), runRec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save run", err)
		return
	}

	h.Metrics.RunsTotal.WithLabelValues("computed").Inc()
	h.Logger.Info("reconciliation run completed",
		zap.String("run_id", runRec.ID),
		zap.String("statement_id", stmtRec.ID),
		zap.Int("overdue", len(rep.Overdue)),
		zap.Int("pending", len(rep.Pending)),
	)

	writeJSON(w, http.StatusOK, toRunDTO(runRec, false))
}

// ListRuns returns run history, optionally filtered by statement.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListRuns(r.Context(), r.URL.Query().Get("statement_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRunDTO(rec, false)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetRun returns one stored run.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, toRunDTO(*rec, false))
}

// DownloadReport streams the rendered CSV document for one run.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Run not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get run", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "arrears-report-"+rec.ID+".csv"))
	if err := report.Write(w, &rec.Report); err != nil {
		h.Logger.Error("failed to render report", zap.String("run_id", rec.ID), zap.Error(err))
	}
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// uploadReader returns the statement body from either a multipart "file"
// field or the raw request body, plus a display name for the statement.
func uploadReader(r *http.Request) (io.ReadCloser, string, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("missing multipart file field: %w", err)
		}
		return file, header.Filename, nil
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "statement.csv"
	}
	return r.Body, name, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
