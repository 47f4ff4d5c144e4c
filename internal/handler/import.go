package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// ImportHandler handles import HTTP requests
type ImportHandler struct {
	importService services.ImportService
	logger        *slog.Logger
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService services.ImportService, logger *slog.Logger) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		logger:        logger,
	}
}

// ImportFile imports one file through the full pipeline
// POST /api/import
func (h *ImportHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	var req services.ImportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.importService.ImportFile(r.Context(), &req)
	if err != nil {
		// The result carries the structured error list; the status comes
		// from the error kind
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, result)
}

// PreviewImport dry-runs the naming and path steps
// POST /api/import/preview
func (h *ImportHandler) PreviewImport(w http.ResponseWriter, r *http.Request) {
	var req services.ImportRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	preview, err := h.importService.PreviewImport(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, preview)
}

// BatchImport imports several files sequentially
// POST /api/import/batch
func (h *ImportHandler) BatchImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []*services.ImportRequest `json:"items"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "items is empty")
		return
	}

	result := h.importService.BatchImport(r.Context(), req.Items)

	// 207 signals per-item outcomes that may mix success and failure
	status := http.StatusCreated
	if !result.Success {
		status = http.StatusMultiStatus
	}
	httputil.RespondJSON(w, status, result)
}
