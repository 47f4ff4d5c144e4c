package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"curator/internal/domain/models"
	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// FileHandler handles managed file HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// HealthCheck reports service liveness
// GET /health
func (h *FileHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetFile retrieves a catalog entry by ID
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	file, err := h.fileService.GetFile(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// ListFiles lists the catalog with filtering, sorting and pagination
// GET /api/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts := &models.ListFilesOptions{
		Search:       q.Get("search"),
		MimeCategory: q.Get("mime_category"),
		ProjectID:    q.Get("project_id"),
		SortBy:       models.FileSortField(q.Get("sort_by")),
		SortDesc:     q.Get("sort_desc") == "true",
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		opts.Offset = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = n
	}

	result, err := h.fileService.ListFiles(r.Context(), opts)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// SearchFiles finds files by name substring
// GET /api/files/search?q=...
func (h *FileHandler) SearchFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.fileService.SearchFiles(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"files": files})
}

// Stats summarizes the catalog
// GET /api/files/stats
func (h *FileHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.fileService.Stats(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}

// CheckIntegrity re-hashes a file and compares against the stored digest
// GET /api/files/{id}/integrity
func (h *FileHandler) CheckIntegrity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	report, err := h.fileService.CheckIntegrity(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, report)
}

// DeleteFile removes a catalog entry, optionally with the physical file
// DELETE /api/files/{id}?physical=true
func (h *FileHandler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	deletePhysical := r.URL.Query().Get("physical") == "true"
	if err := h.fileService.DeleteFile(r.Context(), id, deletePhysical); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
