package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// FileOpsHandler handles file operation HTTP requests
type FileOpsHandler struct {
	ops    services.FileOps
	logger *slog.Logger
}

// NewFileOpsHandler creates a new file operations handler
func NewFileOpsHandler(ops services.FileOps, logger *slog.Logger) *FileOpsHandler {
	return &FileOpsHandler{
		ops:    ops,
		logger: logger,
	}
}

// Rename changes a file's name within its directory
// POST /api/files/{id}/rename
func (h *FileOpsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.ops.Rename(r.Context(), id, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// CopyToDirectory exports a file into a directory
// POST /api/files/{id}/copy
func (h *FileOpsHandler) CopyToDirectory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Directory string `json:"directory"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Directory == "" {
		httputil.RespondError(w, http.StatusBadRequest, "directory is required")
		return
	}

	path, err := h.ops.CopyToDirectory(r.Context(), id, req.Directory)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"path": path})
}

// SaveAs exports a file to an explicit destination path
// POST /api/files/{id}/save-as
func (h *FileOpsHandler) SaveAs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Path string `json:"path"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ops.SaveAs(r.Context(), id, req.Path); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"path": req.Path})
}

// MoveToTrash removes a file from the catalog and moves it to the trash
// POST /api/files/{id}/trash
func (h *FileOpsHandler) MoveToTrash(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	warning, err := h.ops.MoveToTrash(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	resp := map[string]string{}
	if warning != "" {
		resp["warning"] = warning
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// BatchMoveToTrash trashes several files
// POST /api/files/trash
func (h *FileOpsHandler) BatchMoveToTrash(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileIDs []string `json:"file_ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.FileIDs) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "file_ids is empty")
		return
	}

	result := h.ops.BatchMoveToTrash(r.Context(), req.FileIDs)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusMultiStatus
	}
	httputil.RespondJSON(w, status, result)
}

// BatchCopyToDirectory exports several files into a directory
// POST /api/files/copy
func (h *FileOpsHandler) BatchCopyToDirectory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FileIDs   []string `json:"file_ids"`
		Directory string   `json:"directory"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.FileIDs) == 0 || req.Directory == "" {
		httputil.RespondError(w, http.StatusBadRequest, "file_ids and directory are required")
		return
	}

	result := h.ops.BatchCopyToDirectory(r.Context(), req.FileIDs, req.Directory)

	status := http.StatusOK
	if !result.Success {
		status = http.StatusMultiStatus
	}
	httputil.RespondJSON(w, status, result)
}
