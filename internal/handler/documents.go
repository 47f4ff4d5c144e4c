package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// DocumentHandler handles logical document and version HTTP requests
type DocumentHandler struct {
	ledger services.VersionLedger
	logger *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(ledger services.VersionLedger, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		ledger: ledger,
		logger: logger,
	}
}

// CreateDocument creates a logical document
// POST /api/documents
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.ledger.CreateDocument(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// GetDocument retrieves a logical document
// GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	doc, err := h.ledger.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// ListDocuments lists all logical documents
// GET /api/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.ledger.ListDocuments(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// CreateVersion links an existing managed file to a document as a version
// POST /api/documents/{id}/versions
func (h *DocumentHandler) CreateVersion(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req services.CreateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.LogicalDocumentID = docID

	version, err := h.ledger.CreateVersion(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// ListVersions lists a document's versions, newest first
// GET /api/documents/{id}/versions
func (h *DocumentHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	versions, err := h.ledger.ListVersions(r.Context(), docID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"versions": versions})
}

// GetVersion retrieves one version
// GET /api/versions/{id}
func (h *DocumentHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	version, err := h.ledger.GetVersion(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// DeleteVersion removes a version, clearing the official pointer when needed
// DELETE /api/versions/{id}
func (h *DocumentHandler) DeleteVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ledger.DeleteVersion(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetOfficialVersion marks a version official, or clears the pointer
// PUT /api/documents/{id}/official-version
func (h *DocumentHandler) SetOfficialVersion(w http.ResponseWriter, r *http.Request) {
	docID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		VersionID *string `json:"version_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.ledger.SetOfficialVersion(r.Context(), docID, req.VersionID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DuplicateVersion copies a version's file and registers the copy as a new
// version
// POST /api/versions/{id}/duplicate
func (h *DocumentHandler) DuplicateVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		VersionTag string `json:"version_tag"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	version, err := h.ledger.DuplicateVersion(r.Context(), id, req.VersionTag)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}
