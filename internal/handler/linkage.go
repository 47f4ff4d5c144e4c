package handler

import (
	"log/slog"
	"net/http"

	"curator/internal/domain/services"
	"curator/internal/httputil"
)

// LinkageHandler handles asset and expense attachment HTTP requests
type LinkageHandler struct {
	linkage services.LinkageService
	logger  *slog.Logger
}

// NewLinkageHandler creates a new linkage handler
func NewLinkageHandler(linkage services.LinkageService, logger *slog.Logger) *LinkageHandler {
	return &LinkageHandler{
		linkage: linkage,
		logger:  logger,
	}
}

// CreateAsset links a managed file to a project as an asset
// POST /api/assets
func (h *LinkageHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAssetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.linkage.CreateAsset(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, asset)
}

// GetAsset retrieves an asset
// GET /api/assets/{id}
func (h *LinkageHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	asset, err := h.linkage.GetAsset(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// ListAssets lists a project's assets
// GET /api/assets?project_id=...
func (h *LinkageHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.linkage.ListAssets(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"assets": assets})
}

// DeleteAsset removes an asset link
// DELETE /api/assets/{id}
func (h *LinkageHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.linkage.DeleteAsset(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateExpense links a managed file to a project expense
// POST /api/expenses
func (h *LinkageHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req services.CreateExpenseRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	att, err := h.linkage.CreateExpense(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, att)
}

// GetExpense retrieves an expense attachment
// GET /api/expenses/{id}
func (h *LinkageHandler) GetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	att, err := h.linkage.GetExpense(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, att)
}

// ListExpenses lists a project's expense attachments
// GET /api/expenses?project_id=...
func (h *LinkageHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.linkage.ListExpenses(r.Context(), r.URL.Query().Get("project_id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"expenses": expenses})
}

// DeleteExpense removes an expense link
// DELETE /api/expenses/{id}
func (h *LinkageHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.linkage.DeleteExpense(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
