package handler

import (
	"errors"
	"net/http"

	"curator/internal/domain"
	"curator/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var linkErr *domain.LinkageError
	var httpErr domain.HTTPError

	switch {
	case errors.As(err, &linkErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, linkErr.Error(), map[string]interface{}{
			"managed_file_id": linkErr.ManagedFileID,
			"link_type":       linkErr.LinkType,
		})
	case errors.As(err, &httpErr):
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathID extracts a required path parameter, responding 400 when missing
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return id, true
}
