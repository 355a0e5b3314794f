package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"guidedjournal/internal/httpx"
	"guidedjournal/internal/service"
	"guidedjournal/internal/storage"
)

var badRequest = []error{
	service.ErrTemplateNameEmpty,
	service.ErrQuestionIDInvalid,
	service.ErrQuestionTextEmpty,
	service.ErrQuestionTypeInvalid,
	service.ErrPropertiesInvalid,
	service.ErrConditionInvalid,
	service.ErrOrderIncomplete,
	service.ErrAnswerRequired,
	service.ErrAnswerInvalid,
}

// writeError maps service and storage errors to a status code. Anything
// unrecognised is logged and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			httpx.Error(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	switch {
	case errors.Is(err, service.ErrTemplateReadOnly):
		httpx.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		httpx.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrQuestionIDTaken), errors.Is(err, storage.ErrConflict):
		httpx.Error(w, http.StatusConflict, service.ErrQuestionIDTaken.Error())
	default:
		slog.Error(op+" failed", "err", err, "request_id", httpx.RequestIDFromContext(r.Context()))
		httpx.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	user, ok := httpx.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return 0, false
	}
	return user.ID, true
}
