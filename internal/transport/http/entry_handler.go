package httptransport

import (
	"context"
	"net/http"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/httpx"
)

type EntryHandlers struct {
	service EntryServices
}

type EntryServices interface {
	SubmitEntry(ctx context.Context, user domains.User, submission domains.EntrySubmission) (domains.EntryResult, error)
	GetEntry(ctx context.Context, userID, entryID int64) (domains.Entry, error)
}

func NewEntryHandlers(service EntryServices) *EntryHandlers {
	return &EntryHandlers{service: service}
}

func (h *EntryHandlers) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	submission, err := httpx.ReadBody[domains.EntrySubmission](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.service.SubmitEntry(r.Context(), user, submission)
	if err != nil {
		writeError(w, r, "SubmitEntry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, result)
}

func (h *EntryHandlers) GetEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	entryID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	entry, err := h.service.GetEntry(r.Context(), user, entryID)
	if err != nil {
		writeError(w, r, "GetEntry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}
