package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/httpx"
)

type GuidedHandlers struct {
	service GuidedServices
}

type GuidedServices interface {
	Resolve(ctx context.Context, user domains.User, request domains.GuidedRequest) domains.Resolution
}

func NewGuidedHandlers(service GuidedServices) *GuidedHandlers {
	return &GuidedHandlers{service: service}
}

// Questions resolves the form for ?template_id=N, or the defaults without it.
func (h *GuidedHandlers) Questions(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request domains.GuidedRequest
	if raw := r.URL.Query().Get("template_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, "invalid template_id")
			return
		}
		request.TemplateID = &id
	}
	httpx.JSON(w, http.StatusOK, h.service.Resolve(r.Context(), user, request))
}

// Preview re-resolves a form that is being filled in, so questions that depend
// on earlier answers appear or disappear.
func (h *GuidedHandlers) Preview(w http.ResponseWriter, r *http.Request) {
	user, ok := httpx.UserFromContext(r.Context())
	if !ok {
		httpx.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	request, err := httpx.ReadBody[domains.GuidedRequest](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Resolve(r.Context(), user, request))
}
