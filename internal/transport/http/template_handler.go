package httptransport

import (
	"context"
	"net/http"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/httpx"

	"github.com/gorilla/mux"
)

type TemplateHandlers struct {
	service TemplateServices
}

type TemplateServices interface {
	CreateTemplate(ctx context.Context, userID int64, template domains.TemplateCreate) (domains.Template, error)
	ListTemplates(ctx context.Context, userID int64) ([]domains.Template, error)
	GetTemplate(ctx context.Context, userID, templateID int64) (domains.TemplateDetails, error)
	UpdateTemplate(ctx context.Context, userID, templateID int64, update domains.TemplateCreate) (domains.Template, error)
	DeleteTemplate(ctx context.Context, userID, templateID int64) error
	AddQuestion(ctx context.Context, userID, templateID int64, question domains.QuestionCreate) (domains.Question, error)
	UpdateQuestion(ctx context.Context, userID, templateID int64, questionID string, question domains.QuestionCreate) (domains.Question, error)
	RemoveQuestion(ctx context.Context, userID, templateID int64, questionID string) error
	ReorderQuestions(ctx context.Context, userID, templateID int64, questionIDs []string) error
}

func NewTemplateHandlers(service TemplateServices) *TemplateHandlers {
	return &TemplateHandlers{
		service: service,
	}
}

func (h *TemplateHandlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateData, err := httpx.ReadBody[domains.TemplateCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.service.CreateTemplate(r.Context(), user, templateData)
	if err != nil {
		writeError(w, r, "CreateTemplate", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *TemplateHandlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templates, err := h.service.ListTemplates(r.Context(), user)
	if err != nil {
		writeError(w, r, "ListTemplates", err)
		return
	}
	if templates == nil {
		templates = []domains.Template{}
	}
	httpx.JSON(w, http.StatusOK, TemplateList{Templates: templates})
}

func (h *TemplateHandlers) GetTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetTemplate(r.Context(), user, templateID)
	if err != nil {
		writeError(w, r, "GetTemplate", err)
		return
	}
	httpx.JSON(w, http.StatusOK, details)
}

func (h *TemplateHandlers) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	update, err := httpx.ReadBody[domains.TemplateCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.service.UpdateTemplate(r.Context(), user, templateID, update)
	if err != nil {
		writeError(w, r, "UpdateTemplate", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *TemplateHandlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteTemplate(r.Context(), user, templateID); err != nil {
		writeError(w, r, "DeleteTemplate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandlers) AddQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	question, err := httpx.ReadBody[domains.QuestionCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.AddQuestion(r.Context(), user, templateID, question)
	if err != nil {
		writeError(w, r, "AddQuestion", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *TemplateHandlers) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	question, err := httpx.ReadBody[domains.QuestionCreate](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.service.UpdateQuestion(r.Context(), user, templateID, mux.Vars(r)["questionId"], question)
	if err != nil {
		writeError(w, r, "UpdateQuestion", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *TemplateHandlers) RemoveQuestion(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveQuestion(r.Context(), user, templateID, mux.Vars(r)["questionId"]); err != nil {
		writeError(w, r, "RemoveQuestion", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandlers) ReorderQuestions(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	templateID, ok := httpx.GetId(w, r)
	if !ok {
		return
	}
	order, err := httpx.ReadBody[domains.QuestionOrder](r)
	if err != nil {
		httpx.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.service.ReorderQuestions(r.Context(), user, templateID, order.QuestionIDs); err != nil {
		writeError(w, r, "ReorderQuestions", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
