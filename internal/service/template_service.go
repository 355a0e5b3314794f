package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"guidedjournal/internal/condition"
	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"

	"github.com/google/uuid"
)

var questionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type TemplateService struct {
	provider TemplateProvider
}

type TemplateProvider interface {
	CreateTemplate(ctx context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool) (domains.Template, error)
	CreateTemplateWithQuestions(ctx context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool, questions []domains.QuestionCreate) (domains.TemplateDetails, error)
	GetTemplate(ctx context.Context, templateID int64) (domains.Template, error)
	FindSystemTemplate(ctx context.Context, name string) (domains.Template, error)
	ListTemplatesForUser(ctx context.Context, userID int64) ([]domains.Template, error)
	UpdateTemplate(ctx context.Context, templateID int64, template domains.TemplateCreate) (domains.Template, error)
	DeleteTemplate(ctx context.Context, templateID int64) error
	GetQuestions(ctx context.Context, templateID int64) ([]domains.Question, error)
	CreateQuestion(ctx context.Context, templateID int64, question domains.QuestionCreate) (domains.Question, error)
	UpdateQuestion(ctx context.Context, templateID int64, questionID string, question domains.QuestionCreate) (domains.Question, error)
	DeleteQuestion(ctx context.Context, templateID int64, questionID string) error
	ReorderQuestions(ctx context.Context, templateID int64, questionIDs []string) error
}

func NewTemplateService(provider TemplateProvider) *TemplateService {
	return &TemplateService{
		provider: provider,
	}
}

func (h *TemplateService) CreateTemplate(ctx context.Context, userID int64, template domains.TemplateCreate) (domains.Template, error) {
	template, err := normalizeTemplate(template)
	if err != nil {
		return domains.Template{}, err
	}
	owner := userID
	created, err := h.provider.CreateTemplate(ctx, template, &owner, false)
	if err != nil {
		slog.Error("CreateTemplate failed", "err", err, "user_id", userID)
		return domains.Template{}, err
	}
	return created, nil
}

func (h *TemplateService) ListTemplates(ctx context.Context, userID int64) ([]domains.Template, error) {
	templates, err := h.provider.ListTemplatesForUser(ctx, userID)
	if err != nil {
		slog.Error("ListTemplates failed", "err", err, "user_id", userID)
		return nil, err
	}
	return templates, nil
}

// GetTemplate returns a template the user may see together with its questions.
// Another user's private template is reported as storage.ErrNotFound.
func (h *TemplateService) GetTemplate(ctx context.Context, userID, templateID int64) (domains.TemplateDetails, error) {
	template, err := h.visible(ctx, userID, templateID)
	if err != nil {
		return domains.TemplateDetails{}, err
	}
	questions, err := h.provider.GetQuestions(ctx, templateID)
	if err != nil {
		slog.Error("GetQuestions failed", "err", err, "template_id", templateID)
		return domains.TemplateDetails{}, err
	}
	return domains.TemplateDetails{Template: template, Questions: questions}, nil
}

// CanUse reports whether the user may resolve the template.
func (h *TemplateService) CanUse(ctx context.Context, userID, templateID int64) (bool, error) {
	if _, err := h.visible(ctx, userID, templateID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (h *TemplateService) UpdateTemplate(ctx context.Context, userID, templateID int64, update domains.TemplateCreate) (domains.Template, error) {
	update, err := normalizeTemplate(update)
	if err != nil {
		return domains.Template{}, err
	}
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return domains.Template{}, err
	}
	updated, err := h.provider.UpdateTemplate(ctx, templateID, update)
	if err != nil {
		slog.Error("UpdateTemplate failed", "err", err, "user_id", userID, "template_id", templateID)
		return domains.Template{}, err
	}
	return updated, nil
}

func (h *TemplateService) DeleteTemplate(ctx context.Context, userID, templateID int64) error {
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return err
	}
	if err := h.provider.DeleteTemplate(ctx, templateID); err != nil {
		slog.Error("DeleteTemplate failed", "err", err, "user_id", userID, "template_id", templateID)
		return err
	}
	return nil
}

func (h *TemplateService) AddQuestion(ctx context.Context, userID, templateID int64, question domains.QuestionCreate) (domains.Question, error) {
	question, err := normalizeQuestion(question)
	if err != nil {
		return domains.Question{}, err
	}
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return domains.Question{}, err
	}
	created, err := h.provider.CreateQuestion(ctx, templateID, question)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domains.Question{}, ErrQuestionIDTaken
		}
		slog.Error("CreateQuestion failed", "err", err, "template_id", templateID)
		return domains.Question{}, err
	}
	return created, nil
}

func (h *TemplateService) UpdateQuestion(ctx context.Context, userID, templateID int64, questionID string, question domains.QuestionCreate) (domains.Question, error) {
	if question.QuestionID == "" {
		question.QuestionID = questionID
	}
	question, err := normalizeQuestion(question)
	if err != nil {
		return domains.Question{}, err
	}
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return domains.Question{}, err
	}
	updated, err := h.provider.UpdateQuestion(ctx, templateID, questionID, question)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return domains.Question{}, ErrQuestionIDTaken
		}
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("UpdateQuestion failed", "err", err, "template_id", templateID, "question_id", questionID)
		}
		return domains.Question{}, err
	}
	return updated, nil
}

func (h *TemplateService) RemoveQuestion(ctx context.Context, userID, templateID int64, questionID string) error {
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return err
	}
	return h.provider.DeleteQuestion(ctx, templateID, questionID)
}

// ReorderQuestions requires the full list of the template's question ids.
func (h *TemplateService) ReorderQuestions(ctx context.Context, userID, templateID int64, questionIDs []string) error {
	if _, err := h.editable(ctx, userID, templateID); err != nil {
		return err
	}
	current, err := h.provider.GetQuestions(ctx, templateID)
	if err != nil {
		return err
	}
	if len(current) != len(questionIDs) {
		return ErrOrderIncomplete
	}
	remaining := make(map[string]struct{}, len(current))
	for _, q := range current {
		remaining[q.QuestionID] = struct{}{}
	}
	for _, id := range questionIDs {
		if _, ok := remaining[id]; !ok {
			return ErrOrderIncomplete
		}
		delete(remaining, id)
	}
	if err := h.provider.ReorderQuestions(ctx, templateID, questionIDs); err != nil {
		slog.Error("ReorderQuestions failed", "err", err, "template_id", templateID)
		return err
	}
	return nil
}

// SeedSystemTemplate creates a system template unless one with the same name
// already exists. created reports whether anything was written.
func (h *TemplateService) SeedSystemTemplate(ctx context.Context, template domains.TemplateCreate, questions []domains.QuestionCreate) (domains.Template, bool, error) {
	template, err := normalizeTemplate(template)
	if err != nil {
		return domains.Template{}, false, err
	}
	existing, err := h.provider.FindSystemTemplate(ctx, template.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return domains.Template{}, false, err
	}

	normalized := make([]domains.QuestionCreate, 0, len(questions))
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		nq, err := normalizeQuestion(q)
		if err != nil {
			return domains.Template{}, false, fmt.Errorf("question %q: %w", q.QuestionID, err)
		}
		if _, dup := seen[nq.QuestionID]; dup {
			return domains.Template{}, false, fmt.Errorf("question %q: %w", nq.QuestionID, ErrQuestionIDTaken)
		}
		seen[nq.QuestionID] = struct{}{}
		normalized = append(normalized, nq)
	}

	details, err := h.provider.CreateTemplateWithQuestions(ctx, template, nil, true, normalized)
	if err != nil {
		return domains.Template{}, false, err
	}
	slog.Info("system template seeded", "template_id", details.Template.ID, "name", details.Template.Name, "questions", len(details.Questions))
	return details.Template, true, nil
}

func (h *TemplateService) visible(ctx context.Context, userID, templateID int64) (domains.Template, error) {
	template, err := h.provider.GetTemplate(ctx, templateID)
	if err != nil {
		return domains.Template{}, err
	}
	if !template.VisibleTo(userID) {
		return domains.Template{}, fmt.Errorf("template %d: %w", templateID, storage.ErrNotFound)
	}
	return template, nil
}

func (h *TemplateService) editable(ctx context.Context, userID, templateID int64) (domains.Template, error) {
	template, err := h.visible(ctx, userID, templateID)
	if err != nil {
		return domains.Template{}, err
	}
	if template.IsSystem {
		return domains.Template{}, ErrTemplateReadOnly
	}
	return template, nil
}

func normalizeTemplate(t domains.TemplateCreate) (domains.TemplateCreate, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Description = strings.TrimSpace(t.Description)
	if t.Name == "" {
		return t, ErrTemplateNameEmpty
	}
	return t, nil
}

func normalizeQuestion(q domains.QuestionCreate) (domains.QuestionCreate, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return q, ErrQuestionTextEmpty
	}
	if !q.Type.Valid() {
		return q, fmt.Errorf("%w: %q", ErrQuestionTypeInvalid, q.Type)
	}

	q.QuestionID = strings.TrimSpace(q.QuestionID)
	if q.QuestionID == "" {
		q.QuestionID = "q_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	if !questionIDPattern.MatchString(q.QuestionID) {
		return q, ErrQuestionIDInvalid
	}

	props, err := domains.ParseProperties(q.Type, q.Properties)
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrPropertiesInvalid, err)
	}
	canonical, err := json.Marshal(props)
	if err != nil {
		return q, fmt.Errorf("%w: %v", ErrPropertiesInvalid, err)
	}
	q.Properties = canonical

	if q.Condition != nil {
		expr := strings.TrimSpace(*q.Condition)
		if expr == "" {
			q.Condition = nil
		} else {
			if _, err := condition.Compile(expr); err != nil {
				return q, fmt.Errorf("%w: %v", ErrConditionInvalid, err)
			}
			q.Condition = &expr
		}
	}
	return q, nil
}
