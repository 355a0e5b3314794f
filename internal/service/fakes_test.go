package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"guidedjournal/internal/domains"
	"guidedjournal/internal/storage"
)

// memTemplates is an in-memory TemplateProvider.
type memTemplates struct {
	mu        sync.Mutex
	nextID    int64
	templates map[int64]domains.Template
	questions map[int64][]domains.Question
	err       error
}

func newMemTemplates() *memTemplates {
	return &memTemplates{
		nextID:    1,
		templates: map[int64]domains.Template{},
		questions: map[int64][]domains.Question{},
	}
}

func (m *memTemplates) add(t domains.Template, questions ...domains.Question) domains.Template {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == 0 {
		t.ID = m.nextID
	}
	if t.ID >= m.nextID {
		m.nextID = t.ID + 1
	}
	m.templates[t.ID] = t
	for i := range questions {
		questions[i].TemplateID = t.ID
		questions[i].ID = int64(i + 1)
	}
	m.questions[t.ID] = questions
	return t
}

func (m *memTemplates) CreateTemplate(_ context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool) (domains.Template, error) {
	if m.err != nil {
		return domains.Template{}, m.err
	}
	return m.add(domains.Template{Name: template.Name, Description: template.Description, OwnerID: ownerID, IsSystem: isSystem}), nil
}

func (m *memTemplates) CreateTemplateWithQuestions(ctx context.Context, template domains.TemplateCreate, ownerID *int64, isSystem bool, questions []domains.QuestionCreate) (domains.TemplateDetails, error) {
	created, err := m.CreateTemplate(ctx, template, ownerID, isSystem)
	if err != nil {
		return domains.TemplateDetails{}, err
	}
	for _, q := range questions {
		if _, err := m.CreateQuestion(ctx, created.ID, q); err != nil {
			return domains.TemplateDetails{}, err
		}
	}
	stored, _ := m.GetQuestions(ctx, created.ID)
	return domains.TemplateDetails{Template: created, Questions: stored}, nil
}

func (m *memTemplates) GetTemplate(_ context.Context, templateID int64) (domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domains.Template{}, m.err
	}
	t, ok := m.templates[templateID]
	if !ok {
		return domains.Template{}, storage.ErrNotFound
	}
	return t, nil
}

func (m *memTemplates) FindSystemTemplate(_ context.Context, name string) (domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.IsSystem && t.Name == name {
			return t, nil
		}
	}
	return domains.Template{}, storage.ErrNotFound
}

func (m *memTemplates) ListTemplatesForUser(_ context.Context, userID int64) ([]domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domains.Template
	for _, t := range m.templates {
		if t.VisibleTo(userID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTemplates) UpdateTemplate(_ context.Context, templateID int64, template domains.TemplateCreate) (domains.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[templateID]
	if !ok {
		return domains.Template{}, storage.ErrNotFound
	}
	t.Name, t.Description = template.Name, template.Description
	m.templates[templateID] = t
	return t, nil
}

func (m *memTemplates) DeleteTemplate(_ context.Context, templateID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[templateID]; !ok {
		return storage.ErrNotFound
	}
	delete(m.templates, templateID)
	delete(m.questions, templateID)
	return nil
}

func (m *memTemplates) GetQuestions(_ context.Context, templateID int64) ([]domains.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if _, ok := m.templates[templateID]; !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]domains.Question, len(m.questions[templateID]))
	copy(out, m.questions[templateID])
	return out, nil
}

func (m *memTemplates) CreateQuestion(_ context.Context, templateID int64, question domains.QuestionCreate) (domains.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[templateID]; !ok {
		return domains.Question{}, storage.ErrNotFound
	}
	existing := m.questions[templateID]
	for _, q := range existing {
		if q.QuestionID == question.QuestionID {
			return domains.Question{}, storage.ErrConflict
		}
	}
	order := len(existing)
	if question.Order != nil {
		order = *question.Order
	}
	q := domains.Question{
		ID:         int64(len(existing) + 1),
		TemplateID: templateID,
		QuestionID: question.QuestionID,
		Text:       question.Text,
		Type:       question.Type,
		Order:      order,
		Required:   question.Required,
		Properties: question.Properties,
		Condition:  question.Condition,
	}
	m.questions[templateID] = append(existing, q)
	return q, nil
}

func (m *memTemplates) UpdateQuestion(_ context.Context, templateID int64, questionID string, question domains.QuestionCreate) (domains.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range m.questions[templateID] {
		if q.QuestionID != questionID {
			continue
		}
		q.QuestionID = question.QuestionID
		q.Text = question.Text
		q.Type = question.Type
		q.Required = question.Required
		q.Properties = question.Properties
		q.Condition = question.Condition
		if question.Order != nil {
			q.Order = *question.Order
		}
		m.questions[templateID][i] = q
		return q, nil
	}
	return domains.Question{}, storage.ErrNotFound
}

func (m *memTemplates) DeleteQuestion(_ context.Context, templateID int64, questionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	questions := m.questions[templateID]
	for i, q := range questions {
		if q.QuestionID == questionID {
			m.questions[templateID] = append(questions[:i:i], questions[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (m *memTemplates) ReorderQuestions(_ context.Context, templateID int64, questionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	position := make(map[string]int, len(questionIDs))
	for i, id := range questionIDs {
		position[id] = i
	}
	for i, q := range m.questions[templateID] {
		m.questions[templateID][i].Order = position[q.QuestionID]
	}
	return nil
}

// stubFacts is a FactsProvider with canned answers that records its arguments.
type stubFacts struct {
	last     time.Time
	hasLast  bool
	lastErr  error
	exercise bool
	exErr    error
	goals    bool
	goalsErr error

	exercisedCalls []time.Time
	goalsFrom      time.Time
	goalsTo        time.Time
}

func (s *stubFacts) LastEntryBefore(context.Context, int64, time.Time) (time.Time, bool, error) {
	return s.last, s.hasLast, s.lastErr
}

func (s *stubFacts) HasExercised(_ context.Context, _ int64, localDate time.Time) (bool, error) {
	s.exercisedCalls = append(s.exercisedCalls, localDate)
	return s.exercise, s.exErr
}

func (s *stubFacts) HasAnswerBetween(_ context.Context, _ int64, _ string, from, to time.Time) (bool, error) {
	s.goalsFrom, s.goalsTo = from, to
	return s.goals, s.goalsErr
}

// stubEntries is an EntryProvider that keeps what it was asked to store.
type stubEntries struct {
	saved     []domains.EntryToSave
	saveErr   error
	exercised []time.Time
	markErr   error
}

func (s *stubEntries) SaveEntry(_ context.Context, entry domains.EntryToSave) (domains.Entry, error) {
	if s.saveErr != nil {
		return domains.Entry{}, s.saveErr
	}
	s.saved = append(s.saved, entry)
	return domains.Entry{
		ID:         int64(len(s.saved)),
		UserID:     entry.UserID,
		TemplateID: entry.TemplateID,
		Content:    entry.Content,
		CreatedAt:  entry.CreatedAt,
		Answers:    entry.Answers,
	}, nil
}

func (s *stubEntries) GetEntry(_ context.Context, userID, entryID int64) (domains.Entry, error) {
	if entryID < 1 || int(entryID) > len(s.saved) || s.saved[entryID-1].UserID != userID {
		return domains.Entry{}, storage.ErrNotFound
	}
	e := s.saved[entryID-1]
	return domains.Entry{ID: entryID, UserID: e.UserID, Content: e.Content, Answers: e.Answers}, nil
}

func (s *stubEntries) MarkExercised(_ context.Context, _ int64, localDate time.Time) error {
	s.exercised = append(s.exercised, localDate)
	return s.markErr
}

func question(id string, order int, typ domains.QuestionType, condition string) domains.Question {
	q := domains.Question{QuestionID: id, Text: "Question " + id, Type: typ, Order: order}
	if condition != "" {
		q.Condition = &condition
	}
	return q
}

func rawJSON(s string) json.RawMessage { return json.RawMessage(s) }

func ids(questions []domains.ResolvedQuestion) []string {
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
