package domains

import (
	"encoding/json"
	"time"
)

type TemplateCreate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Template is a named, ordered question set. OwnerID is nil for system templates.
type Template struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TemplateDetails struct {
	Template  Template   `json:"template"`
	Questions []Question `json:"questions"`
}

// VisibleTo reports whether userID may read or resolve the template.
func (t Template) VisibleTo(userID int64) bool {
	if t.IsSystem || t.OwnerID == nil {
		return true
	}
	return *t.OwnerID == userID
}

type QuestionCreate struct {
	QuestionID string          `json:"question_id"`
	Text       string          `json:"text"`
	Type       QuestionType    `json:"type"`
	Order      *int            `json:"order,omitempty"`
	Required   bool            `json:"required"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Condition  *string         `json:"condition,omitempty"`
}

type QuestionOrder struct {
	QuestionIDs []string `json:"question_ids"`
}

// Question is a stored template question. QuestionID is the answer key and is
// unique within its template only.
type Question struct {
	ID         int64           `json:"id"`
	TemplateID int64           `json:"template_id"`
	QuestionID string          `json:"question_id"`
	Text       string          `json:"text"`
	Type       QuestionType    `json:"type"`
	Order      int             `json:"order"`
	Required   bool            `json:"required"`
	Properties json.RawMessage `json:"properties,omitempty"`
	Condition  *string         `json:"condition,omitempty"`
}

func (q Question) ConditionText() string {
	if q.Condition == nil {
		return ""
	}
	return *q.Condition
}
