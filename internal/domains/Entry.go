package domains

import (
	"strings"
	"time"
)

type EntrySubmission struct {
	TemplateID *int64            `json:"template_id,omitempty"`
	Content    string            `json:"content"`
	Answers    map[string]string `json:"answers"`
}

// Answer keeps a snapshot of the question text shown when it was answered.
type Answer struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Value        string `json:"value"`
}

type EntryToSave struct {
	UserID     int64
	TemplateID *int64
	Content    string
	CreatedAt  time.Time
	Answers    []Answer
}

type Entry struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	TemplateID *int64    `json:"template_id,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	Answers    []Answer  `json:"answers"`
}

type EntryResult struct {
	Entry      Entry      `json:"entry"`
	Resolution Resolution `json:"resolution"`
}

// ParseYesNo maps the usual boolean spellings to the stored "Yes"/"No".
func ParseYesNo(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "on", "1":
		return "Yes", true
	case "no", "n", "false", "off", "0":
		return "No", true
	default:
		return "", false
	}
}
