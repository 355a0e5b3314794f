package domains

type ResolutionSource string

const (
	SourceTemplate ResolutionSource = "template"
	SourceDefault  ResolutionSource = "default"
)

// ResolvedQuestion is what the presentation layer renders. Its condition has
// already been evaluated and its text interpolated.
type ResolvedQuestion struct {
	ID         string       `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	Required   bool         `json:"required"`
	Properties Properties   `json:"properties"`
	Order      int          `json:"order"`
}

type Resolution struct {
	TemplateID *int64             `json:"template_id,omitempty"`
	Source     ResolutionSource   `json:"source"`
	Notice     string             `json:"notice,omitempty"`
	Questions  []ResolvedQuestion `json:"questions"`
}

// Offered reports whether questionID is part of the resolution.
func (r Resolution) Offered(questionID string) (ResolvedQuestion, bool) {
	for _, q := range r.Questions {
		if q.ID == questionID {
			return q, true
		}
	}
	return ResolvedQuestion{}, false
}

type GuidedRequest struct {
	TemplateID *int64            `json:"template_id,omitempty"`
	Answers    PartialSubmission `json:"answers,omitempty"`
}
